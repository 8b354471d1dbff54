// Package tokenizer exposes a process-wide GPT-2 tokenizer used to estimate
// token counts without calling an embedding server.
//
// The encoding is built from a BpeLoader owned by this package; tiktoken-go's
// global loader is left untouched, so other tiktoken users in the process are
// not affected.
package tokenizer

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/kelseyhightower/envconfig"
	"github.com/pkoukk/tiktoken-go"
)

// Encoding is the tiktoken encoding sharing GPT-2's byte pair vocabulary
const Encoding = tiktoken.MODEL_R50K_BASE

const (
	// VocabURL is where tiktoken-go publishes the r50k_base ranks; only its
	// base name is used for local lookups.
	VocabURL = "https://openaipublic.blob.core.windows.net/encodings/r50k_base.tiktoken"

	r50kPattern   = `'s|'t|'re|'ve|'m|'ll|'d| ?\p{L}+| ?\p{N}+| ?[^\s\p{L}\p{N}]+|\s+(?!\S)|\s+`
	endOfTextRank = 50256
)

type settings struct {
	// Dir overrides the vocabulary directory
	Dir string `envconfig:"TOKENIZER_DIR"`

	// Download lets a missing vocabulary be fetched from VocabURL
	Download bool `envconfig:"TOKENIZER_DOWNLOAD" default:"false"`
}

var encoder = sync.OnceValues(loadEncoder)

// GetEncoder returns the process-wide tokenizer, loading it on first use.
// A failed load is cached as well; later calls return the same error.
func GetEncoder() (*tiktoken.Tiktoken, error) {
	return encoder()
}

// GetNumTokens returns the number of GPT-2 tokens in text.
// <|endoftext|> counts as a single special token.
func GetNumTokens(text string) (int, error) {
	enc, err := GetEncoder()
	if err != nil {
		return 0, err
	}
	return len(enc.Encode(text, []string{"all"}, nil)), nil
}

// NewEncoder builds an r50k_base encoder from the ranks returned by loader
func NewEncoder(loader tiktoken.BpeLoader) (*tiktoken.Tiktoken, error) {
	ranks, err := loader.LoadTiktokenBpe(VocabURL)
	if err != nil {
		return nil, err
	}

	special := map[string]int{tiktoken.ENDOFTEXT: endOfTextRank}
	bpe, err := tiktoken.NewCoreBPE(ranks, special, r50kPattern)
	if err != nil {
		return nil, err
	}

	encoding := &tiktoken.Encoding{
		Name:           Encoding,
		PatStr:         r50kPattern,
		MergeableRanks: ranks,
		SpecialTokens:  special,
	}
	return tiktoken.NewTiktoken(bpe, encoding, map[string]any{tiktoken.ENDOFTEXT: true}), nil
}

// VocabDir returns the directory the vocabulary is read from:
// $LOCALAI_TOKENIZER_DIR, or tokenizers/gpt2 next to the executable.
func VocabDir() (string, error) {
	s, err := loadSettings()
	if err != nil {
		return "", err
	}
	return vocabDir(s)
}

func loadSettings() (settings, error) {
	var s settings
	if err := envconfig.Process("LOCALAI", &s); err != nil {
		return settings{}, fmt.Errorf("error reading tokenizer settings: %w", err)
	}
	return s, nil
}

func vocabDir(s settings) (string, error) {
	if s.Dir != "" {
		return s.Dir, nil
	}

	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("error resolving executable path: %w", err)
	}
	return filepath.Join(filepath.Dir(exe), "tokenizers", "gpt2"), nil
}

func loadEncoder() (*tiktoken.Tiktoken, error) {
	s, err := loadSettings()
	if err != nil {
		return nil, err
	}
	dir, err := vocabDir(s)
	if err != nil {
		return nil, err
	}

	var fallback tiktoken.BpeLoader
	if s.Download {
		fallback = tiktoken.NewDefaultBpeLoader()
	}

	enc, err := NewEncoder(NewVocabLoader(dir, fallback))
	if err != nil {
		return nil, fmt.Errorf("error loading %s encoding from %s: %w", Encoding, dir, err)
	}
	return enc, nil
}
