package tokenizer

import (
	"bufio"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

// VocabLoader reads tiktoken BPE files from a local directory, falling back
// to another loader for files the directory does not hold.
type VocabLoader struct {
	dir      string
	fallback tiktoken.BpeLoader
}

// NewVocabLoader creates a VocabLoader; fallback may be nil
func NewVocabLoader(dir string, fallback tiktoken.BpeLoader) *VocabLoader {
	return &VocabLoader{dir: dir, fallback: fallback}
}

// LoadTiktokenBpe implements tiktoken.BpeLoader
func (l *VocabLoader) LoadTiktokenBpe(tiktokenBpeFile string) (map[string]int, error) {
	local := filepath.Join(l.dir, path.Base(tiktokenBpeFile))

	f, err := os.Open(local)
	if errors.Is(err, fs.ErrNotExist) && l.fallback != nil {
		return l.fallback.LoadTiktokenBpe(tiktokenBpeFile)
	}
	if err != nil {
		return nil, fmt.Errorf("error opening vocabulary: %w", err)
	}
	defer f.Close()

	ranks, err := ParseBpe(f)
	if err != nil {
		return nil, fmt.Errorf("error parsing %s: %w", local, err)
	}
	return ranks, nil
}

// ParseBpe decodes the tiktoken BPE format: one "<base64 token> <rank>" per line
func ParseBpe(r io.Reader) (map[string]int, error) {
	ranks := make(map[string]int)
	seen := make(map[int]struct{})

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, fmt.Errorf("line %d: expected token and rank", lineNo)
		}

		token, err := base64.StdEncoding.DecodeString(fields[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		rank, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if _, dup := seen[rank]; dup {
			return nil, fmt.Errorf("line %d: duplicate rank %d", lineNo, rank)
		}

		seen[rank] = struct{}{}
		ranks[string(token)] = rank
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(ranks) == 0 {
		return nil, errors.New("empty vocabulary")
	}

	return ranks, nil
}
