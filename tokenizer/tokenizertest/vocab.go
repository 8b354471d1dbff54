// Package tokenizertest provides a byte level vocabulary for tests that must
// not download the real GPT-2 ranks.
package tokenizertest

import (
	"bufio"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
)

// FileName is the vocabulary file name the tokenizer looks up
const FileName = "r50k_base.tiktoken"

// WriteByteVocab writes a vocabulary holding only the 256 single bytes, so
// every byte of the input becomes exactly one token.
func WriteByteVocab(dir string) error {
	f, err := os.Create(filepath.Join(dir, FileName))
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for b := 0; b < 256; b++ {
		token := base64.StdEncoding.EncodeToString([]byte{byte(b)})
		if _, err := fmt.Fprintf(w, "%s %d\n", token, b); err != nil {
			return err
		}
	}
	return w.Flush()
}
