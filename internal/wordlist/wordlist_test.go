package wordlist

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadWordsSkipsBlankAndInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.txt")
	content := "alpha\n\n  beta  \ntwo words\ngamma\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write words: %v", err)
	}
	words, err := LoadWords(path, nil)
	if err != nil {
		t.Fatalf("load words: %v", err)
	}
	if len(words) != 3 || words[0] != "alpha" || words[1] != "beta" || words[2] != "gamma" {
		t.Fatalf("unexpected words: %v", words)
	}
}

func TestLoadWordsEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.txt")
	if err := os.WriteFile(path, []byte("\n\n"), 0o644); err != nil {
		t.Fatalf("write words: %v", err)
	}
	if _, err := LoadWords(path, nil); err == nil {
		t.Fatalf("expected error for empty word list")
	}
}
