// Package wordlist provides word list filtering helpers.
package wordlist

import (
	"strings"
	"unicode"
)

// FilterFunc returns true when a word should be kept.
type FilterFunc func(string) bool

// FilterForLang returns a language-specific filter for word lists. Every
// filter rejects words a test cannot use.
func FilterForLang(lang string) FilterFunc {
	switch strings.ToLower(lang) {
	case "en":
		return func(word string) bool {
			return ValidWord(word) && filterEnglishASCII(word)
		}
	default:
		return ValidWord
	}
}

// ValidWord reports whether word is non-empty, printable and free of
// whitespace, which would collide with the word separator.
func ValidWord(word string) bool {
	if word == "" {
		return false
	}
	for _, r := range word {
		if unicode.IsSpace(r) || !unicode.IsPrint(r) {
			return false
		}
	}
	return true
}

func filterEnglishASCII(word string) bool {
	for i := 0; i < len(word); i++ {
		ch := word[i]
		if ch < 'a' || ch > 'z' {
			return false
		}
	}
	return true
}
