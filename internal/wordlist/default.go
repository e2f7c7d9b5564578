package wordlist

import (
	"fmt"

	"github.com/verte-zerg/typetest/internal/model"
)

// DefaultListName names the built-in list used when no stored list is usable.
const DefaultListName = "default"

var defaultWordTexts = []string{
	"the", "be", "to", "of", "and", "a", "in", "that", "have", "i", "it", "for",
	"not", "on", "with", "he", "as", "you", "do", "at", "this", "but", "his",
	"by", "from", "they", "we", "say", "her", "she", "or", "an", "will", "my",
	"one", "all", "would", "there", "their", "what", "so", "up", "out", "if",
	"about", "who", "get", "which", "go", "me", "when", "make", "can", "like",
	"time", "no", "just", "him", "know", "take", "people", "into", "year", "your",
	"good", "some", "could", "them", "see", "other", "than", "then", "now",
	"look", "only", "come", "its", "over", "think", "also", "back", "after",
	"use", "two", "how", "our", "work", "first", "well", "way", "even", "new",
	"want", "because", "any", "these", "give", "day", "most", "us",
}

// DefaultWords returns the built-in list of common English words.
func DefaultWords() []model.Word {
	out := make([]model.Word, len(defaultWordTexts))
	for i, text := range defaultWordTexts {
		out[i] = model.Word{ID: fmt.Sprintf("default-%d", i), Text: text}
	}
	return out
}
