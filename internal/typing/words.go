// Package typing implements the timed typing test: character sequences,
// metrics, the session state machine and its render projection.
package typing

import "github.com/verte-zerg/typetest/internal/model"

// Separator is inserted between consecutive words.
const Separator = ' '

// CharStatus is the judgement of a single character.
type CharStatus int

// Character statuses.
const (
	Pending CharStatus = iota
	Correct
	Incorrect
)

func (s CharStatus) String() string {
	switch s {
	case Correct:
		return "correct"
	case Incorrect:
		return "incorrect"
	default:
		return "pending"
	}
}

// Char is one position of the flattened sequence. Status is the only field
// that changes after preparation.
type Char struct {
	Rune        rune
	Status      CharStatus
	GlobalIndex int
	WordIndex   int
	IndexInWord int
	IsSeparator bool
}

// Word groups the characters of one source word. Chars aliases the flat
// sequence, so status updates are visible through both. The trailing
// separator, when present, is the last element of Chars.
type Word struct {
	Source model.Word
	Chars  []Char
	Index  int
}

// Prepare expands words into Word units backed by a single flat character
// slice. limit caps the number of words used; limit <= 0 keeps all of them.
func Prepare(words []model.Word, limit int) ([]Word, []Char) {
	if limit > 0 && len(words) > limit {
		words = words[:limit]
	}
	total := 0
	for i, w := range words {
		total += len([]rune(w.Text))
		if i < len(words)-1 {
			total++
		}
	}

	chars := make([]Char, 0, total)
	bounds := make([][2]int, 0, len(words))
	for wi, w := range words {
		start := len(chars)
		idx := 0
		for _, r := range w.Text {
			chars = append(chars, Char{
				Rune:        r,
				GlobalIndex: len(chars),
				WordIndex:   wi,
				IndexInWord: idx,
			})
			idx++
		}
		if wi < len(words)-1 {
			chars = append(chars, Char{
				Rune:        Separator,
				GlobalIndex: len(chars),
				WordIndex:   wi,
				IndexInWord: idx,
				IsSeparator: true,
			})
		}
		bounds = append(bounds, [2]int{start, len(chars)})
	}

	out := make([]Word, len(words))
	for wi, w := range words {
		b := bounds[wi]
		out[wi] = Word{
			Source: w,
			Chars:  chars[b[0]:b[1]:b[1]],
			Index:  wi,
		}
	}
	return out, chars
}
