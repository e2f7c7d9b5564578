// Package generator picks and decorates the words for a test.
package generator

import (
	"math/rand"
	"time"
	"unicode"

	"github.com/verte-zerg/typetest/internal/model"
)

// MaxWords caps how many words a single test draws from its list.
const MaxWords = 200

// Options controls word selection and decoration.
type Options struct {
	Count      int
	CapsPct    float64
	PunctPct   float64
	PunctSet   []rune
	WeakSet    map[rune]struct{}
	WeakFactor float64
}

// Generator produces randomized word sequences.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewWithSeed(time.Now().UnixNano())
}

// NewWithSeed returns a deterministic Generator.
func NewWithSeed(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Pick returns up to opts.Count words (capped at MaxWords). Without a weak
// set the list is shuffled and truncated, so no word repeats; with one,
// words are drawn with replacement, biased toward weak characters.
func (g *Generator) Pick(words []model.Word, opts Options) []model.Word {
	count := opts.Count
	if count <= 0 || count > MaxWords {
		count = MaxWords
	}
	if len(words) == 0 {
		return nil
	}

	var picked []model.Word
	if len(opts.WeakSet) > 0 {
		picked = g.weighted(words, count, opts.WeakSet, opts.WeakFactor)
	} else {
		picked = g.shuffle(words)
		if len(picked) > count {
			picked = picked[:count]
		}
	}
	for i := range picked {
		picked[i].Text = applyCaps(g.rnd, picked[i].Text, opts.CapsPct)
		picked[i].Text = applyPunct(g.rnd, picked[i].Text, opts.PunctPct, opts.PunctSet)
	}
	return picked
}

func (g *Generator) shuffle(words []model.Word) []model.Word {
	out := make([]model.Word, len(words))
	copy(out, words)
	for i := len(out) - 1; i > 0; i-- {
		j := g.rnd.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

func (g *Generator) weighted(words []model.Word, count int, weakSet map[rune]struct{}, factor float64) []model.Word {
	weights := make([]float64, len(words))
	total := 0.0
	for i, word := range words {
		weakCount := 0
		for _, r := range word.Text {
			if _, ok := weakSet[r]; ok {
				weakCount++
			}
		}
		w := 1.0 + float64(weakCount)*factor
		weights[i] = w
		total += w
	}

	result := make([]model.Word, 0, count)
	for i := 0; i < count; i++ {
		r := g.rnd.Float64() * total
		acc := 0.0
		idx := len(words) - 1
		for j, w := range weights {
			acc += w
			if r <= acc {
				idx = j
				break
			}
		}
		result = append(result, words[idx])
	}
	return result
}

func applyCaps(rnd *rand.Rand, word string, capsPct float64) string {
	if capsPct <= 0 {
		return word
	}
	if rnd.Float64() > capsPct {
		return word
	}
	runes := []rune(word)
	if len(runes) == 0 {
		return word
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func applyPunct(rnd *rand.Rand, word string, punctPct float64, punctSet []rune) string {
	if punctPct <= 0 || len(punctSet) == 0 {
		return word
	}
	if rnd.Float64() > punctPct {
		return word
	}
	punct := punctSet[rnd.Intn(len(punctSet))]
	return word + string(punct)
}
