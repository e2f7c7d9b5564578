package stats

import (
	"sort"
	"unicode"
	"unicode/utf8"

	"github.com/verte-zerg/typetest/internal/model"
	"github.com/verte-zerg/typetest/internal/typing"
)

// SelectWeakChars picks up to top characters with the lowest accuracy.
// Whitespace and unattempted characters never count as weak. A non-positive
// top selects every candidate.
func SelectWeakChars(aggs []model.CharAggregate, top int) map[rune]struct{} {
	weakSet := map[rune]struct{}{}
	for _, agg := range rankWeakest(aggs) {
		if top > 0 && len(weakSet) >= top {
			break
		}
		r, size := utf8.DecodeRuneInString(agg.Char)
		if size == 0 || size != len(agg.Char) || r == typing.Separator || unicode.IsSpace(r) {
			continue
		}
		if agg.Correct+agg.Incorrect == 0 {
			continue
		}
		weakSet[r] = struct{}{}
	}
	return weakSet
}

// rankWeakest orders a copy of aggs from lowest to highest accuracy. Ties go
// to the character with more attempts, then by character.
func rankWeakest(aggs []model.CharAggregate) []model.CharAggregate {
	ranked := make([]model.CharAggregate, len(aggs))
	copy(ranked, aggs)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		at, bt := attempts(a), attempts(b)
		// Compare correct/total ratios without rounding; an unattempted
		// character counts as fully accurate.
		left, right := a.Correct*bt, b.Correct*at
		if at == 0 {
			left, right = bt, b.Correct
		}
		if bt == 0 {
			left, right = a.Correct, at
		}
		if at == 0 && bt == 0 {
			left, right = 0, 0
		}
		if left != right {
			return left < right
		}
		if at != bt {
			return at > bt
		}
		return a.Char < b.Char
	})
	return ranked
}

func attempts(agg model.CharAggregate) int {
	return agg.Correct + agg.Incorrect
}

// accuracyPct is the exact accuracy of agg in percent, 100 when unattempted.
func accuracyPct(agg model.CharAggregate) float64 {
	total := attempts(agg)
	if total == 0 {
		return 100
	}
	return float64(agg.Correct) * 100 / float64(total)
}
