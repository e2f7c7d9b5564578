package typing

import "math"

// CharsPerWord normalizes character counts into words.
const CharsPerWord = 5

// Metrics is derived from the character snapshot and the clock.
type Metrics struct {
	WPM            int
	Accuracy       int
	CorrectChars   int
	IncorrectChars int
	TotalChars     int
}

// InitialMetrics is the metrics value of a session nobody has typed into.
func InitialMetrics() Metrics {
	return Metrics{Accuracy: 100}
}

// WPM returns words per minute for correct characters typed over elapsedMs,
// rounded half up. It returns 0 when no time has elapsed.
func WPM(correctChars int, elapsedMs int64) int {
	if elapsedMs <= 0 || correctChars <= 0 {
		return 0
	}
	minutes := float64(elapsedMs) / 60000.0
	words := float64(correctChars) / CharsPerWord
	return int(math.Floor(words/minutes + 0.5))
}

// Accuracy returns the percentage of correct characters, 100 when nothing has
// been typed yet.
func Accuracy(correctChars, incorrectChars int) int {
	total := correctChars + incorrectChars
	if total <= 0 {
		return 100
	}
	pct := int(math.Floor(100*float64(correctChars)/float64(total) + 0.5))
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

func computeMetrics(chars []Char, elapsedMs int64) Metrics {
	var m Metrics
	for _, c := range chars {
		switch c.Status {
		case Correct:
			m.CorrectChars++
		case Incorrect:
			m.IncorrectChars++
		}
	}
	m.TotalChars = m.CorrectChars + m.IncorrectChars
	m.WPM = WPM(m.CorrectChars, elapsedMs)
	m.Accuracy = Accuracy(m.CorrectChars, m.IncorrectChars)
	return m
}
