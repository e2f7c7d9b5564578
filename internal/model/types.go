// Package model defines shared data structures.
package model

import "time"

// Word is a single entry supplied by a word source.
type Word struct {
	ID   string
	Text string
}

// Config defines timed test settings.
type Config struct {
	DurationSeconds int
	WordList        string
	Words           int
	CapsPct         float64
	PunctPct        float64
	PunctSet        string
	FocusWeak       bool
	WeakTop         int
	WeakFactor      float64
	WeakWindow      int
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	WordList    string
	Since       *time.Time
	Last        int
	CurveWindow int
}

// ResultSummary is handed off to the result recorder when a test finishes.
type ResultSummary struct {
	WordListName    string `validate:"required"`
	DurationSeconds int    `validate:"gt=0"`
	CorrectChars    int    `validate:"gte=0"`
	IncorrectChars  int    `validate:"gte=0"`
	TestDurationMs  int64  `validate:"gt=0"`
}

// ResultRecord is a persisted, revalidated test result.
type ResultRecord struct {
	ID              string
	CreatedAt       time.Time
	WordListName    string
	DurationSeconds int
	WPM             int
	Accuracy        int
	CorrectChars    int
	IncorrectChars  int
	TotalChars      int
	TestDurationMs  int64
}

// CharStats stores per-character counts for a single test.
type CharStats struct {
	Char      string
	Correct   int
	Incorrect int
}

// CharAggregate aggregates character stats across results.
type CharAggregate struct {
	Char      string
	Correct   int
	Incorrect int
}

// WordListInfo describes a stored word list.
type WordListInfo struct {
	Name      string
	Words     int
	CreatedAt time.Time
}
