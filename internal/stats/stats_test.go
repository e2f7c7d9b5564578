package stats

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/typetest/internal/model"
)

func records(wpms ...int) []model.ResultRecord {
	out := make([]model.ResultRecord, len(wpms))
	for i, wpm := range wpms {
		out[i] = model.ResultRecord{
			ID:             string(rune('a' + i)),
			CreatedAt:      time.Date(2024, 1, 1+i, 0, 0, 0, 0, time.UTC),
			WordListName:   "basic",
			WPM:            wpm,
			Accuracy:       90,
			CorrectChars:   wpm * 5,
			TotalChars:     wpm * 5,
			TestDurationMs: 60000,
		}
	}
	return out
}

func TestSummarize(t *testing.T) {
	s := Summarize(records(40, 60))
	if s.Results != 2 || s.AvgWPM != 50 || s.BestWPM != 60 {
		t.Fatalf("unexpected summary: %+v", s)
	}
	if s.OverallWPM != 50 {
		t.Fatalf("expected overall wpm 50, got %d", s.OverallWPM)
	}
	if s.TotalTime != 2*time.Minute {
		t.Fatalf("unexpected total time: %v", s.TotalTime)
	}
	if empty := Summarize(nil); empty.Results != 0 || empty.AvgWPM != 0 {
		t.Fatalf("expected zero summary, got %+v", empty)
	}
}

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{2, 4, 6, 8}, 2)
	want := []float64{2, 3, 5, 7}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: expected %v, got %v", i, want[i], got[i])
		}
	}
	same := MovingAverage([]float64{1, 2}, 1)
	if same[0] != 1 || same[1] != 2 {
		t.Fatalf("expected passthrough, got %v", same)
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline([]float64{0, 9}); got != " @" {
		t.Fatalf("unexpected sparkline: %q", got)
	}
	if got := Sparkline([]float64{3, 3, 3}); got != "+++" {
		t.Fatalf("unexpected flat sparkline: %q", got)
	}
	if Sparkline(nil) != "" {
		t.Fatalf("expected empty sparkline")
	}
}

func TestResample(t *testing.T) {
	got := Resample([]float64{0, 1, 2, 3, 4, 5}, 3)
	if len(got) != 3 || got[0] != 0 || got[1] != 2 || got[2] != 4 {
		t.Fatalf("unexpected resample: %v", got)
	}
	short := []float64{1, 2}
	if len(Resample(short, 10)) != 2 {
		t.Fatalf("expected short input unchanged")
	}
}

func TestHistoryRowsNewestFirst(t *testing.T) {
	headers, rows := HistoryRows(records(40, 60))
	if len(headers) != 6 || len(rows) != 2 {
		t.Fatalf("unexpected shape: %v %v", headers, rows)
	}
	if rows[0][2] != "60" || rows[1][2] != "40" {
		t.Fatalf("expected newest first, got %v", rows)
	}
}

func TestCharRowsWeakestFirst(t *testing.T) {
	_, rows := CharRows([]model.CharAggregate{
		{Char: "a", Correct: 9, Incorrect: 1},
		{Char: " ", Correct: 1, Incorrect: 1},
	})
	if rows[0][0] != "<space>" || rows[0][1] != "50.00%" {
		t.Fatalf("unexpected first row: %v", rows[0])
	}
}

func TestRenderCurvesWidth(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderCurves(&buf, records(10, 20, 30, 40, 50, 60, 70, 80, 90, 100, 110, 120, 130, 140, 150, 160, 170, 180, 190, 200, 210, 220), 1, 30); err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, line := range strings.Split(strings.TrimRight(buf.String(), "\n"), "\n") {
		if len(line) > 40 {
			t.Fatalf("line too wide: %q", line)
		}
	}
}

func TestSelectWeakChars(t *testing.T) {
	weak := SelectWeakChars([]model.CharAggregate{
		{Char: "a", Correct: 10},
		{Char: "b", Correct: 1, Incorrect: 3},
		{Char: "c", Correct: 5, Incorrect: 5},
	}, 2)
	if len(weak) != 2 {
		t.Fatalf("expected 2 weak chars, got %v", weak)
	}
	if _, ok := weak['b']; !ok {
		t.Fatalf("expected b to be weak")
	}
	if _, ok := weak['a']; ok {
		t.Fatalf("did not expect a to be weak")
	}
}

func TestSelectWeakCharsSkipsWhitespaceAndUnattempted(t *testing.T) {
	weak := SelectWeakChars([]model.CharAggregate{
		{Char: " ", Incorrect: 9},
		{Char: "\t", Incorrect: 4},
		{Char: "z"},
		{Char: "q", Correct: 3, Incorrect: 1},
		{Char: "w", Correct: 9, Incorrect: 1},
	}, 2)
	if len(weak) != 2 {
		t.Fatalf("expected 2 weak chars, got %v", weak)
	}
	for _, r := range []rune{'q', 'w'} {
		if _, ok := weak[r]; !ok {
			t.Fatalf("expected %q to be weak, got %v", r, weak)
		}
	}
}

func TestRankWeakestBreaksTiesByAttempts(t *testing.T) {
	ranked := rankWeakest([]model.CharAggregate{
		{Char: "a", Correct: 1, Incorrect: 1},
		{Char: "b", Correct: 5, Incorrect: 5},
		{Char: "c", Correct: 2, Incorrect: 1},
		{Char: "d"},
	})
	var got []string
	for _, agg := range ranked {
		got = append(got, agg.Char)
	}
	if strings.Join(got, "") != "bacd" {
		t.Fatalf("unexpected order: %v", got)
	}
}
