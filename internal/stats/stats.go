// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/verte-zerg/typetest/internal/model"
	"github.com/verte-zerg/typetest/internal/typing"
)

const (
	sparkChars          = " .:-=+*#%@"
	terminalWidthBackup = 80
	minSparkWidth       = 10
)

// Summary aggregates a set of results.
type Summary struct {
	Results     int
	AvgWPM      float64
	BestWPM     int
	AvgAccuracy float64
	OverallWPM  int
	TotalTime   time.Duration
}

// Summarize computes aggregate figures for results.
func Summarize(results []model.ResultRecord) Summary {
	var s Summary
	if len(results) == 0 {
		return s
	}
	var totalWPM, totalAcc float64
	var correct int
	var durationMs int64
	for _, r := range results {
		totalWPM += float64(r.WPM)
		totalAcc += float64(r.Accuracy)
		if r.WPM > s.BestWPM {
			s.BestWPM = r.WPM
		}
		correct += r.CorrectChars
		durationMs += r.TestDurationMs
	}
	count := float64(len(results))
	s.Results = len(results)
	s.AvgWPM = totalWPM / count
	s.AvgAccuracy = totalAcc / count
	s.OverallWPM = typing.WPM(correct, durationMs)
	s.TotalTime = time.Duration(durationMs) * time.Millisecond
	return s
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := minMax(values)
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// Resample stretches or shrinks values to width points by nearest index.
func Resample(values []float64, width int) []float64 {
	if width <= 0 || len(values) <= width {
		return values
	}
	out := make([]float64, width)
	for i := range out {
		idx := i * len(values) / width
		out[i] = values[idx]
	}
	return out
}

func minMax(values []float64) (float64, float64) {
	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	return minVal, maxVal
}

// TerminalWidth returns the width of w when it is a terminal, or a default.
func TerminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return terminalWidthBackup
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

// RenderSummary prints a summary block for results.
func RenderSummary(w io.Writer, results []model.ResultRecord) error {
	if len(results) == 0 {
		_, err := fmt.Fprintln(w, "No results found.")
		return err
	}
	s := Summarize(results)
	lines := []string{
		"Summary",
		fmt.Sprintf("Tests: %d", s.Results),
		fmt.Sprintf("Avg WPM: %.1f", s.AvgWPM),
		fmt.Sprintf("Best WPM: %d", s.BestWPM),
		fmt.Sprintf("Overall WPM: %d", s.OverallWPM),
		fmt.Sprintf("Avg Accuracy: %.1f%%", s.AvgAccuracy),
		fmt.Sprintf("Time typed: %s", s.TotalTime.Round(time.Second)),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderCurves prints moving-average sparklines for WPM and accuracy sized
// to totalWidth columns.
func RenderCurves(w io.Writer, results []model.ResultRecord, window, totalWidth int) error {
	if len(results) == 0 {
		return nil
	}
	wpms := make([]float64, len(results))
	accs := make([]float64, len(results))
	for i, r := range results {
		wpms[i] = float64(r.WPM)
		accs[i] = float64(r.Accuracy)
	}
	wpms = MovingAverage(wpms, window)
	accs = MovingAverage(accs, window)

	const label = "Accuracy "
	width := totalWidth - len(label) - 2
	if width < minSparkWidth {
		width = minSparkWidth
	}
	if _, err := fmt.Fprintf(w, "Learning Curves (window %d)\n", window); err != nil {
		return err
	}
	for _, series := range []struct {
		name   string
		values []float64
		unit   string
	}{
		{name: "WPM", values: wpms},
		{name: "Accuracy", values: accs, unit: "%"},
	} {
		values := Resample(series.values, width)
		lo, hi := minMax(values)
		if _, err := fmt.Fprintf(w, "%-*s %s\n", len(label)-1, series.name, Sparkline(values)); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "%-*s min %.1f%s  max %.1f%s\n", len(label)-1, "", lo, series.unit, hi, series.unit); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderHistory prints one row per result, newest first.
func RenderHistory(w io.Writer, results []model.ResultRecord) error {
	if len(results) == 0 {
		_, err := fmt.Fprintln(w, "No results found.")
		return err
	}
	headers, rows := HistoryRows(results)
	lines := formatTable(headers, rows, map[int]bool{2: true, 3: true, 4: true, 5: true})
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// HistoryRows formats results as table cells, newest first.
func HistoryRows(results []model.ResultRecord) ([]string, [][]string) {
	headers := []string{"Date", "List", "WPM", "Accuracy", "Chars", "Time"}
	rows := make([][]string, 0, len(results))
	for i := len(results) - 1; i >= 0; i-- {
		r := results[i]
		rows = append(rows, []string{
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
			r.WordListName,
			fmt.Sprintf("%d", r.WPM),
			fmt.Sprintf("%d%%", r.Accuracy),
			fmt.Sprintf("%d/%d", r.CorrectChars, r.TotalChars),
			fmt.Sprintf("%.1fs", float64(r.TestDurationMs)/1000),
		})
	}
	return headers, rows
}

// RenderCharTable prints per-character aggregates, weakest first.
func RenderCharTable(w io.Writer, aggs []model.CharAggregate) error {
	if len(aggs) == 0 {
		_, err := fmt.Fprintln(w, "No character stats found.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Per-Character (Windowed)"); err != nil {
		return err
	}
	headers, rows := CharRows(aggs)
	lines := formatTable(headers, rows, map[int]bool{1: true, 2: true, 3: true})
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// CharRows formats aggregates as table cells sorted by lowest accuracy.
func CharRows(aggs []model.CharAggregate) ([]string, [][]string) {
	ranked := rankWeakest(aggs)
	headers := []string{"Char", "Accuracy", "Correct", "Incorrect"}
	rows := make([][]string, 0, len(ranked))
	for _, agg := range ranked {
		label := agg.Char
		if label == " " {
			label = "<space>"
		}
		rows = append(rows, []string{
			label,
			fmt.Sprintf("%.2f%%", accuracyPct(agg)),
			fmt.Sprintf("%d", agg.Correct),
			fmt.Sprintf("%d", agg.Incorrect),
		})
	}
	return headers, rows
}
