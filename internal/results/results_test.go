package results

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/typetest/internal/model"
	"github.com/verte-zerg/typetest/internal/store"
	"github.com/verte-zerg/typetest/internal/wordlist"
)

func newTestRecorder(t *testing.T) (*Recorder, *store.Store) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "typetest.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	if err := st.ReplaceWordList(context.Background(), "english_200", []string{"the", "be"}); err != nil {
		t.Fatalf("seed list: %v", err)
	}
	rec := NewRecorder(st, nil)
	rec.now = func() time.Time { return time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC) }
	return rec, st
}

func validSummary() model.ResultSummary {
	return model.ResultSummary{
		WordListName:    "english_200",
		DurationSeconds: 60,
		CorrectChars:    250,
		IncorrectChars:  10,
		TestDurationMs:  60000,
	}
}

func TestSaveRecomputesMetrics(t *testing.T) {
	rec, st := newTestRecorder(t)
	ctx := context.Background()
	saved, err := rec.Save(ctx, validSummary(), []model.CharStats{{Char: "t", Correct: 3}})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if saved.ID == "" {
		t.Fatalf("expected id")
	}
	if saved.WPM != 50 || saved.Accuracy != 96 || saved.TotalChars != 260 {
		t.Fatalf("unexpected metrics: %+v", saved)
	}
	all, err := st.ListResults(ctx, model.StatsConfig{})
	if err != nil || len(all) != 1 || all[0].ID != saved.ID {
		t.Fatalf("expected stored result, got %+v %v", all, err)
	}
	history, err := rec.History(ctx, "english_200")
	if err != nil || len(history) != 1 {
		t.Fatalf("expected history entry, got %d %v", len(history), err)
	}
	weak, err := rec.WeakChars(ctx, 5, "")
	if err != nil || len(weak) != 1 || weak[0].Char != "t" {
		t.Fatalf("unexpected weak chars: %+v %v", weak, err)
	}
}

func TestSaveRejectsInvalidSummaries(t *testing.T) {
	rec, _ := newTestRecorder(t)
	ctx := context.Background()

	neg := validSummary()
	neg.IncorrectChars = -1
	if _, err := rec.Save(ctx, neg, nil); !errors.Is(err, ErrNegativeChars) {
		t.Fatalf("expected ErrNegativeChars, got %v", err)
	}

	zero := validSummary()
	zero.TestDurationMs = 0
	if _, err := rec.Save(ctx, zero, nil); !errors.Is(err, ErrNonPositiveDuration) {
		t.Fatalf("expected ErrNonPositiveDuration, got %v", err)
	}

	fast := validSummary()
	fast.CorrectChars = 2000
	fast.TestDurationMs = 60000
	if _, err := rec.Save(ctx, fast, nil); !errors.Is(err, ErrImplausibleWPM) {
		t.Fatalf("expected ErrImplausibleWPM, got %v", err)
	}

	unknown := validSummary()
	unknown.WordListName = "klingon"
	if _, err := rec.Save(ctx, unknown, nil); !errors.Is(err, ErrUnknownWordList) {
		t.Fatalf("expected ErrUnknownWordList, got %v", err)
	}

	missing := validSummary()
	missing.WordListName = ""
	if _, err := rec.Save(ctx, missing, nil); err == nil {
		t.Fatalf("expected error for missing word list name")
	}
}

func TestSaveAcceptsBuiltinList(t *testing.T) {
	rec, _ := newTestRecorder(t)
	sum := validSummary()
	sum.WordListName = wordlist.DefaultListName
	if _, err := rec.Save(context.Background(), sum, nil); err != nil {
		t.Fatalf("expected built-in list to be accepted: %v", err)
	}
}
