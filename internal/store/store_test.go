package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/typetest/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "typetest.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func TestWordListRoundTrip(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	if name, words, err := st.FirstWordList(ctx); err != nil || name != "" || words != nil {
		t.Fatalf("expected no lists, got %q %v %v", name, words, err)
	}
	if err := st.ReplaceWordList(ctx, "zoo", []string{"cat", "dog"}); err != nil {
		t.Fatalf("replace: %v", err)
	}
	if err := st.ReplaceWordList(ctx, "basic", []string{"the", "be", "to"}); err != nil {
		t.Fatalf("replace: %v", err)
	}

	words, err := st.GetWordList(ctx, "zoo")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(words) != 2 || words[0].Text != "cat" || words[1].Text != "dog" {
		t.Fatalf("unexpected words: %+v", words)
	}
	if words[0].ID == words[1].ID {
		t.Fatalf("expected distinct word ids")
	}

	name, words, err := st.FirstWordList(ctx)
	if err != nil || name != "basic" || len(words) != 3 {
		t.Fatalf("unexpected first list: %q %d %v", name, len(words), err)
	}

	if err := st.ReplaceWordList(ctx, "zoo", []string{"owl"}); err != nil {
		t.Fatalf("replace again: %v", err)
	}
	words, err = st.GetWordList(ctx, "zoo")
	if err != nil || len(words) != 1 || words[0].Text != "owl" {
		t.Fatalf("expected replaced list, got %+v %v", words, err)
	}

	lists, err := st.ListWordLists(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(lists) != 2 || lists[0].Name != "basic" || lists[0].Words != 3 || lists[1].Words != 1 {
		t.Fatalf("unexpected lists: %+v", lists)
	}

	ok, err := st.WordListExists(ctx, "zoo")
	if err != nil || !ok {
		t.Fatalf("expected zoo to exist: %v", err)
	}
	ok, err = st.WordListExists(ctx, "missing")
	if err != nil || ok {
		t.Fatalf("expected missing list to not exist: %v", err)
	}
	missing, err := st.GetWordList(ctx, "missing")
	if err != nil || len(missing) != 0 {
		t.Fatalf("expected no words for missing list: %v", err)
	}
}

func TestResultsAndCharStats(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	var ids []string
	for i := 0; i < 3; i++ {
		list := "basic"
		if i == 1 {
			list = "zoo"
		}
		id, err := st.InsertResult(ctx, model.ResultRecord{
			CreatedAt:       base.Add(time.Duration(i) * time.Hour),
			WordListName:    list,
			DurationSeconds: 60,
			WPM:             40 + i,
			Accuracy:        90,
			CorrectChars:    200,
			IncorrectChars:  20,
			TotalChars:      220,
			TestDurationMs:  60000,
		}, []model.CharStats{
			{Char: "a", Correct: 5, Incorrect: 1},
			{Char: "b", Correct: 2, Incorrect: 2},
		})
		if err != nil {
			t.Fatalf("insert: %v", err)
		}
		if id == "" {
			t.Fatalf("expected generated id")
		}
		ids = append(ids, id)
	}

	all, err := st.ListResults(ctx, model.StatsConfig{})
	if err != nil {
		t.Fatalf("list results: %v", err)
	}
	if len(all) != 3 || all[0].ID != ids[0] || all[2].WPM != 42 {
		t.Fatalf("unexpected results: %+v", all)
	}
	if !all[1].CreatedAt.Equal(base.Add(time.Hour)) {
		t.Fatalf("created_at did not round trip: %v", all[1].CreatedAt)
	}

	basic, err := st.ListResults(ctx, model.StatsConfig{WordList: "basic"})
	if err != nil || len(basic) != 2 {
		t.Fatalf("expected 2 basic results, got %d %v", len(basic), err)
	}
	since := base.Add(90 * time.Minute)
	recent, err := st.ListResults(ctx, model.StatsConfig{Since: &since})
	if err != nil || len(recent) != 1 || recent[0].ID != ids[2] {
		t.Fatalf("unexpected since filter: %+v %v", recent, err)
	}
	last, err := st.ListResults(ctx, model.StatsConfig{Last: 2})
	if err != nil || len(last) != 2 || last[0].ID != ids[1] {
		t.Fatalf("unexpected last filter: %+v %v", last, err)
	}

	weak, err := st.GetWeakChars(ctx, 2, "")
	if err != nil {
		t.Fatalf("weak chars: %v", err)
	}
	if len(weak) != 2 {
		t.Fatalf("expected 2 chars, got %+v", weak)
	}
	for _, agg := range weak {
		if agg.Char == "a" && (agg.Correct != 10 || agg.Incorrect != 2) {
			t.Fatalf("unexpected aggregate for a: %+v", agg)
		}
	}

	aggs, err := st.ListCharAggregates(ctx, ids[:1])
	if err != nil || len(aggs) != 2 {
		t.Fatalf("unexpected aggregates: %+v %v", aggs, err)
	}
	if none, err := st.GetWeakChars(ctx, 0, ""); err != nil || none != nil {
		t.Fatalf("expected nothing for empty window")
	}
}
