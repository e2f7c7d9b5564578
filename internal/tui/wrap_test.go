package tui

import (
	"os"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/verte-zerg/typetest/internal/model"
	"github.com/verte-zerg/typetest/internal/typing"
)

func TestMain(m *testing.M) {
	// Without a color profile every style renders as plain text.
	lipgloss.SetColorProfile(termenv.TrueColor)
	os.Exit(m.Run())
}

func sessionWith(t *testing.T, texts []string, typed string) *typing.Session {
	t.Helper()
	words := make([]model.Word, len(texts))
	for i, text := range texts {
		words[i] = model.Word{ID: text, Text: text}
	}
	s := typing.NewSession(words, typing.Config{DurationSeconds: 30, WordListID: "test"})
	for _, r := range typed {
		s.Dispatch(typing.Type{Char: r})
	}
	return s
}

func TestStylesAreDistinct(t *testing.T) {
	rendered := map[string]string{
		"correct":   correctStyle.Render("a"),
		"incorrect": incorrectStyle.Render("a"),
		"pending":   pendingStyle.Render("a"),
		"current":   currentWordStyle.Render("a"),
		"cursor":    currentWordStyle.Underline(true).Render("a"),
	}
	seen := map[string]string{}
	for name, out := range rendered {
		if other, ok := seen[out]; ok {
			t.Fatalf("%s and %s render the same: %q", name, other, out)
		}
		seen[out] = name
	}
}

func TestBuildStyledRunesCursor(t *testing.T) {
	s := sessionWith(t, []string{"ab"}, "a")

	runes := buildStyledRunes(typing.Project(s).Cells)
	if len(runes) != 2 {
		t.Fatalf("expected 2 runes, got %d", len(runes))
	}
	if runes[0].s != correctStyle.Render("a") {
		t.Fatalf("expected correct style for first rune")
	}
	if runes[1].s != currentWordStyle.Underline(true).Render("b") {
		t.Fatalf("expected cursor style for second rune")
	}
}

func TestBuildStyledRunesNoCursorWhenComplete(t *testing.T) {
	s := sessionWith(t, []string{"a"}, "a")

	runes := buildStyledRunes(typing.Project(s).Cells)
	if len(runes) != 1 {
		t.Fatalf("expected 1 rune, got %d", len(runes))
	}
	if runes[0].s != correctStyle.Render("a") {
		t.Fatalf("expected correct style for completed rune")
	}
}

func TestBuildStyledRunesKeepsTargetOnMistype(t *testing.T) {
	s := sessionWith(t, []string{"abc"}, "ax")

	runes := buildStyledRunes(typing.Project(s).Cells)
	if runes[1].s != incorrectStyle.Render("b") {
		t.Fatalf("expected incorrect style on the expected rune")
	}
}

func TestBuildStyledRunesWordHighlighting(t *testing.T) {
	s := sessionWith(t, []string{"one", "two"}, "o")

	runes := buildStyledRunes(typing.Project(s).Cells)
	if runes[0].s != correctStyle.Render("o") {
		t.Fatalf("expected correct style for typed rune")
	}
	if runes[2].s != currentWordStyle.Render("e") {
		t.Fatalf("expected current word style for untyped in current word")
	}
	if runes[4].s != pendingStyle.Render("t") {
		t.Fatalf("expected pending style for next word")
	}
	if !runes[3].isSpace {
		t.Fatalf("expected separator to be marked as space")
	}
}

func TestBuildStyledRunesHighlightsNextWordAtSeparator(t *testing.T) {
	s := sessionWith(t, []string{"ab", "cd"}, "ab")

	runes := buildStyledRunes(typing.Project(s).Cells)
	if runes[3].s != currentWordStyle.Render("c") {
		t.Fatalf("expected next word highlighted when cursor sits on separator")
	}
}

func TestBuildStyledRunesWrongSpaceDot(t *testing.T) {
	s := sessionWith(t, []string{"a", "b"}, "ax")

	runes := buildStyledRunes(typing.Project(s).Cells)
	if len(runes) != 3 {
		t.Fatalf("expected 3 runes, got %d", len(runes))
	}
	if runes[1].s != incorrectStyle.Render(string(wrongSeparator)) {
		t.Fatalf("expected marker for wrong space")
	}
}

func TestWrapStyledRunesBreaksAtSpaces(t *testing.T) {
	var runes []styledRune
	for _, r := range "aa bb cc" {
		runes = append(runes, styledRune{s: string(r), width: 1, isSpace: r == ' '})
	}
	got := wrapStyledRunes(runes, 5)
	if got != "aa\nbb cc" {
		t.Fatalf("unexpected wrap: %q", got)
	}
	if lines := strings.Split(wrapStyledRunes(runes, 0), "\n"); len(lines) != 1 {
		t.Fatalf("expected no wrapping for zero width")
	}
}

func TestWrapKeepsMistypedSeparatorAtBreak(t *testing.T) {
	s := sessionWith(t, []string{"aa", "bb"}, "aax")
	runes := buildStyledRunes(typing.Project(s).Cells)

	got := wrapStyledRunes(runes, 3)
	want := renderStyledRunes(runes[:3]) + "\n" + renderStyledRunes(runes[3:])
	if got != want {
		t.Fatalf("unexpected wrap:\n got %q\nwant %q", got, want)
	}
	if first := strings.Split(got, "\n")[0]; !strings.ContainsRune(first, wrongSeparator) {
		t.Fatalf("wrong separator marker lost at line end: %q", first)
	}
}

func TestWrapKeepsCursorAtBreak(t *testing.T) {
	s := sessionWith(t, []string{"aa", "bb"}, "aa")
	runes := buildStyledRunes(typing.Project(s).Cells)
	if !runes[2].keep {
		t.Fatalf("expected cursor separator to be kept")
	}

	got := wrapStyledRunes(runes, 3)
	want := renderStyledRunes(runes[:3]) + "\n" + renderStyledRunes(runes[3:])
	if got != want {
		t.Fatalf("cursor cell dropped at line end:\n got %q\nwant %q", got, want)
	}
}

func TestWrapDropsPlainSeparatorAtBreak(t *testing.T) {
	s := sessionWith(t, []string{"aa", "bb"}, "")
	runes := buildStyledRunes(typing.Project(s).Cells)

	got := wrapStyledRunes(runes, 3)
	want := renderStyledRunes(runes[:2]) + "\n" + renderStyledRunes(runes[3:])
	if got != want {
		t.Fatalf("unexpected wrap:\n got %q\nwant %q", got, want)
	}
}
