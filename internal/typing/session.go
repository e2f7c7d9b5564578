package typing

import (
	"fmt"
	"time"

	"github.com/verte-zerg/typetest/internal/model"
)

// Status is the lifecycle state of a session.
type Status int

// Session statuses. Finished is terminal for every event except Reset.
const (
	Waiting Status = iota
	Running
	Finished
)

func (s Status) String() string {
	switch s {
	case Running:
		return "running"
	case Finished:
		return "finished"
	default:
		return "waiting"
	}
}

const maxErrors = 50

// Config is immutable for the lifetime of a session.
type Config struct {
	DurationSeconds int
	WordListID      string
}

// Option customizes a Session.
type Option func(*Session)

// WithClock replaces time.Now as the session clock.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

// WithWordLimit caps the number of words taken from the source list.
func WithWordLimit(n int) Option {
	return func(s *Session) {
		s.wordLimit = n
	}
}

// Session is the aggregate root of a single timed test. It is not safe for
// concurrent use; the host serializes events through Dispatch.
type Session struct {
	status        Status
	config        Config
	words         []Word
	chars         []Char
	cursor        int
	timeRemaining int
	metrics       Metrics
	startedAt     time.Time
	finishedAt    time.Time
	errors        []string

	now       func() time.Time
	wordLimit int
}

// NewSession builds a Waiting session for words and cfg.
func NewSession(words []model.Word, cfg Config, opts ...Option) *Session {
	s := &Session{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	s.rebuild(words, cfg)
	return s
}

// Dispatch applies ev and reports whether the session changed. Events that
// are not valid for the current status are ignored.
//
//	status    Type            Start    Backspace  TimerTick        ForceFinish  Reset
//	Waiting   judge, Running  Running  no-op      no-op            Finished     Waiting
//	Running   judge, maybe F  no-op    undo       count, maybe F   Finished     Waiting
//	Finished  no-op           no-op    no-op      no-op            no-op        Waiting
//
// The start timestamp is taken when the session leaves Waiting through Type
// or Start.
func (s *Session) Dispatch(ev Event) bool {
	if r, ok := ev.(Reset); ok {
		s.rebuild(r.Words, r.Config)
		return true
	}
	switch s.status {
	case Waiting:
		return s.onWaiting(ev)
	case Running:
		return s.onRunning(ev)
	default:
		return s.onFinished(ev)
	}
}

func (s *Session) onWaiting(ev Event) bool {
	switch ev := ev.(type) {
	case Type:
		return s.typeRune(ev.Char)
	case Start:
		s.start()
		return true
	case ForceFinish:
		s.finish()
		return true
	default:
		return false
	}
}

func (s *Session) onRunning(ev Event) bool {
	switch ev := ev.(type) {
	case Type:
		return s.typeRune(ev.Char)
	case Backspace:
		return s.backspace()
	case TimerTick:
		s.tick()
		return true
	case ForceFinish:
		s.finish()
		return true
	default:
		return false
	}
}

// onFinished rejects everything; a Finished session is never mutated.
func (s *Session) onFinished(Event) bool {
	return false
}

func (s *Session) typeRune(r rune) bool {
	if s.cursor >= len(s.chars) {
		s.noteError(fmt.Sprintf("ignored %q: sequence complete", r))
		return false
	}
	c := &s.chars[s.cursor]
	if r == c.Rune {
		c.Status = Correct
	} else {
		c.Status = Incorrect
	}
	s.cursor++
	if s.status == Waiting {
		s.start()
	}
	if s.cursor == len(s.chars) {
		s.finish()
		return true
	}
	s.recompute()
	return true
}

func (s *Session) start() {
	s.startedAt = s.now()
	s.status = Running
}

func (s *Session) backspace() bool {
	if s.cursor == 0 {
		return false
	}
	s.cursor--
	s.chars[s.cursor].Status = Pending
	s.recompute()
	return true
}

func (s *Session) tick() {
	s.timeRemaining--
	if s.timeRemaining <= 0 {
		s.timeRemaining = 0
		s.finish()
	}
}

func (s *Session) finish() {
	s.finishedAt = s.now()
	s.status = Finished
	s.recompute()
}

func (s *Session) rebuild(words []model.Word, cfg Config) {
	s.config = cfg
	s.words, s.chars = Prepare(words, s.wordLimit)
	s.status = Waiting
	s.cursor = 0
	s.timeRemaining = cfg.DurationSeconds
	if s.timeRemaining < 0 {
		s.timeRemaining = 0
	}
	s.startedAt = time.Time{}
	s.finishedAt = time.Time{}
	s.errors = nil
	s.metrics = InitialMetrics()
}

func (s *Session) recompute() {
	s.metrics = computeMetrics(s.chars[:s.cursor], s.ElapsedMs())
}

func (s *Session) noteError(msg string) {
	s.errors = append(s.errors, msg)
	if len(s.errors) > maxErrors {
		s.errors = s.errors[len(s.errors)-maxErrors:]
	}
}

// Status returns the current lifecycle state.
func (s *Session) Status() Status { return s.status }

// Config returns the session configuration.
func (s *Session) Config() Config { return s.config }

// Cursor returns the index of the next character to type.
func (s *Session) Cursor() int { return s.cursor }

// TotalChars returns the length of the flattened sequence.
func (s *Session) TotalChars() int { return len(s.chars) }

// TimeRemaining returns the remaining whole seconds.
func (s *Session) TimeRemaining() int { return s.timeRemaining }

// Words returns the word units. Callers must not modify them.
func (s *Session) Words() []Word { return s.words }

// Chars returns a copy of the flattened character sequence.
func (s *Session) Chars() []Char {
	out := make([]Char, len(s.chars))
	copy(out, s.chars)
	return out
}

// StartedAt returns the first keystroke instant, if any.
func (s *Session) StartedAt() (time.Time, bool) {
	return s.startedAt, !s.startedAt.IsZero()
}

// Errors returns the most recent ignored inputs, oldest first.
func (s *Session) Errors() []string {
	return append([]string(nil), s.errors...)
}

// ElapsedMs is measured from the first keystroke and stops at the finish
// instant.
func (s *Session) ElapsedMs() int64 {
	if s.startedAt.IsZero() {
		return 0
	}
	end := s.finishedAt
	if end.IsZero() {
		end = s.now()
	}
	return end.Sub(s.startedAt).Milliseconds()
}

// Metrics returns the counts recorded at the last mutation with WPM read
// against the clock.
func (s *Session) Metrics() Metrics {
	m := s.metrics
	m.WPM = WPM(m.CorrectChars, s.ElapsedMs())
	return m
}

// Summary returns the hand-off record for a finished session.
func (s *Session) Summary() (model.ResultSummary, bool) {
	if s.status != Finished {
		return model.ResultSummary{}, false
	}
	return model.ResultSummary{
		WordListName:    s.config.WordListID,
		DurationSeconds: s.config.DurationSeconds,
		CorrectChars:    s.metrics.CorrectChars,
		IncorrectChars:  s.metrics.IncorrectChars,
		TestDurationMs:  s.ElapsedMs(),
	}, true
}

// CharStats aggregates judged characters by expected rune. Separators are
// excluded.
func (s *Session) CharStats() []model.CharStats {
	index := map[rune]int{}
	var out []model.CharStats
	for _, c := range s.chars[:s.cursor] {
		if c.IsSeparator {
			continue
		}
		i, ok := index[c.Rune]
		if !ok {
			i = len(out)
			index[c.Rune] = i
			out = append(out, model.CharStats{Char: string(c.Rune)})
		}
		if c.Status == Correct {
			out[i].Correct++
		} else {
			out[i].Incorrect++
		}
	}
	return out
}
