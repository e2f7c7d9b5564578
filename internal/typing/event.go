package typing

import "github.com/verte-zerg/typetest/internal/model"

// Event is an input to Session.Dispatch.
type Event interface {
	event()
}

// Type judges Char against the character at the cursor.
type Type struct {
	Char rune
}

// Start begins the countdown without a keystroke. The first Type starts a
// Waiting session on its own.
type Start struct{}

// Backspace undoes the judgement of the previous character.
type Backspace struct{}

// TimerTick consumes one second of the remaining time.
type TimerTick struct{}

// ForceFinish abandons the session, keeping everything typed so far.
type ForceFinish struct{}

// Reset rebuilds the session from a fresh word list.
type Reset struct {
	Words  []model.Word
	Config Config
}

func (Type) event()        {}
func (Start) event()       {}
func (Backspace) event()   {}
func (TimerTick) event()   {}
func (ForceFinish) event() {}
func (Reset) event()       {}
