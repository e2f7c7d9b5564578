package tui

import (
	"time"
	"unicode"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/typetest/internal/typing"
)

const tickInterval = time.Second

// tickMsg carries the epoch of the ticker that scheduled it. Ticks from a
// stopped or restarted ticker are dropped.
type tickMsg struct {
	epoch int
	at    time.Time
}

// ticker drives TimerTick while a session is running. Bubble Tea timers cannot
// be cancelled, so stop bumps the epoch and accept rejects anything older.
type ticker struct {
	epoch    int
	active   bool
	interval time.Duration
}

func (t *ticker) start() tea.Cmd {
	t.epoch++
	t.active = true
	return t.schedule()
}

func (t *ticker) stop() {
	if !t.active {
		return
	}
	t.epoch++
	t.active = false
}

func (t *ticker) accept(msg tickMsg) bool {
	return t.active && msg.epoch == t.epoch
}

func (t *ticker) schedule() tea.Cmd {
	epoch := t.epoch
	interval := t.interval
	if interval <= 0 {
		interval = tickInterval
	}
	return tea.Tick(interval, func(at time.Time) tea.Msg {
		return tickMsg{epoch: epoch, at: at}
	})
}

// keyEvent maps a key press to a session event. Only single printable runes
// and space become Type; pasted or multi-rune input is rejected.
func keyEvent(msg tea.KeyMsg) (typing.Event, bool) {
	switch msg.Type {
	case tea.KeyBackspace, tea.KeyDelete:
		return typing.Backspace{}, true
	case tea.KeySpace:
		return typing.Type{Char: typing.Separator}, true
	case tea.KeyRunes:
		if msg.Paste || msg.Alt || len(msg.Runes) != 1 {
			return nil, false
		}
		r := msg.Runes[0]
		if !unicode.IsPrint(r) {
			return nil, false
		}
		return typing.Type{Char: r}, true
	default:
		return nil, false
	}
}
