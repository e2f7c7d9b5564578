package typing

// Cell is the visual state of one character.
type Cell struct {
	Rune          rune
	Status        CharStatus
	IsSeparator   bool
	AtCursor      bool
	InCurrentWord bool
	WordIndex     int
}

// Frame is everything a view needs to draw a session.
type Frame struct {
	Cells         []Cell
	Cursor        int
	CursorVisible bool
	Status        Status
	TimeRemaining int
	Metrics       Metrics
}

// Project derives a Frame from s without modifying it.
func Project(s *Session) Frame {
	visible := s.status != Finished
	currentWord := -1
	if s.cursor < len(s.chars) {
		currentWord = s.chars[s.cursor].WordIndex
		if s.chars[s.cursor].IsSeparator {
			currentWord++
		}
	}
	cells := make([]Cell, len(s.chars))
	for i, c := range s.chars {
		cells[i] = Cell{
			Rune:          c.Rune,
			Status:        c.Status,
			IsSeparator:   c.IsSeparator,
			AtCursor:      visible && i == s.cursor,
			InCurrentWord: !c.IsSeparator && c.WordIndex == currentWord,
			WordIndex:     c.WordIndex,
		}
	}
	return Frame{
		Cells:         cells,
		Cursor:        s.cursor,
		CursorVisible: visible,
		Status:        s.status,
		TimeRemaining: s.timeRemaining,
		Metrics:       s.Metrics(),
	}
}
