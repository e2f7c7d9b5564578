package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/typetest/internal/typing"
)

type styledRune struct {
	s       string
	width   int
	isSpace bool
	// keep is set on separators that must stay visible when a line breaks
	// on them: the cursor cell and mistyped separators.
	keep bool
}

// wrongSeparator marks a separator that was typed as something else.
const wrongSeparator = '•'

func buildStyledRunes(cells []typing.Cell) []styledRune {
	out := make([]styledRune, 0, len(cells))
	for _, cell := range cells {
		displayed := cell.Rune
		var style lipgloss.Style
		switch cell.Status {
		case typing.Correct:
			style = correctStyle
		case typing.Incorrect:
			style = incorrectStyle
			if cell.IsSeparator {
				displayed = wrongSeparator
			}
		default:
			if cell.InCurrentWord {
				style = currentWordStyle
			} else {
				style = pendingStyle
			}
		}
		if cell.AtCursor {
			style = style.Underline(true)
		}
		out = append(out, styledRune{
			s:       style.Render(string(displayed)),
			width:   runewidth.RuneWidth(displayed),
			isSpace: cell.IsSeparator,
			keep:    cell.IsSeparator && (cell.AtCursor || cell.Status == typing.Incorrect),
		})
	}
	return out
}

func renderStyledRunes(runes []styledRune) string {
	var b strings.Builder
	for _, item := range runes {
		b.WriteString(item.s)
	}
	return b.String()
}

func wrapStyledRunes(runes []styledRune, width int) string {
	if width <= 0 {
		return renderStyledRunes(runes)
	}
	var out strings.Builder
	line := make([]styledRune, 0, len(runes))
	lineWidth := 0
	lastSpaceIdx := -1

	for i := 0; i < len(runes); {
		item := runes[i]
		if lineWidth+item.width > width && len(line) > 0 {
			if lastSpaceIdx >= 0 {
				end := lastSpaceIdx
				if line[lastSpaceIdx].keep {
					end++
				}
				out.WriteString(renderStyledRunes(line[:end]))
				out.WriteRune('\n')
				line = append([]styledRune{}, line[lastSpaceIdx+1:]...)
				lineWidth = lineWidthOf(line)
				lastSpaceIdx = lastSpaceIndex(line)
			} else {
				out.WriteString(renderStyledRunes(line))
				out.WriteRune('\n')
				line = line[:0]
				lineWidth = 0
				lastSpaceIdx = -1
			}
			continue
		}
		line = append(line, item)
		lineWidth += item.width
		if item.isSpace {
			lastSpaceIdx = len(line) - 1
		}
		i++
	}
	out.WriteString(renderStyledRunes(line))
	return out.String()
}

func lineWidthOf(line []styledRune) int {
	total := 0
	for _, item := range line {
		total += item.width
	}
	return total
}

func lastSpaceIndex(line []styledRune) int {
	for i := len(line) - 1; i >= 0; i-- {
		if line[i].isSpace {
			return i
		}
	}
	return -1
}
