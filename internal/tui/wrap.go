// Package tui provides the Bubble Tea decoding workspace.
package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/subcrack/internal/cipher"
)

const tabDisplay = "    "

type styledRune struct {
	s       string
	width   int
	isSpace bool
	newline bool
	// undecided marks a cipher letter without a plaintext value.
	undecided bool
}

// buildStyledRunes decodes cipherText through m. Styling follows the cipher
// side: a rune is undecided only when it is a letter whose mapping entry is
// unset, so a literal placeholder character in the text stays plain.
func buildStyledRunes(cipherText []rune, m cipher.Mapping, placeholder rune) []styledRune {
	out := make([]styledRune, 0, len(cipherText))
	for _, r := range cipherText {
		switch r {
		case '\n':
			out = append(out, styledRune{newline: true})
			continue
		case '\r':
			continue
		case '\t':
			out = append(out, styledRune{s: tabDisplay, width: len(tabDisplay), isSpace: true})
			continue
		}
		shown := r
		style := mutedStyle
		undecided := false
		if idx, ok := cipher.Index(r); ok {
			if v := m[idx]; v == cipher.Undecided {
				shown = placeholder
				style = undecidedStyle
				undecided = true
			} else {
				shown = v
				style = decodedStyle
			}
		}
		out = append(out, styledRune{
			s:         style.Render(string(shown)),
			width:     runewidth.RuneWidth(shown),
			isSpace:   shown == ' ',
			undecided: undecided,
		})
	}
	return out
}

func renderStyledRunes(runes []styledRune) string {
	var b strings.Builder
	for _, item := range runes {
		if item.newline {
			b.WriteRune('\n')
			continue
		}
		b.WriteString(item.s)
	}
	return b.String()
}

// wrapStyledRunes breaks lines at the last space that fits, or mid-word when a
// word is wider than width. Existing line breaks are kept.
func wrapStyledRunes(runes []styledRune, width int) string {
	if width <= 0 {
		return renderStyledRunes(runes)
	}
	var out strings.Builder
	line := make([]styledRune, 0, width)
	lineWidth := 0
	lastSpaceIdx := -1

	for i := 0; i < len(runes); {
		item := runes[i]
		if item.newline {
			out.WriteString(renderStyledRunes(line))
			out.WriteRune('\n')
			line = line[:0]
			lineWidth = 0
			lastSpaceIdx = -1
			i++
			continue
		}
		if lineWidth+item.width > width && len(line) > 0 {
			if lastSpaceIdx >= 0 {
				out.WriteString(renderStyledRunes(line[:lastSpaceIdx]))
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
