package report

import (
	"math"
	"strings"

	"github.com/verte-zerg/subcrack/internal/cipher"
)

const (
	// DefaultHistogramHeight is the number of text rows used for bars.
	DefaultHistogramHeight = 8
	// HistogramWidth is the rendered width: one bar and one gap per letter.
	HistogramWidth = cipher.AlphabetSize * 2
)

var verticalBlocks = []rune(" ▁▂▃▄▅▆▇█")

var horizontalBlocks = []rune(" ▏▎▍▌▋▊▉█")

// Histogram renders t as vertical bars, left to right in table order, with the
// letters on the bottom line. Bars are scaled to the highest count.
func Histogram(t cipher.FrequencyTable, height int) []string {
	if height <= 0 {
		height = DefaultHistogramHeight
	}
	top := t.Top().Count
	levels := make([]int, len(t))
	for i, e := range t {
		levels[i] = scaleEighths(e.Count, top, height)
	}

	lines := make([]string, 0, height+1)
	for row := 0; row < height; row++ {
		base := (height - 1 - row) * 8
		var b strings.Builder
		for i := range t {
			units := levels[i] - base
			if units < 0 {
				units = 0
			}
			if units > 8 {
				units = 8
			}
			b.WriteRune(verticalBlocks[units])
			b.WriteByte(' ')
		}
		lines = append(lines, strings.TrimRight(b.String(), " "))
	}

	var axis strings.Builder
	for _, e := range t {
		axis.WriteRune(e.Letter)
		axis.WriteByte(' ')
	}
	lines = append(lines, strings.TrimRight(axis.String(), " "))
	return lines
}

// HorizontalBar renders count as a bar of at most width cells relative to top.
func HorizontalBar(count, top, width int) string {
	if width <= 0 || top <= 0 || count <= 0 {
		return ""
	}
	eighths := scaleEighths(count, top, width)
	full := eighths / 8
	rest := eighths % 8
	bar := strings.Repeat(string(horizontalBlocks[8]), full)
	if rest > 0 {
		bar += string(horizontalBlocks[rest])
	}
	return bar
}

// scaleEighths maps count onto [0, cells*8]. Any non-zero count gets at least one eighth.
func scaleEighths(count, top, cells int) int {
	if count <= 0 || top <= 0 {
		return 0
	}
	v := int(math.Round(float64(count) / float64(top) * float64(cells*8)))
	if v < 1 {
		v = 1
	}
	if v > cells*8 {
		v = cells * 8
	}
	return v
}
