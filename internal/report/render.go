package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/verte-zerg/subcrack/internal/cipher"
	"github.com/verte-zerg/subcrack/internal/model"
)

const (
	tableBarWidth = 30
	// Width taken by the rank, letter, count and share columns.
	tableFixedWidth = 36
	minBarWidth     = 5
)

// RenderFrequencyTable prints t in descending order with counts, shares and bars.
func RenderFrequencyTable(w io.Writer, title string, t cipher.FrequencyTable, useColor bool) error {
	sorted := cipher.SortDescending(t)
	total := sorted.Total()
	if title != "" {
		if _, err := fmt.Fprintln(w, title); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "Letters: %s\n", humanize.Comma(int64(total))); err != nil {
		return err
	}
	if total == 0 {
		_, err := fmt.Fprintln(w, "No letters found.")
		return err
	}

	headers := []string{"Rank", "Letter", "Count", "Share", "Bar"}
	rows := make([][]string, 0, len(sorted))
	top := sorted[0].Count
	barWidth := barWidthFor(TerminalWidth())
	for i, e := range sorted {
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			string(e.Letter),
			humanize.Comma(int64(e.Count)),
			fmt.Sprintf("%.2f%%", sorted.Percent(e.Letter)),
			colorize(HorizontalBar(e.Count, top, barWidth), colorBar, useColor),
		})
	}
	rightAlign := map[int]bool{0: true, 2: true, 3: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

func barWidthFor(termWidth int) int {
	width := termWidth - tableFixedWidth
	if width > tableBarWidth {
		return tableBarWidth
	}
	if width < minBarWidth {
		return minBarWidth
	}
	return width
}

// RenderProfiles lists stored calibration profiles.
func RenderProfiles(w io.Writer, profiles []model.ProfileSummary) error {
	if len(profiles) == 0 {
		_, err := fmt.Fprintln(w, "No profiles saved.")
		return err
	}
	headers := []string{"Name", "Letters", "Created", "Source"}
	rows := make([][]string, 0, len(profiles))
	for _, p := range profiles {
		rows = append(rows, []string{
			p.Name,
			humanize.Comma(int64(p.Letters)),
			p.CreatedAt.Local().Format("2006-01-02 15:04"),
			p.Source,
		})
	}
	for _, line := range formatTable(headers, rows, map[int]bool{1: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderHistogram prints the vertical bar chart of t in descending order.
func RenderHistogram(w io.Writer, t cipher.FrequencyTable, height int, useColor bool) error {
	lines := Histogram(cipher.SortDescending(t), height)
	for i, line := range lines {
		if i < len(lines)-1 {
			line = colorize(line, colorBar, useColor)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderMapping prints cipher letters above their plaintext values and lists any
// plaintext letter claimed by more than one cipher letter.
func RenderMapping(w io.Writer, m cipher.Mapping, placeholder rune, useColor bool) error {
	collisions := m.Collisions()
	cipherRow := make([]string, 0, cipher.AlphabetSize)
	plainRow := make([]string, 0, cipher.AlphabetSize)
	for i, v := range m {
		cipherRow = append(cipherRow, string(cipher.Alphabet[i]))
		cell := string(placeholder)
		if v != cipher.Undecided {
			cell = string(v)
		}
		if _, clash := collisions[v]; clash {
			cell = colorize(cell, colorWarn, useColor)
		}
		plainRow = append(plainRow, cell)
	}
	if _, err := fmt.Fprintf(w, "Cipher: %s\n", strings.Join(cipherRow, " ")); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Plain:  %s\n", strings.Join(plainRow, " ")); err != nil {
		return err
	}
	if len(collisions) == 0 {
		return nil
	}
	values := make([]rune, 0, len(collisions))
	for v := range collisions {
		values = append(values, v)
	}
	sort.Slice(values, func(i, j int) bool { return values[i] < values[j] })
	parts := make([]string, 0, len(values))
	for _, v := range values {
		parts = append(parts, fmt.Sprintf("%c<-%s", v, string(collisions[v])))
	}
	_, err := fmt.Fprintf(w, "Shared: %s\n", strings.Join(parts, " "))
	return err
}
