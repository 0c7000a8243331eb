package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/verte-zerg/subcrack/internal/cipher"
	"github.com/verte-zerg/subcrack/internal/report"
	"github.com/verte-zerg/subcrack/internal/watch"
)

var (
	titleStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	headerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	decodedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	undecidedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	mutedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	barStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#5FAFD7"))
	selectedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true).Underline(true)
	clashStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Bold(true)
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	panelStyle     = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	activePanelStyle = panelStyle.
				BorderForeground(lipgloss.Color("#C89A3A"))
)

const (
	// Border plus horizontal padding of panelStyle.
	panelFrameWidth  = 4
	panelFrameHeight = 2
	footerHeight     = 2
	minOutputHeight  = 1
)

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	sections := []string{
		titleStyle.Render("subcrack") + headerStyle.Render("  monoalphabetic substitution workbench"),
		m.renderInputs(),
		m.renderHistograms(),
		m.renderMapping(),
		m.renderOutput(),
		m.renderFooter(),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) panel(focus int) lipgloss.Style {
	if m.focus == focus {
		return activePanelStyle
	}
	return panelStyle
}

func (m *Model) inputWidth() int {
	w := m.width/2 - panelFrameWidth
	if w < 10 {
		w = 10
	}
	return w
}

func (m *Model) histogramsSideBySide() bool {
	return m.width >= 2*(report.HistogramWidth+panelFrameWidth)
}

func (m *Model) histogramHeight() int {
	if m.config.HistogramHeight > 0 {
		return m.config.HistogramHeight
	}
	return report.DefaultHistogramHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	for _, field := range []watch.Field{watch.FieldCalibration, watch.FieldCipher} {
		m.inputs[field].SetWidth(m.inputWidth())
	}
	// title + inputs (panel, caption) + histograms (title, bars, axis) + mapping panel + output frame and title
	used := 1
	used += inputHeight + panelFrameHeight + 1
	histograms := m.histogramHeight() + 2
	if !m.histogramsSideBySide() {
		histograms *= 2
	}
	used += histograms
	used += 4 + panelFrameHeight
	used += panelFrameHeight + 1
	used += footerHeight
	outputHeight := m.height - used
	if outputHeight < minOutputHeight {
		outputHeight = minOutputHeight
	}
	m.output.Width = maxInt(1, m.width-panelFrameWidth)
	m.output.Height = outputHeight
	m.refreshOutput()
}

func (m *Model) refreshOutput() {
	width := m.output.Width
	if width <= 0 {
		width = 80
	}
	runes := buildStyledRunes([]rune(m.snap.CipherText), m.snap.Mapping, m.snap.Placeholder)
	m.output.SetContent(wrapStyledRunes(runes, width))
}

func (m *Model) renderInputs() string {
	cal := m.renderInput(focusCalibration, watch.FieldCalibration, "Calibration", m.calibrationCaption())
	ciph := m.renderInput(focusCipher, watch.FieldCipher, "Ciphertext", m.letterCaption(m.snap.CipherLetters))
	return lipgloss.JoinHorizontal(lipgloss.Top, cal, ciph)
}

func (m *Model) renderInput(focus int, field watch.Field, title, caption string) string {
	body := titleStyle.Render(title) + "\n" + m.inputs[field].View()
	return lipgloss.JoinVertical(lipgloss.Left, m.panel(focus).Render(body), " "+caption)
}

func (m *Model) letterCaption(letters int) string {
	return headerStyle.Render("Letters: " + humanize.Comma(int64(letters)))
}

func (m *Model) calibrationCaption() string {
	caption := m.letterCaption(m.snap.CalibrationLetters)
	if m.snap.CalibrationSource != "" {
		caption += headerStyle.Render(fmt.Sprintf(" (profile %s)", m.snap.CalibrationSource))
	}
	return caption
}

func (m *Model) renderHistograms() string {
	height := m.histogramHeight()
	cal := renderHistogram("Calibration frequency", m.snap.CalibrationTable, height)
	ciph := renderHistogram("Cipher frequency", m.snap.CipherTable, height)
	if m.histogramsSideBySide() {
		gap := strings.Repeat(" ", panelFrameWidth)
		return lipgloss.JoinHorizontal(lipgloss.Top, " "+cal, gap, ciph)
	}
	return lipgloss.JoinVertical(lipgloss.Left, cal, ciph)
}

func renderHistogram(title string, t cipher.FrequencyTable, height int) string {
	lines := report.Histogram(t, height)
	out := make([]string, 0, len(lines)+1)
	out = append(out, headerStyle.Render(title))
	for i, line := range lines {
		if i == len(lines)-1 {
			out = append(out, mutedStyle.Render(line))
			continue
		}
		out = append(out, barStyle.Render(line))
	}
	return strings.Join(out, "\n")
}

func (m *Model) renderMapping() string {
	cipherRow := make([]string, 0, cipher.AlphabetSize)
	plainRow := make([]string, 0, cipher.AlphabetSize)
	for i, v := range m.snap.Mapping {
		letter := string(cipher.Alphabet[i])
		value := string(m.snap.Placeholder)
		style := decodedStyle
		if v == cipher.Undecided {
			style = undecidedStyle
		} else {
			value = string(v)
			if _, clash := m.snap.Collisions[v]; clash {
				style = clashStyle
			}
		}
		if m.focus == focusMapping && i == m.selected {
			letter = selectedStyle.Render(letter)
			style = style.Underline(true)
		} else {
			letter = mutedStyle.Render(letter)
		}
		cipherRow = append(cipherRow, letter)
		plainRow = append(plainRow, style.Render(value))
	}
	lines := []string{
		titleStyle.Render("Decoding table") + headerStyle.Render("  cipher → plain"),
		strings.Join(cipherRow, " "),
		strings.Join(plainRow, " "),
		headerStyle.Render(renderCollisions(m.snap.Collisions)),
	}
	return m.panel(focusMapping).Render(strings.Join(lines, "\n"))
}

func renderCollisions(collisions map[rune][]rune) string {
	if len(collisions) == 0 {
		return ""
	}
	values := make([]rune, 0, len(collisions))
	for v := range collisions {
		values = append(values, v)
	}
	sort.Slice(values, func(i, j int) bool { return values[i] < values[j] })
	parts := make([]string, 0, len(values))
	for _, v := range values {
		parts = append(parts, fmt.Sprintf("%c←%s", v, string(collisions[v])))
	}
	return "Shared: " + strings.Join(parts, " ")
}

func (m *Model) renderOutput() string {
	body := titleStyle.Render("Decoded output") + "\n" + m.output.View()
	return m.panel(focusOutput).Width(maxInt(1, m.width-2)).Render(body)
}

func (m *Model) renderFooter() string {
	help := "tab: next pane  ctrl+s: straight mapping  ctrl+r: reset  ctrl+c: quit"
	switch m.focus {
	case focusMapping:
		help = "←/→: select  a-z: set letter  space/backspace: clear  " + help
	case focusOutput:
		help = "↑/↓ pgup/pgdn: scroll  " + help
	}
	status := ""
	if m.status != "" {
		if m.statusErr {
			status = errorStyle.Render(m.status)
		} else {
			status = headerStyle.Render(m.status)
		}
	}
	return headerStyle.Render(truncateLine(help, m.width)) + "\n" + status
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
