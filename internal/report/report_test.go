package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/subcrack/internal/cipher"
	"github.com/verte-zerg/subcrack/internal/model"
)

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Rank", "Letter", "Count"}
	rows := [][]string{
		{"1", "E", "1,204"},
		{"12", "Q", "3"},
	}
	rightAlign := map[int]bool{0: true, 2: true}

	lines := formatTable(headers, rows, rightAlign)
	assert.Equal(t, []string{
		"Rank Letter Count",
		"   1 E      1,204",
		"  12 Q          3",
	}, lines)
}

func TestFormatTableIgnoresColourCodes(t *testing.T) {
	lines := formatTable([]string{"Bar", "N"}, [][]string{{colorize("██", colorBar, true), "1"}}, nil)
	require.Len(t, lines, 2)
	assert.Equal(t, "Bar N", lines[0])
	assert.True(t, strings.HasSuffix(lines[1], "██"+colorReset+"  1"), "unexpected row %q", lines[1])
}

func TestHistogramShape(t *testing.T) {
	table := cipher.SortDescending(cipher.Count("EEEETT"))
	lines := Histogram(table, 2)
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[2], "E T A B"), "unexpected axis %q", lines[2])
	// E fills both rows; T is half height so only the bottom row is full.
	assert.Equal(t, "█", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "█ █"), "unexpected bottom row %q", lines[1])
}

func TestHistogramEmptyTable(t *testing.T) {
	lines := Histogram(cipher.Count(""), 3)
	require.Len(t, lines, 4)
	for _, line := range lines[:3] {
		assert.Empty(t, line)
	}
	assert.Equal(t, strings.Join(strings.Split(cipher.Alphabet, ""), " "), lines[3])
}

func TestHorizontalBar(t *testing.T) {
	assert.Equal(t, "████", HorizontalBar(10, 10, 4))
	assert.Equal(t, "██", HorizontalBar(5, 10, 4))
	assert.Equal(t, "▏", HorizontalBar(1, 1000, 4))
	assert.Empty(t, HorizontalBar(0, 10, 4))
}

func TestRenderFrequencyTable(t *testing.T) {
	var buf bytes.Buffer
	text := strings.Repeat("e", 1500) + "tt"
	require.NoError(t, RenderFrequencyTable(&buf, "Cipher", cipher.Count(text), false))

	out := buf.String()
	for _, want := range []string{"Cipher", "Letters: 1,502", "1,500", "99.87%", "0.13%"} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "\x1b[")
}

func TestRenderFrequencyTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderFrequencyTable(&buf, "", cipher.Count("123"), false))
	assert.Contains(t, buf.String(), "No letters found.")
}

func TestRenderMapping(t *testing.T) {
	m, err := cipher.Override(cipher.Identity(), 'A', "B")
	require.NoError(t, err)
	m, err = cipher.Override(m, 'C', "")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, RenderMapping(&buf, m, '_', false))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "Cipher: A B C D"), "unexpected cipher row %q", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "Plain:  B B _ D"), "unexpected plain row %q", lines[1])
	assert.Equal(t, "Shared: B<-AB", lines[2])
}

func TestBarWidthFor(t *testing.T) {
	assert.Equal(t, tableBarWidth, barWidthFor(200))
	assert.Equal(t, 50-tableFixedWidth, barWidthFor(50))
	assert.Equal(t, minBarWidth, barWidthFor(10))
}

func TestRenderProfiles(t *testing.T) {
	var buf bytes.Buffer
	profiles := []model.ProfileSummary{
		{Name: "english", Letters: 12345, CreatedAt: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), Source: "moby.txt"},
	}
	require.NoError(t, RenderProfiles(&buf, profiles))

	out := buf.String()
	assert.Contains(t, out, "english")
	assert.Contains(t, out, "12,345")
	assert.Contains(t, out, "moby.txt")
}

func TestRenderProfilesEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderProfiles(&buf, nil))
	assert.Equal(t, "No profiles saved.\n", buf.String())
}
