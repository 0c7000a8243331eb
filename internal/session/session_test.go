package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/subcrack/internal/cipher"
)

func TestNewSessionRendersZeroState(t *testing.T) {
	s := New()
	snap := s.Snapshot()

	assert.Zero(t, snap.CalibrationLetters)
	assert.Zero(t, snap.CipherLetters)
	assert.True(t, snap.Mapping.IsIdentity())
	assert.Empty(t, snap.DecodedText)
	assert.Equal(t, 'A', snap.CipherTable[0].Letter)
	assert.Equal(t, cipher.DefaultPlaceholder, snap.Placeholder)
}

func TestStraightMappingScenario(t *testing.T) {
	s := New()
	s.SetCalibrationText("EEEEETTTT")
	s.SetCipherText("XXXXXYYYY")

	snap := s.Snapshot()
	require.Equal(t, 'E', snap.CalibrationTable[0].Letter)
	require.Equal(t, 5, snap.CalibrationTable[0].Count)
	require.Equal(t, 'T', snap.CalibrationTable[1].Letter)
	require.Equal(t, 'X', snap.CipherTable[0].Letter)
	require.Equal(t, 'Y', snap.CipherTable[1].Letter)
	assert.Equal(t, "XXXXXYYYY", snap.DecodedText)

	s.RequestStraightMapping()
	x, err := s.Mapping().Lookup('X')
	require.NoError(t, err)
	y, err := s.Mapping().Lookup('Y')
	require.NoError(t, err)
	assert.Equal(t, 'E', x)
	assert.Equal(t, 'T', y)
	assert.Equal(t, "EEEEETTTT", s.DecodedText())
}

func TestCipherTextDecodesWithCurrentMapping(t *testing.T) {
	s := New()
	s.SetCipherText("Hello, World!")
	assert.Equal(t, "HELLO, WORLD!", s.DecodedText())
}

func TestEmptyCalibrationYieldsIdentity(t *testing.T) {
	s := New()
	s.SetCalibrationText("")
	s.SetCipherText("ABC")
	require.NoError(t, s.EditMappingLetter('A', "Q"))

	s.RequestStraightMapping()
	assert.True(t, s.Mapping().IsIdentity())
	assert.Equal(t, "ABC", s.DecodedText())
}

func TestManualEditScenario(t *testing.T) {
	s := New()
	s.SetCipherText("QUICK BROWN")
	before := s.Mapping()

	require.NoError(t, s.EditMappingLetter('Q', "z"))

	assert.Equal(t, "ZUICK BROWN", s.DecodedText())
	after := s.Mapping()
	for i := range before {
		if cipher.Alphabet[i] == 'Q' {
			continue
		}
		assert.Equal(t, before[i], after[i])
	}
}

func TestEditMappingLetterInvalidKeyIsNoop(t *testing.T) {
	calls := 0
	s := New(WithListener(func(Snapshot) { calls++ }))
	s.SetCipherText("abc")
	calls = 0

	err := s.EditMappingLetter('3', "A")
	require.ErrorIs(t, err, cipher.ErrInvalidLetterKey)
	assert.True(t, s.Mapping().IsIdentity())
	assert.Equal(t, "ABC", s.DecodedText())
	assert.Zero(t, calls)
}

func TestCalibrationChangeDoesNotTouchMapping(t *testing.T) {
	s := New()
	s.SetCipherText("XXY")
	s.SetCalibrationText("EET")
	s.RequestStraightMapping()
	mapping := s.Mapping()

	s.SetCalibrationText("completely different calibration text")
	assert.Equal(t, mapping, s.Mapping())
	assert.Equal(t, "EET", s.DecodedText())
}

func TestUndecidedUsesPlaceholder(t *testing.T) {
	s := New(WithPlaceholder('?'))
	s.SetCipherText("ab, c")
	require.NoError(t, s.EditMappingLetter('b', ""))
	assert.Equal(t, "A?, C", s.DecodedText())

	s.ResetMapping()
	assert.Equal(t, "AB, C", s.DecodedText())
}

func TestListenerReceivesSnapshots(t *testing.T) {
	var snaps []Snapshot
	s := New(WithListener(func(snap Snapshot) { snaps = append(snaps, snap) }))

	s.SetCalibrationText("eeet")
	s.SetCipherText("xxxy")
	s.RequestStraightMapping()
	require.NoError(t, s.EditMappingLetter('Y', "A"))

	require.Len(t, snaps, 4)
	assert.Equal(t, 4, snaps[0].CalibrationLetters)
	assert.Equal(t, "XXXY", snaps[1].DecodedText)
	assert.Equal(t, "EEET", snaps[2].DecodedText)
	assert.Equal(t, "EEEA", snaps[3].DecodedText)
}

func TestCalibrationTableFromProfile(t *testing.T) {
	s := New()
	profile := cipher.SortDescending(cipher.Count("EEEEETTTT"))
	s.SetCalibrationTable("en", profile)
	s.SetCipherText("XXXXXYYYY")
	s.RequestStraightMapping()

	snap := s.Snapshot()
	assert.Equal(t, "en", snap.CalibrationSource)
	assert.Equal(t, 'A', snap.CalibrationAlphabetical[0].Letter)
	assert.Equal(t, "EEEEETTTT", snap.DecodedText)

	s.SetCalibrationText("abc")
	assert.Empty(t, s.Snapshot().CalibrationSource)
}

func TestCollisionsReported(t *testing.T) {
	s := New()
	require.NoError(t, s.EditMappingLetter('A', "B"))
	snap := s.Snapshot()
	assert.Equal(t, []rune{'A', 'B'}, snap.Collisions['B'])
}
