package cipher

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentity(t *testing.T) {
	m := Identity()
	for i, v := range m {
		assert.Equal(t, rune(Alphabet[i]), v)
	}
	assert.True(t, m.IsIdentity())
	assert.Equal(t, Alphabet, m.String())
}

func TestDeriveFromFrequenciesRankMatches(t *testing.T) {
	calibration := Count("EEEEETTTT")
	ciphertext := Count("XXXXXYYYY")

	m := DeriveFromFrequencies(calibration, ciphertext)

	x, err := m.Lookup('X')
	require.NoError(t, err)
	assert.Equal(t, 'E', x)
	y, err := m.Lookup('y')
	require.NoError(t, err)
	assert.Equal(t, 'T', y)
	for _, v := range m {
		assert.True(t, IsLetter(v))
	}
	assert.Empty(t, m.Collisions())
}

func TestDeriveFromFrequenciesIsDeterministic(t *testing.T) {
	calibration := Count("it was the best of times, it was the worst of times")
	ciphertext := Count("QEB NRFZH YOLTK CLU GRJMP LSBO QEB IXWV ALD")

	first := DeriveFromFrequencies(calibration, ciphertext)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, DeriveFromFrequencies(calibration, ciphertext))
	}
}

func TestDeriveFromFrequenciesEmptyInputYieldsIdentity(t *testing.T) {
	assert.Equal(t, Identity(), DeriveFromFrequencies(Count(""), Count("ABC")))
	assert.Equal(t, Identity(), DeriveFromFrequencies(Count("ABC"), Count("")))
	assert.Equal(t, Identity(), DeriveFromFrequencies(Count("123"), Count("... ---")))
}

func TestOverrideIsLocal(t *testing.T) {
	base := DeriveFromFrequencies(Count("EEEEETTTTAAO"), Count("XXXXXYYYYQQR"))

	edited, err := Override(base, 'Q', "z")
	require.NoError(t, err)

	q, err := edited.Lookup('Q')
	require.NoError(t, err)
	assert.Equal(t, 'Z', q)
	for i := range base {
		if rune(Alphabet[i]) == 'Q' {
			continue
		}
		assert.Equal(t, base[i], edited[i], "letter %c", Alphabet[i])
	}
}

func TestOverrideNormalizesValue(t *testing.T) {
	cases := []struct {
		value string
		want  rune
	}{
		{value: "a", want: 'A'},
		{value: "xyz", want: 'Z'},
		{value: "", want: Undecided},
		{value: "7", want: Undecided},
		{value: "ab!", want: Undecided},
		{value: "é", want: Undecided},
	}
	for _, tc := range cases {
		m, err := Override(Identity(), 'c', tc.value)
		require.NoError(t, err)
		assert.Equal(t, tc.want, m[2], "value %q", tc.value)
	}
}

func TestOverrideRejectsInvalidKey(t *testing.T) {
	base := Identity()
	for _, key := range []rune{'1', ' ', 'é', '_'} {
		m, err := Override(base, key, "A")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidLetterKey))
		assert.Equal(t, base, m)
	}
	_, err := base.Lookup('#')
	assert.ErrorIs(t, err, ErrInvalidLetterKey)
}

func TestInverseAndCollisions(t *testing.T) {
	m := Identity()
	m, _ = Override(m, 'A', "B")
	m, _ = Override(m, 'C', "")

	collisions := m.Collisions()
	require.Len(t, collisions, 1)
	assert.Equal(t, []rune{'A', 'B'}, collisions['B'])

	inv := m.Inverse()
	assert.Equal(t, 'A', inv[1])
	assert.Equal(t, Undecided, inv[0])
	assert.Equal(t, Undecided, inv[2])
	assert.Equal(t, 'D', inv[3])
}

func TestKeyRoundTrip(t *testing.T) {
	m, err := Override(Identity(), 'E', "")
	require.NoError(t, err)
	key := m.Key('?')
	assert.Equal(t, "ABCD?FGHIJKLMNOPQRSTUVWXYZ", key)

	parsed, err := ParseKey(key)
	require.NoError(t, err)
	assert.Equal(t, m, parsed)

	_, err = ParseKey("ABC")
	assert.Error(t, err)
	_, err = ParseKey("ABCD1FGHIJKLMNOPQRSTUVWXYZ")
	assert.Error(t, err)
}
