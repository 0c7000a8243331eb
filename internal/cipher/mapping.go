package cipher

import (
	"errors"
	"fmt"
	"strings"
)

// Undecided marks a mapping entry that has no plaintext letter yet.
const Undecided rune = 0

// DefaultPlaceholder is rendered for undecided entries.
const DefaultPlaceholder = '_'

// ErrInvalidLetterKey is returned when a mapping key is outside the alphabet.
var ErrInvalidLetterKey = errors.New("letter key outside A-Z")

// Mapping maps each cipher letter (by alphabet index) to a plaintext letter or Undecided.
// It need not be a bijection.
type Mapping [AlphabetSize]rune

// Identity returns the mapping where every letter maps to itself.
func Identity() Mapping {
	var m Mapping
	for i := range m {
		m[i] = letterAt(i)
	}
	return m
}

// DeriveFromFrequencies pairs the i-th most frequent cipher letter with the i-th most
// frequent calibration letter. Either table being empty yields Identity.
func DeriveFromFrequencies(calibration, cipherTable FrequencyTable) Mapping {
	if calibration.IsEmpty() || cipherTable.IsEmpty() {
		return Identity()
	}
	cal := SortDescending(calibration)
	ciph := SortDescending(cipherTable)
	var m Mapping
	for i := 0; i < AlphabetSize; i++ {
		idx, _ := Index(ciph[i].Letter)
		m[idx] = cal[i].Letter
	}
	return m
}

// Override returns a copy of m with letter mapped to the normalized value.
// The input mapping is returned unchanged together with ErrInvalidLetterKey when
// letter is not in the alphabet.
func Override(m Mapping, letter rune, value string) (Mapping, error) {
	idx, ok := Index(letter)
	if !ok {
		return m, fmt.Errorf("override %q: %w", letter, ErrInvalidLetterKey)
	}
	m[idx] = NormalizeValue(value)
	return m, nil
}

// NormalizeValue reduces an edit to a single uppercase letter: the last rune of value.
// Empty or non-letter input yields Undecided.
func NormalizeValue(value string) rune {
	runes := []rune(value)
	if len(runes) == 0 {
		return Undecided
	}
	last := runes[len(runes)-1]
	if !IsLetter(last) {
		return Undecided
	}
	return Upper(last)
}

// Lookup returns the value mapped for letter.
func (m Mapping) Lookup(letter rune) (rune, error) {
	idx, ok := Index(letter)
	if !ok {
		return Undecided, fmt.Errorf("lookup %q: %w", letter, ErrInvalidLetterKey)
	}
	return m[idx], nil
}

// Inverse swaps keys and values. When several keys share a value the
// alphabetically first key wins; values never targeted become Undecided.
func (m Mapping) Inverse() Mapping {
	var inv Mapping
	for i, v := range m {
		idx, ok := Index(v)
		if !ok {
			continue
		}
		if inv[idx] == Undecided {
			inv[idx] = letterAt(i)
		}
	}
	return inv
}

// Collisions lists values targeted by more than one key, with those keys in order.
func (m Mapping) Collisions() map[rune][]rune {
	byValue := map[rune][]rune{}
	for i, v := range m {
		if v == Undecided {
			continue
		}
		byValue[v] = append(byValue[v], letterAt(i))
	}
	out := map[rune][]rune{}
	for v, keys := range byValue {
		if len(keys) > 1 {
			out[v] = keys
		}
	}
	return out
}

// IsIdentity reports whether every letter maps to itself.
func (m Mapping) IsIdentity() bool {
	return m == Identity()
}

// Key renders the mapped values in alphabet order, using placeholder for undecided entries.
func (m Mapping) Key(placeholder rune) string {
	var b strings.Builder
	b.Grow(AlphabetSize)
	for _, v := range m {
		if v == Undecided {
			b.WriteRune(placeholder)
			continue
		}
		b.WriteRune(v)
	}
	return b.String()
}

// String implements fmt.Stringer.
func (m Mapping) String() string {
	return m.Key(DefaultPlaceholder)
}

// ParseKey parses a 26-rune key as produced by Key. Letters are case-insensitive;
// '_', '?' and '.' denote undecided entries.
func ParseKey(key string) (Mapping, error) {
	var m Mapping
	runes := []rune(strings.TrimSpace(key))
	if len(runes) != AlphabetSize {
		return m, fmt.Errorf("key must have %d letters, got %d", AlphabetSize, len(runes))
	}
	for i, r := range runes {
		switch {
		case IsLetter(r):
			m[i] = Upper(r)
		case r == '_' || r == '?' || r == '.':
			m[i] = Undecided
		default:
			return Mapping{}, fmt.Errorf("invalid key character %q at position %d", r, i+1)
		}
	}
	return m, nil
}
