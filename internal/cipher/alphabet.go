// Package cipher implements letter-frequency analysis and monoalphabetic substitution mappings.
package cipher

// Alphabet is the fixed ordered domain of every frequency table and mapping.
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// AlphabetSize is the number of letters in Alphabet.
const AlphabetSize = len(Alphabet)

// IsLetter reports whether r is an ASCII letter in either case.
func IsLetter(r rune) bool {
	return (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z')
}

// Upper uppercases ASCII letters and returns any other rune unchanged.
func Upper(r rune) rune {
	if r >= 'a' && r <= 'z' {
		return r - 'a' + 'A'
	}
	return r
}

// Index returns the case-insensitive alphabet position of r.
func Index(r rune) (int, bool) {
	if !IsLetter(r) {
		return 0, false
	}
	return int(Upper(r) - 'A'), true
}

func letterAt(i int) rune {
	return rune(Alphabet[i])
}
