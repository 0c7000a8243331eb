package cipher

import "strings"

// Apply substitutes every alphabet letter of text through m, writing placeholder for
// undecided entries. Other runes are copied unchanged, so the rune count is preserved.
func Apply(text string, m Mapping, placeholder rune) string {
	if text == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		idx, ok := Index(r)
		if !ok {
			b.WriteRune(r)
			continue
		}
		v := m[idx]
		if v == Undecided {
			v = placeholder
		}
		b.WriteRune(v)
	}
	return b.String()
}

// Decode applies m to cipherText with DefaultPlaceholder.
func Decode(cipherText string, m Mapping) string {
	return Apply(cipherText, m, DefaultPlaceholder)
}
