package cipher

import "sort"

// FrequencyEntry is the number of occurrences of one letter.
type FrequencyEntry struct {
	Letter rune
	Count  int
}

// FrequencyTable holds exactly one entry per alphabet letter.
type FrequencyTable [AlphabetSize]FrequencyEntry

// NewFrequencyTable returns an alphabetical table with every count at zero.
func NewFrequencyTable() FrequencyTable {
	var t FrequencyTable
	for i := range t {
		t[i].Letter = letterAt(i)
	}
	return t
}

// Count tallies case-insensitive ASCII letter occurrences in text.
// The result is in alphabetical order.
func Count(text string) FrequencyTable {
	t := NewFrequencyTable()
	for _, r := range text {
		if idx, ok := Index(r); ok {
			t[idx].Count++
		}
	}
	return t
}

// SortDescending returns a copy ordered by count descending, ties in alphabetical order.
func SortDescending(t FrequencyTable) FrequencyTable {
	out := t
	sort.SliceStable(out[:], func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Letter < out[j].Letter
		}
		return out[i].Count > out[j].Count
	})
	return out
}

// Alphabetical returns a copy ordered A to Z.
func (t FrequencyTable) Alphabetical() FrequencyTable {
	out := t
	sort.SliceStable(out[:], func(i, j int) bool {
		return out[i].Letter < out[j].Letter
	})
	return out
}

// Total returns the sum of all counts.
func (t FrequencyTable) Total() int {
	total := 0
	for _, e := range t {
		total += e.Count
	}
	return total
}

// Top returns the entry with the highest count, earliest letter on ties.
func (t FrequencyTable) Top() FrequencyEntry {
	return SortDescending(t)[0]
}

// IsEmpty reports whether no letter was counted.
func (t FrequencyTable) IsEmpty() bool {
	return t.Top().Count == 0
}

// CountOf returns the count recorded for letter, or 0 outside the alphabet.
func (t FrequencyTable) CountOf(letter rune) int {
	if !IsLetter(letter) {
		return 0
	}
	letter = Upper(letter)
	for _, e := range t {
		if e.Letter == letter {
			return e.Count
		}
	}
	return 0
}

// Percent returns the share of letter in the table as a value in [0, 100].
func (t FrequencyTable) Percent(letter rune) float64 {
	total := t.Total()
	if total == 0 {
		return 0
	}
	return float64(t.CountOf(letter)) / float64(total) * 100
}
