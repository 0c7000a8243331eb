// Package session coordinates calibration text, cipher text and the current mapping.
//
// Each input event maps to one explicit transition that recomputes only what depends
// on it. Frequency tables and decoded text are always rebuilt wholesale.
package session

import (
	"github.com/verte-zerg/subcrack/internal/cipher"
)

// Snapshot is the read model handed to the presentation layer after each transition.
type Snapshot struct {
	// Display order: count descending, ties alphabetical.
	CalibrationTable cipher.FrequencyTable
	CipherTable      cipher.FrequencyTable

	CalibrationAlphabetical cipher.FrequencyTable
	CipherAlphabetical      cipher.FrequencyTable
	CalibrationLetters      int
	CipherLetters           int
	CalibrationSource       string

	Mapping     cipher.Mapping
	Collisions  map[rune][]rune
	Placeholder rune

	CipherText  string
	DecodedText string
}

// Option configures a Session.
type Option func(*Session)

// WithPlaceholder sets the rune rendered for undecided mapping entries.
func WithPlaceholder(r rune) Option {
	return func(s *Session) {
		s.placeholder = r
	}
}

// WithListener registers a callback invoked after every state change.
func WithListener(fn func(Snapshot)) Option {
	return func(s *Session) {
		s.listener = fn
	}
}

// Session holds the state of one decoding session. It is not safe for concurrent use;
// the single event loop that owns it is the only writer.
type Session struct {
	calibration       cipher.FrequencyTable
	calibrationSource string
	cipherText        string
	cipherTable       cipher.FrequencyTable
	mapping           cipher.Mapping
	decoded           string

	placeholder rune
	listener    func(Snapshot)
}

// New returns a session with empty texts and the identity mapping.
func New(opts ...Option) *Session {
	s := &Session{
		calibration: cipher.NewFrequencyTable(),
		cipherTable: cipher.NewFrequencyTable(),
		mapping:     cipher.Identity(),
		placeholder: cipher.DefaultPlaceholder,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetCalibrationText recomputes the calibration table. Mapping and decoded text are untouched.
func (s *Session) SetCalibrationText(text string) {
	s.calibration = cipher.Count(text)
	s.calibrationSource = ""
	s.notify()
}

// SetCalibrationTable uses a precomputed table, such as a stored profile, as calibration.
func (s *Session) SetCalibrationTable(source string, t cipher.FrequencyTable) {
	s.calibration = t.Alphabetical()
	s.calibrationSource = source
	s.notify()
}

// SetCipherText recomputes the cipher table and decodes text with the current mapping.
func (s *Session) SetCipherText(text string) {
	s.cipherText = text
	s.cipherTable = cipher.Count(text)
	s.redecode()
	s.notify()
}

// RequestStraightMapping replaces the mapping with one derived from the current tables.
func (s *Session) RequestStraightMapping() {
	s.mapping = cipher.DeriveFromFrequencies(s.calibration, s.cipherTable)
	s.redecode()
	s.notify()
}

// EditMappingLetter sets the plaintext value for one cipher letter. An invalid key
// leaves the session unchanged and returns cipher.ErrInvalidLetterKey.
func (s *Session) EditMappingLetter(letter rune, value string) error {
	m, err := cipher.Override(s.mapping, letter, value)
	if err != nil {
		return err
	}
	s.mapping = m
	s.redecode()
	s.notify()
	return nil
}

// SetMapping replaces the whole mapping, e.g. from a key given on the command line.
func (s *Session) SetMapping(m cipher.Mapping) {
	s.mapping = m
	s.redecode()
	s.notify()
}

// ResetMapping restores the identity mapping.
func (s *Session) ResetMapping() {
	s.SetMapping(cipher.Identity())
}

// Mapping returns the current mapping.
func (s *Session) Mapping() cipher.Mapping {
	return s.mapping
}

// DecodedText returns the cipher text decoded under the current mapping.
func (s *Session) DecodedText() string {
	return s.decoded
}

// Snapshot builds the current read model.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		CalibrationTable:        cipher.SortDescending(s.calibration),
		CipherTable:             cipher.SortDescending(s.cipherTable),
		CalibrationAlphabetical: s.calibration,
		CipherAlphabetical:      s.cipherTable,
		CalibrationLetters:      s.calibration.Total(),
		CipherLetters:           s.cipherTable.Total(),
		CalibrationSource:       s.calibrationSource,
		Mapping:                 s.mapping,
		Collisions:              s.mapping.Collisions(),
		Placeholder:             s.placeholder,
		CipherText:              s.cipherText,
		DecodedText:             s.decoded,
	}
}

func (s *Session) redecode() {
	s.decoded = cipher.Apply(s.cipherText, s.mapping, s.placeholder)
}

func (s *Session) notify() {
	if s.listener == nil {
		return
	}
	s.listener(s.Snapshot())
}
