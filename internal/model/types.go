// Package model defines shared data structures.
package model

import (
	"time"

	"github.com/verte-zerg/subcrack/internal/cipher"
)

// Config defines interactive session settings.
type Config struct {
	Placeholder     rune
	Debounce        time.Duration
	Profile         string
	HistogramHeight int
	CalibrationPath string
	CipherPath      string
	Watch           bool
}

// DecodeConfig defines options for the non-interactive decode command.
type DecodeConfig struct {
	CipherPath      string
	CalibrationPath string
	Profile         string
	Key             string
	Overrides       string
	Placeholder     rune
	ShowMapping     bool
}

// Profile is a named calibration frequency table.
type Profile struct {
	Name      string
	CreatedAt time.Time
	Source    string
	Table     cipher.FrequencyTable
}

// Letters returns the number of letters the profile was built from.
func (p Profile) Letters() int {
	return p.Table.Total()
}

// ProfileSummary describes a stored profile without its counts.
type ProfileSummary struct {
	Name      string
	CreatedAt time.Time
	Source    string
	Letters   int
}
