// Package store handles SQLite persistence of calibration profiles.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/subcrack/internal/cipher"
	"github.com/verte-zerg/subcrack/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// ErrProfileNotFound is returned when no profile has the requested name.
var ErrProfileNotFound = errors.New("profile not found")

// Store wraps SQLite access for calibration profiles.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS profiles (
			name TEXT PRIMARY KEY,
			created_at TEXT NOT NULL,
			source TEXT NOT NULL,
			letters INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS profile_counts (
			profile TEXT NOT NULL,
			letter TEXT NOT NULL,
			count INTEGER NOT NULL,
			PRIMARY KEY (profile, letter)
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func normalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("profile name must not be empty")
	}
	return name, nil
}

// SaveProfile stores a profile, replacing any existing profile with the same name.
func (s *Store) SaveProfile(ctx context.Context, p model.Profile) (err error) {
	name, err := normalizeName(p.Name)
	if err != nil {
		return err
	}
	createdAt := p.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM profile_counts WHERE profile = ?`, name); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx,
		`INSERT INTO profiles (name, created_at, source, letters) VALUES (?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET created_at = excluded.created_at, source = excluded.source, letters = excluded.letters`,
		name,
		createdAt.Format(time.RFC3339Nano),
		p.Source,
		p.Table.Total(),
	); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO profile_counts (profile, letter, count) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := stmt.Close(); cerr != nil {
			// Best-effort statement close.
			_ = cerr
		}
	}()
	for _, e := range p.Table {
		if _, err = stmt.ExecContext(ctx, name, string(e.Letter), e.Count); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetProfile loads a profile with its letter counts.
func (s *Store) GetProfile(ctx context.Context, name string) (model.Profile, error) {
	name, err := normalizeName(name)
	if err != nil {
		return model.Profile{}, err
	}
	var p model.Profile
	var createdAt string
	var letters int
	row := s.db.QueryRowContext(ctx, `SELECT name, created_at, source, letters FROM profiles WHERE name = ?`, name)
	if err := row.Scan(&p.Name, &createdAt, &p.Source, &letters); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Profile{}, fmt.Errorf("%q: %w", name, ErrProfileNotFound)
		}
		return model.Profile{}, err
	}
	parsed, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return model.Profile{}, err
	}
	p.CreatedAt = parsed

	rows, err := s.db.QueryContext(ctx, `SELECT letter, count FROM profile_counts WHERE profile = ?`, name)
	if err != nil {
		return model.Profile{}, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	p.Table = cipher.NewFrequencyTable()
	for rows.Next() {
		var letter string
		var count int
		if err := rows.Scan(&letter, &count); err != nil {
			return model.Profile{}, err
		}
		runes := []rune(letter)
		if len(runes) != 1 {
			return model.Profile{}, fmt.Errorf("profile %q: malformed letter %q", name, letter)
		}
		idx, ok := cipher.Index(runes[0])
		if !ok {
			return model.Profile{}, fmt.Errorf("profile %q: malformed letter %q", name, letter)
		}
		p.Table[idx].Count = count
	}
	if err := rows.Err(); err != nil {
		return model.Profile{}, err
	}
	if p.Table.Total() != letters {
		return model.Profile{}, fmt.Errorf("profile %q: stored counts do not add up to %d letters", name, letters)
	}
	return p, nil
}

// ListProfiles returns profile summaries ordered by name.
func (s *Store) ListProfiles(ctx context.Context) ([]model.ProfileSummary, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, created_at, source, letters FROM profiles ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.ProfileSummary
	for rows.Next() {
		var summary model.ProfileSummary
		var createdAt string
		if err := rows.Scan(&summary.Name, &createdAt, &summary.Source, &summary.Letters); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, err
		}
		summary.CreatedAt = parsed
		result = append(result, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteProfile removes a profile and its counts.
func (s *Store) DeleteProfile(ctx context.Context, name string) (err error) {
	name, err = normalizeName(name)
	if err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	res, err := tx.ExecContext(ctx, `DELETE FROM profiles WHERE name = ?`, name)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		err = fmt.Errorf("%q: %w", name, ErrProfileNotFound)
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM profile_counts WHERE profile = ?`, name); err != nil {
		return err
	}
	return tx.Commit()
}
