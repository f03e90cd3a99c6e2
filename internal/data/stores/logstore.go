package stores

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/colonyops/tracklog/internal/core/catalog"
	"github.com/colonyops/tracklog/internal/core/tracklog"
	"github.com/colonyops/tracklog/internal/data/db"
	"github.com/colonyops/tracklog/pkg/randid"
)

const (
	entryIDLength = 8
	busyRetries   = 3
)

// LogStore implements tracklog.Store using SQLite.
type LogStore struct {
	db  *db.DB
	now func() time.Time
}

var _ tracklog.Store = (*LogStore)(nil)

// NewLogStore creates a new SQLite-backed game log.
func NewLogStore(db *db.DB) *LogStore {
	return &LogStore{db: db, now: time.Now}
}

// Add persists e. An empty ID or zero CreatedAt is filled in.
func (s *LogStore) Add(ctx context.Context, e tracklog.Entry) (tracklog.Entry, error) {
	if e.ID == "" {
		e.ID = randid.Generate(entryIDLength)
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.now()
	}
	e.CreatedAt = e.CreatedAt.UTC()

	var err error
	for range busyRetries {
		_, err = s.db.Conn().ExecContext(ctx, `
			INSERT INTO log_entries (id, game_id, name, image_url, platform, created_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			e.ID, e.GameID.String(), e.Name, e.ImageURL, e.Platform, e.CreatedAt.UnixNano(),
		)
		if !IsBusyError(err) {
			break
		}
	}
	if err != nil {
		return tracklog.Entry{}, fmt.Errorf("add entry: %w", err)
	}

	return e, nil
}

// List returns all entries, newest first.
func (s *LogStore) List(ctx context.Context) ([]tracklog.Entry, error) {
	rows, err := s.db.Conn().QueryContext(ctx, `
		SELECT id, game_id, name, image_url, platform, created_at
		FROM log_entries
		ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	entries := []tracklog.Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("list entries: %w", err)
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// Get returns a single entry by ID.
func (s *LogStore) Get(ctx context.Context, id string) (tracklog.Entry, error) {
	row := s.db.Conn().QueryRowContext(ctx, `
		SELECT id, game_id, name, image_url, platform, created_at
		FROM log_entries
		WHERE id = ?`, id)

	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return tracklog.Entry{}, tracklog.ErrNotFound
	}
	if err != nil {
		return tracklog.Entry{}, fmt.Errorf("get entry %q: %w", id, err)
	}
	return e, nil
}

// Delete removes an entry by ID.
func (s *LogStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.Conn().ExecContext(ctx, "DELETE FROM log_entries WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete entry %q: %w", id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete entry %q: %w", id, err)
	}
	if n == 0 {
		return tracklog.ErrNotFound
	}
	return nil
}

// Import adds entries in a single transaction. Entries whose ID already
// exists are skipped. It returns how many rows were inserted.
func (s *LogStore) Import(ctx context.Context, entries []tracklog.Entry) (int, error) {
	inserted := 0
	err := s.db.WithTx(ctx, func(tx *sql.Tx) error {
		for _, e := range entries {
			if e.ID == "" {
				e.ID = randid.Generate(entryIDLength)
			}
			if e.CreatedAt.IsZero() {
				e.CreatedAt = s.now()
			}

			res, err := tx.ExecContext(ctx, `
				INSERT OR IGNORE INTO log_entries (id, game_id, name, image_url, platform, created_at)
				VALUES (?, ?, ?, ?, ?, ?)`,
				e.ID, e.GameID.String(), e.Name, e.ImageURL, e.Platform, e.CreatedAt.UTC().UnixNano(),
			)
			if err != nil {
				return fmt.Errorf("import entry %q: %w", e.Name, err)
			}
			if n, _ := res.RowsAffected(); n > 0 {
				inserted++
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (tracklog.Entry, error) {
	var (
		e       tracklog.Entry
		gameID  string
		created int64
	)
	if err := row.Scan(&e.ID, &gameID, &e.Name, &e.ImageURL, &e.Platform, &created); err != nil {
		return tracklog.Entry{}, err
	}
	e.GameID = catalog.GameID(gameID)
	e.CreatedAt = time.Unix(0, created).UTC()
	return e, nil
}
