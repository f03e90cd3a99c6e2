// Package tracklog defines the game log domain: the form values produced by
// the search panel and the entries persisted when the form is submitted.
package tracklog

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/colonyops/tracklog/internal/core/catalog"
)

var (
	// ErrNotFound is returned when an entry does not exist.
	ErrNotFound = errors.New("entry not found")
	// ErrNoSelection is returned when submitting a form without a game.
	ErrNoSelection = errors.New("no game selected")
	// ErrPlatformRequired is returned when platforms were offered but none chosen.
	ErrPlatformRequired = errors.New("platform required")
)

// Form field names consumed by the log submission.
const (
	FieldID       = "id"
	FieldImageURL = "image_url"
	FieldPlatform = "platform"
)

// Form holds the hidden fields populated by selecting a game.
type Form struct {
	ID       catalog.GameID
	ImageURL string
	Platform string
}

// Empty reports whether no field is populated.
func (f Form) Empty() bool {
	return f == Form{}
}

// Values encodes the form as submitted. Empty fields are still present so
// the receiving side sees the full field set.
func (f Form) Values() url.Values {
	return url.Values{
		FieldID:       {f.ID.String()},
		FieldImageURL: {f.ImageURL},
		FieldPlatform: {f.Platform},
	}
}

// Entry is a game recorded in the user's log.
type Entry struct {
	ID        string         `json:"id"`
	GameID    catalog.GameID `json:"game_id"`
	Name      string         `json:"name"`
	ImageURL  string         `json:"image_url"`
	Platform  string         `json:"platform,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// NewEntry builds an entry from a submitted form and the chosen game's name.
func NewEntry(name string, f Form) (Entry, error) {
	if f.ID == "" {
		return Entry{}, ErrNoSelection
	}
	return Entry{
		GameID:   f.ID,
		Name:     name,
		ImageURL: f.ImageURL,
		Platform: f.Platform,
	}, nil
}

// Store persists log entries.
type Store interface {
	// Add persists e, assigning an ID and timestamp when unset.
	Add(ctx context.Context, e Entry) (Entry, error)
	// List returns all entries, newest first.
	List(ctx context.Context) ([]Entry, error)
	// Get returns a single entry. Returns ErrNotFound if missing.
	Get(ctx context.Context, id string) (Entry, error)
	// Delete removes an entry. Returns ErrNotFound if missing.
	Delete(ctx context.Context, id string) error
}
