// Package catalog defines the game catalog domain types shared by the
// search panel, the CLI and the catalog HTTP client.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
)

// Envelope describes how the search endpoint wraps its result list.
type Envelope string

const (
	// EnvelopeArray is a bare JSON array of games.
	EnvelopeArray Envelope = "array"
	// EnvelopeResults is an object of the form {"results": [...]}.
	EnvelopeResults Envelope = "results"
)

// Valid reports whether e is a known envelope.
func (e Envelope) Valid() bool {
	return e == EnvelopeArray || e == EnvelopeResults
}

// GameID identifies a game in the catalog. The backend may send it as a
// JSON number or string; it is always carried as a string.
type GameID string

// UnmarshalJSON accepts both numeric and string ids.
func (id *GameID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = GameID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("game id: %w", err)
	}
	if _, err := strconv.ParseFloat(n.String(), 64); err != nil {
		return fmt.Errorf("game id: %w", err)
	}
	*id = GameID(n.String())
	return nil
}

func (id GameID) String() string { return string(id) }

// Candidate is one search result representing a selectable game.
type Candidate struct {
	ID       GameID `json:"id"`
	Name     string `json:"name"`
	CoverURL string `json:"cover_url"`
}

// Catalog is the backend the search panel talks to.
type Catalog interface {
	// Search returns the games matching query.
	Search(ctx context.Context, query string) ([]Candidate, error)
	// Platforms returns the platform names a game was released on.
	Platforms(ctx context.Context, id GameID) ([]string, error)
}
