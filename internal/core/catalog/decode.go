package catalog

import (
	"encoding/json"
	"fmt"
)

// wireGame is the shape of a single game returned by the search endpoint.
type wireGame struct {
	ID    GameID `json:"id"`
	Name  string `json:"name"`
	Cover *struct {
		URL string `json:"url"`
	} `json:"cover"`
}

// DecodeCandidates parses a search response body wrapped according to env.
// Games without a cover get placeholder as their CoverURL.
func DecodeCandidates(data []byte, env Envelope, placeholder string) ([]Candidate, error) {
	var games []wireGame

	switch env {
	case EnvelopeResults:
		var wrapped struct {
			Results []wireGame `json:"results"`
		}
		if err := json.Unmarshal(data, &wrapped); err != nil {
			return nil, fmt.Errorf("decode results envelope: %w", err)
		}
		games = wrapped.Results
	case EnvelopeArray, "":
		if err := json.Unmarshal(data, &games); err != nil {
			return nil, fmt.Errorf("decode result array: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown envelope %q", env)
	}

	out := make([]Candidate, 0, len(games))
	for _, g := range games {
		c := Candidate{ID: g.ID, Name: g.Name, CoverURL: placeholder}
		if g.Cover != nil && g.Cover.URL != "" {
			c.CoverURL = g.Cover.URL
		}
		out = append(out, c)
	}
	return out, nil
}

// DecodePlatforms parses a platforms response: a JSON array of names.
func DecodePlatforms(data []byte) ([]string, error) {
	var platforms []string
	if err := json.Unmarshal(data, &platforms); err != nil {
		return nil, fmt.Errorf("decode platforms: %w", err)
	}
	if platforms == nil {
		platforms = []string{}
	}
	return platforms, nil
}
