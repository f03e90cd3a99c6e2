// Package catalogapi implements catalog.Catalog against the HTTP search and
// platforms endpoints of a game-catalog backend.
package catalogapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/colonyops/tracklog/internal/core/catalog"
	"github.com/colonyops/tracklog/internal/core/logging"
	"github.com/rs/zerolog"
)

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 4 << 20

// ErrBadStatus is wrapped by errors returned for non-200 responses.
var ErrBadStatus = errors.New("unexpected status")

// Options configures a Client.
type Options struct {
	BaseURL       string
	SearchPath    string
	PlatformsPath string
	Envelope      catalog.Envelope
	Placeholder   string
	Timeout       time.Duration

	// HTTPClient overrides the default client. Timeout is ignored when set.
	HTTPClient *http.Client
}

// Client talks to the catalog backend over HTTP.
type Client struct {
	base          *url.URL
	searchPath    string
	platformsPath string
	envelope      catalog.Envelope
	placeholder   string
	http          *http.Client
	logger        zerolog.Logger
}

var _ catalog.Catalog = (*Client)(nil)

// New creates a Client from opts.
func New(opts Options) (*Client, error) {
	base, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("base url %q must be http or https", opts.BaseURL)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}

	envelope := opts.Envelope
	if envelope == "" {
		envelope = catalog.EnvelopeArray
	}

	return &Client{
		base:          base,
		searchPath:    orDefault(opts.SearchPath, "search"),
		platformsPath: orDefault(opts.PlatformsPath, "platforms"),
		envelope:      envelope,
		placeholder:   opts.Placeholder,
		http:          httpClient,
		logger:        logging.Component("catalog"),
	}, nil
}

// Search issues GET {base}/{search_path}?q=query. Cancelling ctx aborts the
// underlying HTTP request.
func (c *Client) Search(ctx context.Context, query string) ([]catalog.Candidate, error) {
	body, err := c.get(ctx, c.searchPath, url.Values{"q": {query}})
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}

	candidates, err := catalog.DecodeCandidates(body, c.envelope, c.placeholder)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}

	c.logger.Debug().Ctx(ctx).Int("count", len(candidates)).Msg("search complete")
	return candidates, nil
}

// Platforms issues GET {base}/{platforms_path}?id=gameID.
func (c *Client) Platforms(ctx context.Context, id catalog.GameID) ([]string, error) {
	body, err := c.get(ctx, c.platformsPath, url.Values{"id": {id.String()}})
	if err != nil {
		return nil, fmt.Errorf("platforms for %s: %w", id, err)
	}

	platforms, err := catalog.DecodePlatforms(body)
	if err != nil {
		return nil, fmt.Errorf("platforms for %s: %w", id, err)
	}
	return platforms, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	u := c.base.JoinPath(path)
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "tracklog")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Debug().Err(err).Msg("close response body")
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", ErrBadStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}

func orDefault(s, def string) string {
	s = strings.Trim(s, "/")
	if s == "" {
		return def
	}
	return s
}
