package search

import (
	"context"
	"errors"
	"time"

	"github.com/colonyops/tracklog/internal/core/catalog"
	"github.com/colonyops/tracklog/internal/core/logging"
	"github.com/colonyops/tracklog/internal/core/tracklog"
)

// DefaultDebounce is the delay between the last keystroke and the search.
const DefaultDebounce = 300 * time.Millisecond

// Phase is the externally visible state of the search panel.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseDebouncing
	PhaseSearching
	PhaseResults
	PhaseNoResults
	PhaseSelected
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseDebouncing:
		return "debouncing"
	case PhaseSearching:
		return "searching"
	case PhaseResults:
		return "results"
	case PhaseNoResults:
		return "no-results"
	case PhaseSelected:
		return "selected"
	default:
		return "unknown"
	}
}

// Debounce identifies one scheduled debounce timer. A Debounce whose Gen no
// longer matches the controller's is cancelled.
type Debounce struct {
	Gen   uint64
	Query string
}

// Request is an in-flight catalog call. Ctx is cancelled when the request is
// aborted; Abort may be called any number of times.
type Request struct {
	ID    uint64
	Query string
	Ctx   context.Context

	cancel context.CancelFunc
}

// Abort cancels the request's context.
func (r *Request) Abort() {
	if r != nil && r.cancel != nil {
		r.cancel()
	}
}

// Item is one rendered row of the result list. The "no results" row has an
// empty CandidateID and is not selectable.
type Item struct {
	Candidate  catalog.Candidate
	Selectable bool
}

// Controller owns the search panel state: the query, the pending requests,
// the rendered result list and the selection. It has no Bubble Tea
// dependencies; the View turns its return values into commands.
type Controller struct {
	base      context.Context
	platforms bool

	query       string
	debounceGen uint64
	debouncing  bool

	nextID  uint64
	pending map[uint64]*Request

	resultsVisible bool
	loading        bool
	items          []Item
	cursor         int
	searchErr      error

	selection *catalog.Candidate
	form      tracklog.Form

	platformReq      *Request
	platformsLoading bool
	platformList     []string
	platformCursor   int
	platformErr      error
}

// NewController creates a controller. Requests derive their contexts from
// base. When platforms is true, selecting a game issues a platform lookup.
func NewController(base context.Context, platforms bool) *Controller {
	if base == nil {
		base = context.Background()
	}
	return &Controller{
		base:      base,
		platforms: platforms,
		pending:   make(map[uint64]*Request),
	}
}

// Input handles a change of the search text. It cancels any pending
// debounce. An empty text aborts all pending requests and clears the result
// list; otherwise a new debounce is returned for the caller to schedule.
// The selection is never touched.
func (c *Controller) Input(text string) (Debounce, bool) {
	c.debounceGen++
	c.debouncing = false
	c.query = text

	if text == "" {
		c.abortSearches()
		c.clearResults()
		return Debounce{}, false
	}

	c.debouncing = true
	return Debounce{Gen: c.debounceGen, Query: text}, true
}

// Fire is called when a debounce timer elapses. Stale timers are ignored.
// A live timer starts a search for its query.
func (c *Controller) Fire(d Debounce) (*Request, bool) {
	if !c.debouncing || d.Gen != c.debounceGen {
		return nil, false
	}
	c.debouncing = false
	return c.Search(d.Query), true
}

// Search shows the loading indicator, aborts every pending search and
// issues a new request for query.
func (c *Controller) Search(query string) *Request {
	c.abortSearches()

	c.resultsVisible = true
	c.loading = true
	c.items = nil
	c.cursor = 0
	c.searchErr = nil

	c.nextID++
	ctx := logging.WithQuery(logging.WithRequestID(c.base, c.nextID), query)
	ctx, cancel := context.WithCancel(ctx)

	req := &Request{ID: c.nextID, Query: query, Ctx: ctx, cancel: cancel}
	c.pending[req.ID] = req
	return req
}

// Resolve applies the outcome of search request id. It returns false and
// changes nothing when the request was superseded or aborted.
func (c *Controller) Resolve(id uint64, candidates []catalog.Candidate, err error) bool {
	req, ok := c.pending[id]
	if !ok {
		return false
	}
	delete(c.pending, id)
	req.Abort()

	if errors.Is(err, context.Canceled) {
		if len(c.pending) == 0 {
			c.loading = false
			c.resultsVisible = false
		}
		return false
	}

	c.loading = false
	c.cursor = 0

	if err != nil {
		c.searchErr = err
		c.items = []Item{{}}
		return true
	}

	if len(candidates) == 0 {
		c.items = []Item{{}}
		return true
	}

	c.items = make([]Item, len(candidates))
	for i, cand := range candidates {
		c.items[i] = Item{Candidate: cand, Selectable: true}
	}
	return true
}

// SelectCandidate makes cand the selection. Pending searches and any
// scheduled debounce are abandoned, the result list is cleared and hidden,
// and the hidden form fields are populated. When platform lookup is enabled
// the returned request fetches the game's platforms.
func (c *Controller) SelectCandidate(cand catalog.Candidate) *Request {
	c.debounceGen++
	c.debouncing = false
	c.abortSearches()
	c.abortPlatforms()
	c.clearResults()

	selected := cand
	c.selection = &selected
	c.form = tracklog.Form{ID: cand.ID, ImageURL: cand.CoverURL}
	c.platformList = nil
	c.platformCursor = 0
	c.platformErr = nil

	if !c.platforms {
		return nil
	}

	c.nextID++
	ctx, cancel := context.WithCancel(logging.WithRequestID(c.base, c.nextID))
	c.platformReq = &Request{ID: c.nextID, Query: cand.ID.String(), Ctx: ctx, cancel: cancel}
	c.platformsLoading = true
	return c.platformReq
}

// SelectCurrent selects the item under the cursor. It returns false when
// the cursor is not on a selectable item.
func (c *Controller) SelectCurrent() (*Request, bool) {
	if !c.resultsVisible || c.loading || c.cursor >= len(c.items) {
		return nil, false
	}
	item := c.items[c.cursor]
	if !item.Selectable {
		return nil, false
	}
	return c.SelectCandidate(item.Candidate), true
}

// ResolvePlatforms applies the outcome of platform request id. Stale or
// aborted responses are dropped.
func (c *Controller) ResolvePlatforms(id uint64, platforms []string, err error) bool {
	if c.platformReq == nil || c.platformReq.ID != id {
		return false
	}
	c.platformReq.Abort()
	c.platformReq = nil

	if errors.Is(err, context.Canceled) {
		return false
	}

	c.platformsLoading = false
	c.platformCursor = 0
	if err != nil {
		c.platformErr = err
		c.platformList = nil
		return true
	}
	c.platformList = platforms
	if len(platforms) > 0 {
		c.form.Platform = platforms[0]
	}
	return true
}

// ClearSelection removes the selection, empties the hidden fields and
// returns the panel to the idle search input.
func (c *Controller) ClearSelection() {
	c.abortPlatforms()
	c.selection = nil
	c.form = tracklog.Form{}
	c.platformList = nil
	c.platformCursor = 0
	c.platformErr = nil
	c.query = ""
	c.clearResults()
}

// MoveUp moves the active cursor (results or platforms) up.
func (c *Controller) MoveUp() {
	if c.selection != nil {
		if c.platformCursor > 0 {
			c.platformCursor--
			c.form.Platform = c.platformList[c.platformCursor]
		}
		return
	}
	if c.cursor > 0 {
		c.cursor--
	}
}

// MoveDown moves the active cursor (results or platforms) down.
func (c *Controller) MoveDown() {
	if c.selection != nil {
		if c.platformCursor < len(c.platformList)-1 {
			c.platformCursor++
			c.form.Platform = c.platformList[c.platformCursor]
		}
		return
	}
	if c.cursor < len(c.items)-1 {
		c.cursor++
	}
}

// Submit validates the form and builds the log entry for it.
func (c *Controller) Submit() (tracklog.Entry, error) {
	if c.selection == nil {
		return tracklog.Entry{}, tracklog.ErrNoSelection
	}
	if c.platformsLoading || (len(c.platformList) > 0 && c.form.Platform == "") {
		return tracklog.Entry{}, tracklog.ErrPlatformRequired
	}
	return tracklog.NewEntry(c.selection.Name, c.form)
}

// Phase reports the current state machine position.
func (c *Controller) Phase() Phase {
	switch {
	case c.selection != nil:
		return PhaseSelected
	case c.loading:
		return PhaseSearching
	case c.debouncing:
		return PhaseDebouncing
	case c.resultsVisible && c.HasNoResults():
		return PhaseNoResults
	case c.resultsVisible:
		return PhaseResults
	default:
		return PhaseIdle
	}
}

// Query returns the current search text.
func (c *Controller) Query() string { return c.query }

// InputVisible is true unless a game is selected.
func (c *Controller) InputVisible() bool { return c.selection == nil }

// ResultsVisible reports whether the result area is shown.
func (c *Controller) ResultsVisible() bool { return c.resultsVisible }

// Loading reports whether the loading indicator replaces the result list.
func (c *Controller) Loading() bool { return c.loading }

// Items returns the rendered result rows.
func (c *Controller) Items() []Item { return c.items }

// Cursor returns the index of the highlighted result row.
func (c *Controller) Cursor() int { return c.cursor }

// HasNoResults reports whether the "no results" row is rendered.
func (c *Controller) HasNoResults() bool {
	return len(c.items) == 1 && !c.items[0].Selectable
}

// SearchErr returns the failure of the last resolved search, if any.
func (c *Controller) SearchErr() error { return c.searchErr }

// Selection returns the selected game, or nil.
func (c *Controller) Selection() *catalog.Candidate { return c.selection }

// Form returns the hidden form fields.
func (c *Controller) Form() tracklog.Form { return c.form }

// PendingCount returns the number of in-flight search requests.
func (c *Controller) PendingCount() int { return len(c.pending) }

// PlatformsLoading reports whether the platform lookup is in flight.
func (c *Controller) PlatformsLoading() bool { return c.platformsLoading }

// Platforms returns the loaded platform options.
func (c *Controller) Platforms() []string { return c.platformList }

// PlatformCursor returns the index of the highlighted platform.
func (c *Controller) PlatformCursor() int { return c.platformCursor }

// PlatformErr returns the failure of the platform lookup, if any.
func (c *Controller) PlatformErr() error { return c.platformErr }

func (c *Controller) abortSearches() {
	for id, req := range c.pending {
		req.Abort()
		delete(c.pending, id)
	}
	c.loading = false
}

func (c *Controller) abortPlatforms() {
	c.platformReq.Abort()
	c.platformReq = nil
	c.platformsLoading = false
}

func (c *Controller) clearResults() {
	c.resultsVisible = false
	c.loading = false
	c.items = nil
	c.cursor = 0
	c.searchErr = nil
}
