package search

import (
	"context"
	"errors"

	tea "charm.land/bubbletea/v2"

	"github.com/colonyops/tracklog/internal/core/catalog"
	"github.com/colonyops/tracklog/internal/core/logging"
	"github.com/colonyops/tracklog/internal/core/tracklog"
)

// debounceMsg is delivered when a debounce timer elapses.
type debounceMsg struct {
	debounce Debounce
}

// resultsMsg carries the outcome of a search request.
type resultsMsg struct {
	id         uint64
	query      string
	candidates []catalog.Candidate
	err        error
}

// platformsMsg carries the outcome of a platform lookup.
type platformsMsg struct {
	id        uint64
	platforms []string
	err       error
}

// SubmittedMsg is emitted when the user submits the selection form.
type SubmittedMsg struct {
	Entry tracklog.Entry
	Form  tracklog.Form
}

func searchCmd(cat catalog.Catalog, req *Request) tea.Cmd {
	return func() tea.Msg {
		candidates, err := cat.Search(req.Ctx, req.Query)
		if errors.Is(err, context.Canceled) {
			logger := logging.ComponentCtx(req.Ctx, "search")
			logger.Debug().Msg("search aborted")
		}
		return resultsMsg{id: req.ID, query: req.Query, candidates: candidates, err: err}
	}
}

func platformsCmd(cat catalog.Catalog, req *Request) tea.Cmd {
	return func() tea.Msg {
		platforms, err := cat.Platforms(req.Ctx, catalog.GameID(req.Query))
		if errors.Is(err, context.Canceled) {
			logger := logging.ComponentCtx(req.Ctx, "search")
			logger.Debug().Str("game_id", req.Query).Msg("platform lookup aborted")
		}
		return platformsMsg{id: req.ID, platforms: platforms, err: err}
	}
}

func submittedCmd(entry tracklog.Entry, form tracklog.Form) tea.Cmd {
	return func() tea.Msg {
		return SubmittedMsg{Entry: entry, Form: form}
	}
}
