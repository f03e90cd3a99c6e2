// Package tui implements the Bubble Tea TUI for tracklog.
package tui

import (
	"context"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"
	"github.com/rs/zerolog/log"

	"github.com/colonyops/tracklog/internal/core/catalog"
	"github.com/colonyops/tracklog/internal/core/styles"
	"github.com/colonyops/tracklog/internal/core/tracklog"
	"github.com/colonyops/tracklog/internal/tui/views/search"
)

// Deps are the collaborators of the TUI.
type Deps struct {
	Catalog catalog.Catalog
	Store   tracklog.Store
	BuildInfo
}

// Opts configures the TUI.
type Opts struct {
	Context   context.Context
	Debounce  time.Duration
	Warnings  []string
	Platforms bool
}

type entrySavedMsg struct {
	entry tracklog.Entry
	form  tracklog.Form
	err   error
}

// Model is the root model: it hosts the search panel and persists the
// submitted form.
type Model struct {
	search   search.View
	store    tracklog.Store
	ctx      context.Context
	build    BuildInfo
	warnings []string

	width  int
	height int

	saving   bool
	saveErr  error
	saved    *tracklog.Entry
	form     tracklog.Form
	quitting bool
}

// New creates the root model.
func New(deps Deps, opts Opts) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	return Model{
		search: search.New(search.Options{
			Catalog:   deps.Catalog,
			Debounce:  opts.Debounce,
			Platforms: opts.Platforms,
			Context:   ctx,
		}),
		store:    deps.Store,
		ctx:      ctx,
		build:    deps.BuildInfo,
		warnings: opts.Warnings,
		width:    80,
		height:   24,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.search.Init()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.search.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "esc":
			if m.search.Idle() {
				m.quitting = true
				return m, tea.Quit
			}
		}
		if m.saving {
			return m, nil
		}

	case search.SubmittedMsg:
		m.saving = true
		m.saveErr = nil
		return m, m.save(msg.Entry, msg.Form)

	case entrySavedMsg:
		m.saving = false
		if msg.err != nil {
			log.Error().Err(msg.err).Msg("failed to save log entry")
			m.saveErr = msg.err
			return m, nil
		}
		m.saved = &msg.entry
		m.form = msg.form
		m.quitting = true
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() tea.View {
	if m.quitting {
		return tea.NewView("")
	}

	sections := make([]string, 0, len(m.warnings)+3)
	for _, w := range m.warnings {
		sections = append(sections, styles.WarningStyle.Render("! "+w))
	}

	sections = append(sections, m.search.View())

	switch {
	case m.saving:
		sections = append(sections, styles.TextMutedStyle.Render("Saving..."))
	case m.saveErr != nil:
		sections = append(sections, styles.ErrorStyle.Render(fmt.Sprintf("Could not save: %v", m.saveErr)))
	}

	if m.build.Version != "" {
		sections = append(sections, styles.TextMutedStyle.Render("tracklog "+m.build.Version))
	}

	return tea.NewView(lipgloss.NewStyle().Padding(1, 2).Render(lipgloss.JoinVertical(lipgloss.Left, sections...)))
}

// Saved returns the entry persisted on submit, or nil if the user quit.
func (m Model) Saved() *tracklog.Entry {
	return m.saved
}

// SubmittedForm returns the hidden form values that were submitted.
func (m Model) SubmittedForm() tracklog.Form {
	return m.form
}

func (m Model) save(entry tracklog.Entry, form tracklog.Form) tea.Cmd {
	store := m.store
	ctx := m.ctx
	return func() tea.Msg {
		if store == nil {
			return entrySavedMsg{entry: entry, form: form}
		}
		saved, err := store.Add(ctx, entry)
		return entrySavedMsg{entry: saved, form: form, err: err}
	}
}
