package search

import (
	"context"
	"errors"
	"strings"
	"time"

	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"
	"github.com/rs/zerolog"

	"github.com/colonyops/tracklog/internal/core/catalog"
	"github.com/colonyops/tracklog/internal/core/logging"
	"github.com/colonyops/tracklog/internal/core/styles"
	"github.com/colonyops/tracklog/internal/core/tracklog"
)

const (
	minInputWidth = 20
	maxInputWidth = 60
)

// Options configures a search View.
type Options struct {
	Catalog   catalog.Catalog
	Debounce  time.Duration
	Platforms bool
	// Context is the parent of every request context. Cancelling it aborts
	// all outstanding requests.
	Context context.Context
}

// View is the Bubble Tea sub-model for the search panel.
type View struct {
	ctrl      *Controller
	catalog   catalog.Catalog
	debounce  time.Duration
	platforms bool

	input   textinput.Model
	spinner spinner.Model
	keys    keyMap
	notice  string
	logger  zerolog.Logger
}

// New creates a search View with a focused, empty input.
func New(opts Options) View {
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	ti := textinput.New()
	ti.Placeholder = "Search for a game..."
	ti.Prompt = "› "
	ti.CharLimit = 100
	ti.SetWidth(40)

	inputStyles := textinput.DefaultStyles(true)
	inputStyles.Cursor.Color = styles.ColorPrimary
	inputStyles.Focused.Placeholder = lipgloss.NewStyle().Foreground(styles.ColorMuted)
	inputStyles.Blurred.Placeholder = lipgloss.NewStyle().Foreground(styles.ColorMuted)
	ti.SetStyles(inputStyles)
	ti.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.TextPrimaryStyle

	return View{
		ctrl:      NewController(opts.Context, opts.Platforms),
		catalog:   opts.Catalog,
		debounce:  debounce,
		platforms: opts.Platforms,
		input:     ti,
		spinner:   s,
		keys:      defaultKeyMap(),
		logger:    logging.Component("search"),
	}
}

// Init returns the initial commands for the search view.
func (v View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the search view.
func (v View) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case debounceMsg:
		return v.handleDebounce(msg)
	case resultsMsg:
		return v.handleResults(msg)
	case platformsMsg:
		return v.handlePlatforms(msg)
	case spinner.TickMsg:
		return v.handleSpinnerTick(msg)
	case tea.KeyPressMsg:
		return v.handleKey(msg)
	}

	return v.updateInput(msg)
}

// updateInput forwards msg to the text input and reports any change of the
// text to the controller.
func (v View) updateInput(msg tea.Msg) (View, tea.Cmd) {
	before := v.input.Value()
	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	if after := v.input.Value(); after != before {
		cmd = tea.Batch(cmd, v.onInput(after))
	}
	return v, cmd
}

// SetSize updates the view dimensions.
func (v *View) SetSize(width, _ int) {
	v.input.SetWidth(min(max(width-8, minInputWidth), maxInputWidth))
}

// Phase reports the panel's state machine position.
func (v View) Phase() Phase { return v.ctrl.Phase() }

// Selection returns the selected game, or nil.
func (v View) Selection() *catalog.Candidate { return v.ctrl.Selection() }

// Form returns the hidden form fields populated by the selection.
func (v View) Form() tracklog.Form { return v.ctrl.Form() }

// Items returns the rendered result rows.
func (v View) Items() []Item { return v.ctrl.Items() }

// InputValue returns the text currently in the search input.
func (v View) InputValue() string { return v.input.Value() }

// InputFocused reports whether the search input has focus.
func (v View) InputFocused() bool { return v.input.Focused() }

// Idle is true when the input is empty and nothing is selected, so escape
// has nothing left to clear.
func (v View) Idle() bool {
	return v.ctrl.Selection() == nil && v.input.Value() == ""
}

func (v View) handleDebounce(msg debounceMsg) (View, tea.Cmd) {
	req, ok := v.ctrl.Fire(msg.debounce)
	if !ok {
		return v, nil
	}
	v.logger.Debug().Uint64("request_id", req.ID).Str("query", req.Query).Msg("search issued")
	return v, tea.Batch(searchCmd(v.catalog, req), v.spinner.Tick)
}

func (v View) handleResults(msg resultsMsg) (View, tea.Cmd) {
	if !v.ctrl.Resolve(msg.id, msg.candidates, msg.err) {
		v.logger.Debug().Uint64("request_id", msg.id).Str("query", msg.query).Msg("discarded superseded search response")
		return v, nil
	}
	if msg.err != nil {
		v.logger.Warn().Err(msg.err).Str("query", msg.query).Msg("search failed")
	}
	return v, nil
}

func (v View) handlePlatforms(msg platformsMsg) (View, tea.Cmd) {
	if !v.ctrl.ResolvePlatforms(msg.id, msg.platforms, msg.err) {
		return v, nil
	}
	if msg.err != nil {
		v.logger.Warn().Err(msg.err).Msg("platform lookup failed")
	}
	return v, nil
}

func (v View) handleSpinnerTick(msg spinner.TickMsg) (View, tea.Cmd) {
	if !v.ctrl.Loading() && !v.ctrl.PlatformsLoading() {
		return v, nil
	}
	var cmd tea.Cmd
	v.spinner, cmd = v.spinner.Update(msg)
	return v, cmd
}

func (v View) handleKey(msg tea.KeyPressMsg) (View, tea.Cmd) {
	v.notice = ""

	if v.ctrl.Selection() != nil {
		return v.handleSelectedKey(msg)
	}

	switch {
	case key.Matches(msg, v.keys.Up):
		v.ctrl.MoveUp()
		return v, nil
	case key.Matches(msg, v.keys.Down):
		v.ctrl.MoveDown()
		return v, nil
	case key.Matches(msg, v.keys.Select):
		req, ok := v.ctrl.SelectCurrent()
		if !ok {
			return v, nil
		}
		cmd := v.afterSelect(req)
		return v, cmd
	case key.Matches(msg, v.keys.Clear):
		if v.input.Value() != "" {
			v.input.SetValue("")
			v.ctrl.Input("")
		}
		return v, nil
	}

	return v.updateInput(msg)
}

func (v View) handleSelectedKey(msg tea.KeyPressMsg) (View, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Remove):
		return v.clearSelection()
	case key.Matches(msg, v.keys.Up):
		v.ctrl.MoveUp()
	case key.Matches(msg, v.keys.Down):
		v.ctrl.MoveDown()
	case key.Matches(msg, v.keys.Submit):
		entry, err := v.ctrl.Submit()
		if err != nil {
			v.notice = submitNotice(err)
			return v, nil
		}
		return v, submittedCmd(entry, v.ctrl.Form())
	}
	return v, nil
}

func (v View) onInput(text string) tea.Cmd {
	d, ok := v.ctrl.Input(text)
	if !ok {
		return nil
	}
	return tea.Tick(v.debounce, func(time.Time) tea.Msg {
		return debounceMsg{debounce: d}
	})
}

func (v *View) afterSelect(req *Request) tea.Cmd {
	v.input.Blur()
	if sel := v.ctrl.Selection(); sel != nil {
		v.logger.Debug().Str("game_id", sel.ID.String()).Msg("game selected")
	}
	if req == nil {
		return nil
	}
	return tea.Batch(platformsCmd(v.catalog, req), v.spinner.Tick)
}

func (v View) clearSelection() (View, tea.Cmd) {
	v.ctrl.ClearSelection()
	v.input.SetValue("")
	cmd := v.input.Focus()
	return v, cmd
}

func submitNotice(err error) string {
	switch {
	case errors.Is(err, tracklog.ErrPlatformRequired):
		return "Pick a platform first"
	case errors.Is(err, tracklog.ErrNoSelection):
		return "Select a game first"
	default:
		return err.Error()
	}
}

// View renders the search panel.
func (v View) View() string {
	sections := []string{styles.TitleStyle.Render("Add a game")}

	if v.ctrl.InputVisible() {
		sections = append(sections, styles.SearchInputStyle.Render(v.input.View()))
		if v.ctrl.ResultsVisible() {
			sections = append(sections, v.renderResults())
		}
	} else {
		sections = append(sections, v.renderSelection())
	}

	if v.notice != "" {
		sections = append(sections, styles.ErrorStyle.Render(v.notice))
	}

	sections = append(sections, "", v.renderHelp())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (v View) renderResults() string {
	if v.ctrl.Loading() {
		return v.spinner.View() + " Searching..."
	}

	if v.ctrl.HasNoResults() {
		lines := []string{styles.TextMutedStyle.Render("  No games found")}
		if err := v.ctrl.SearchErr(); err != nil {
			lines = append(lines, styles.TextMutedStyle.Render("  (search unavailable, keep typing to retry)"))
		}
		return strings.Join(lines, "\n")
	}

	lines := make([]string, 0, len(v.ctrl.Items())*2)
	for i, item := range v.ctrl.Items() {
		prefix, style := "  ", styles.ResultNormalStyle
		if i == v.ctrl.Cursor() {
			prefix, style = "▸ ", styles.ResultSelectedStyle
		}
		lines = append(lines,
			style.Render(prefix+item.Candidate.Name),
			styles.ResultCoverStyle.Render("    "+item.Candidate.CoverURL),
		)
	}
	return strings.Join(lines, "\n")
}

func (v View) renderSelection() string {
	sel := v.ctrl.Selection()
	header := styles.SelectionNameStyle.Render(sel.Name) + "  " + styles.RemoveControlStyle.Render("✕")

	lines := []string{header}
	if v.platforms {
		lines = append(lines, "", styles.TextMutedStyle.Render("Platform"))
		lines = append(lines, v.renderPlatforms()...)
	}

	return styles.SelectionPanelStyle.Render(strings.Join(lines, "\n"))
}

func (v View) renderPlatforms() []string {
	switch {
	case v.ctrl.PlatformsLoading():
		return []string{v.spinner.View() + " Loading platforms..."}
	case v.ctrl.PlatformErr() != nil:
		return []string{styles.ErrorStyle.Render("Could not load platforms")}
	case len(v.ctrl.Platforms()) == 0:
		return []string{styles.TextMutedStyle.Render("No platforms listed")}
	}

	lines := make([]string, 0, len(v.ctrl.Platforms()))
	for i, p := range v.ctrl.Platforms() {
		if i == v.ctrl.PlatformCursor() {
			lines = append(lines, styles.ResultSelectedStyle.Render("◉ "+p))
			continue
		}
		lines = append(lines, styles.ResultNormalStyle.Render("○ "+p))
	}
	return lines
}

func (v View) renderHelp() string {
	bindings := v.keys.searchHelp()
	if v.ctrl.Selection() != nil {
		bindings = v.keys.selectedHelp(len(v.ctrl.Platforms()) > 1)
	}

	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, styles.HelpKeyStyle.Render(h.Key)+" "+styles.HelpDescStyle.Render(h.Desc))
	}
	return strings.Join(parts, styles.HelpDescStyle.Render(" • "))
}
