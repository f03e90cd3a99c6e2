package search

import (
	"context"
	"errors"
	"sync"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/tracklog/internal/core/catalog"
	"github.com/colonyops/tracklog/pkg/tuitest"
)

type fakeCatalog struct {
	mu        sync.Mutex
	results   map[string][]catalog.Candidate
	platforms map[catalog.GameID][]string
	err       error
	queries   []string
}

func (f *fakeCatalog) Search(_ context.Context, query string) ([]catalog.Candidate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, query)
	if f.err != nil {
		return nil, f.err
	}
	return f.results[query], nil
}

func (f *fakeCatalog) Platforms(_ context.Context, id catalog.GameID) ([]string, error) {
	return f.platforms[id], nil
}

func newFake() *fakeCatalog {
	return &fakeCatalog{
		results: map[string][]catalog.Candidate{
			"mario": {{ID: "1", Name: "Super Mario", CoverURL: "a.png"}},
			"a":     {{ID: "9", Name: "Astro Bot", CoverURL: "astro.png"}},
			"ab":    {{ID: "10", Name: "Abzu", CoverURL: "abzu.png"}},
			"zzz":   {},
		},
		platforms: map[catalog.GameID][]string{
			"1": {"NES", "Switch"},
		},
	}
}

// runCmd executes cmd and flattens batches into the produced messages.
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, runCmd(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func typeText(v View, s string) View {
	for _, msg := range tuitest.Type(s) {
		v, _ = v.Update(msg)
	}
	return v
}

// fire delivers the debounce for the current query and returns the search
// command it produced, without running it.
func fire(t *testing.T, v View) (View, tea.Cmd) {
	t.Helper()
	d := Debounce{Gen: v.ctrl.debounceGen, Query: v.ctrl.query}
	return v.Update(debounceMsg{debounce: d})
}

// deliver runs cmd and feeds every non-spinner message back into v.
func deliver(v View, cmd tea.Cmd) View {
	for _, msg := range runCmd(cmd) {
		switch msg.(type) {
		case resultsMsg, platformsMsg:
			v, _ = v.Update(msg)
		}
	}
	return v
}

func search(t *testing.T, v View, q string) View {
	t.Helper()
	v = typeText(v, q)
	v, cmd := fire(t, v)
	require.NotNil(t, cmd)
	return deliver(v, cmd)
}

func TestView_TypeAndSearch(t *testing.T) {
	fake := newFake()
	v := New(Options{Catalog: fake})

	v = typeText(v, "mario")
	assert.Equal(t, "mario", v.InputValue())
	assert.Equal(t, PhaseDebouncing, v.Phase())
	assert.Empty(t, fake.queries, "no request before the debounce fires")

	v, cmd := fire(t, v)
	assert.Equal(t, PhaseSearching, v.Phase())
	assert.Contains(t, tuitest.StripANSI(v.View()), "Searching...")

	v = deliver(v, cmd)
	assert.Equal(t, []string{"mario"}, fake.queries)

	items := v.Items()
	require.Len(t, items, 1)
	view := tuitest.StripANSI(v.View())
	assert.Contains(t, view, "Super Mario")
	assert.Contains(t, view, "a.png")
}

func TestView_NoResults(t *testing.T) {
	v := search(t, New(Options{Catalog: newFake()}), "zzz")

	assert.Equal(t, PhaseNoResults, v.Phase())
	assert.Contains(t, tuitest.StripANSI(v.View()), "No games found")

	v, cmd := v.Update(tuitest.KeyEnter())
	assert.Nil(t, cmd)
	assert.Nil(t, v.Selection(), "no results row is not selectable")
}

func TestView_SearchFailure(t *testing.T) {
	fake := newFake()
	fake.err = errors.New("connection refused")

	v := search(t, New(Options{Catalog: fake}), "mario")

	view := tuitest.StripANSI(v.View())
	assert.Contains(t, view, "No games found")
	assert.Contains(t, view, "search unavailable")
	assert.NotContains(t, view, "Searching...")
}

func TestView_PasteIntoEmptyInput(t *testing.T) {
	fake := newFake()
	v := New(Options{Catalog: fake})

	v, cmd := v.Update(tea.PasteMsg{Content: "mario"})
	require.NotNil(t, cmd)
	assert.Equal(t, "mario", v.InputValue())
	assert.Equal(t, PhaseDebouncing, v.Phase())

	v, next := fire(t, v)
	v = deliver(v, next)
	assert.Equal(t, []string{"mario"}, fake.queries)
	assert.Contains(t, tuitest.StripANSI(v.View()), "Super Mario")
}

func TestView_PasteSearches(t *testing.T) {
	fake := newFake()
	v := search(t, New(Options{Catalog: fake}), "a")
	require.Len(t, v.Items(), 1)

	v, cmd := v.Update(tea.PasteMsg{Content: "b"})
	require.NotNil(t, cmd)
	assert.Equal(t, "ab", v.InputValue())
	assert.Equal(t, PhaseDebouncing, v.Phase())

	v, next := fire(t, v)
	require.NotNil(t, next)
	v = deliver(v, next)

	assert.Equal(t, []string{"a", "ab"}, fake.queries)
	items := v.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "Abzu", items[0].Candidate.Name)
}

func TestView_ClearBeforeDebounce(t *testing.T) {
	fake := newFake()
	v := New(Options{Catalog: fake})

	v = typeText(v, "zelda")
	stale := Debounce{Gen: v.ctrl.debounceGen, Query: "zelda"}

	v, _ = v.Update(tuitest.KeyEsc())
	assert.Empty(t, v.InputValue())

	v, cmd := v.Update(debounceMsg{debounce: stale})
	assert.Nil(t, cmd)
	assert.Empty(t, fake.queries)
	assert.Equal(t, PhaseIdle, v.Phase())
	assert.NotContains(t, tuitest.StripANSI(v.View()), "No games found")
}

func TestView_BackspaceToEmptyClearsResults(t *testing.T) {
	v := search(t, New(Options{Catalog: newFake()}), "a")
	require.Len(t, v.Items(), 1)

	v, _ = v.Update(tuitest.KeyBackspace())
	assert.Empty(t, v.InputValue())
	assert.Empty(t, v.Items())
	assert.Equal(t, PhaseIdle, v.Phase())
}

func TestView_OnlyLatestQueryRenders(t *testing.T) {
	fake := newFake()
	v := New(Options{Catalog: fake})

	v = typeText(v, "a")
	v, first := fire(t, v)

	v = typeText(v, "b")
	v, second := fire(t, v)

	// "ab" resolves before the older "a" response arrives.
	v = deliver(v, second)
	v = deliver(v, first)

	items := v.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "Abzu", items[0].Candidate.Name)
	assert.NotContains(t, tuitest.StripANSI(v.View()), "Astro Bot")
}

func TestView_SelectAndClear(t *testing.T) {
	v := New(Options{Catalog: newFake(), Platforms: true})
	v = search(t, v, "mario")

	v, cmd := v.Update(tuitest.KeyEnter())
	require.NotNil(t, v.Selection())
	assert.Equal(t, PhaseSelected, v.Phase())
	assert.False(t, v.InputFocused())
	assert.Empty(t, v.Items())
	assert.Equal(t, "1", v.Form().ID.String())
	assert.Equal(t, "a.png", v.Form().ImageURL)

	view := tuitest.StripANSI(v.View())
	assert.Contains(t, view, "Super Mario")
	assert.Contains(t, view, "✕")
	assert.Contains(t, view, "Loading platforms...")
	assert.NotContains(t, view, "Search for a game")

	v = deliver(v, cmd)
	view = tuitest.StripANSI(v.View())
	assert.Contains(t, view, "NES")
	assert.Contains(t, view, "Switch")

	v, _ = v.Update(tuitest.KeyDown())
	assert.Equal(t, "Switch", v.Form().Platform)

	v, _ = v.Update(tuitest.KeyEsc())
	assert.Nil(t, v.Selection())
	assert.True(t, v.InputFocused())
	assert.Empty(t, v.InputValue())
	assert.True(t, v.Form().Empty())
	assert.True(t, v.Idle())
}

func TestView_Submit(t *testing.T) {
	v := New(Options{Catalog: newFake(), Platforms: true})
	v = search(t, v, "mario")

	v, cmd := v.Update(tuitest.KeyEnter())

	// Platforms still loading.
	v, submit := v.Update(tuitest.KeyCtrl('s'))
	assert.Nil(t, submit)
	assert.Contains(t, tuitest.StripANSI(v.View()), "Pick a platform first")

	v = deliver(v, cmd)
	v, submit = v.Update(tuitest.KeyEnter())
	require.NotNil(t, submit)

	msgs := runCmd(submit)
	require.Len(t, msgs, 1)
	submitted, ok := msgs[0].(SubmittedMsg)
	require.True(t, ok)
	assert.Equal(t, "Super Mario", submitted.Entry.Name)
	assert.Equal(t, "NES", submitted.Entry.Platform)
	assert.Equal(t, "1", submitted.Form.Values().Get("id"))
}

func TestView_SpinnerStopsWhenIdle(t *testing.T) {
	v := New(Options{Catalog: newFake()})

	_, cmd := v.Update(v.spinner.Tick())
	assert.Nil(t, cmd, "spinner does not tick without a pending request")
}
