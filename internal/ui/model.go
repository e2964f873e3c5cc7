package ui

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"homeboard/internal/config"
	"homeboard/internal/eventbus"
	"homeboard/internal/roster"
	"homeboard/internal/ui/views"
)

// focus is the part of the screen receiving keys
type focus int

const (
	focusList focus = iota
	focusSearch
	focusSort
)

// statusTTL is how long a status message stays on screen
const statusTTL = 3 * time.Second

// Model represents the UI state
type Model struct {
	ctx  context.Context
	ctrl *roster.Controller

	// UI-specific state not kept by the controller
	width     int
	height    int
	focus     focus
	sortIndex int
	offset    int
	status    string

	keys     keyMap
	help     help.Model
	spinner  spinner.Model
	search   textinput.Model
	renderer *views.Renderer
	pager    *PagerOps

	inPagerMode bool
}

// NewModel creates a new UI model driving ctrl. cfg may be nil.
func NewModel(ctx context.Context, ctrl *roster.Controller, cfg *config.Config) *Model {
	showIDs := false
	if cfg != nil {
		showIDs = cfg.UI.ShowIDs
	}

	search := textinput.New()
	search.Placeholder = "Search"
	search.Prompt = ""
	search.CharLimit = 64

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return &Model{
		ctx:      ctx,
		ctrl:     ctrl,
		keys:     defaultKeyMap(),
		help:     help.New(),
		spinner:  sp,
		search:   search,
		renderer: views.NewRenderer(showIDs),
		pager:    NewPagerOps(nil),
	}
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.pager.SetProgram(p)
}

// Init starts the roster fetch and waits for settled search text
func (m *Model) Init() tea.Cmd {
	m.ctrl.Initialize(m.ctx)
	return tea.Batch(m.spinner.Tick, waitForSettled(m.ctrl.Settled()))
}

// waitForSettled blocks until the controller's debouncer delivers search text
func waitForSettled(ch <-chan string) tea.Cmd {
	return func() tea.Msg {
		q, ok := <-ch
		if !ok {
			return nil
		}
		return searchSettledMsg{query: q}
	}
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.clampOffset()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case searchSettledMsg:
		m.ctrl.ApplySettledSearch(msg.query)
		m.offset = 0
		return m, waitForSettled(m.ctrl.Settled())

	case EventMsg:
		return m, m.handleEvent(msg.Event)

	case pagerMsg:
		if msg.err != nil {
			log.Printf("Pager failed: %v", msg.err)
			return m, m.setStatus(fmt.Sprintf("Pager unavailable: %v", msg.err))
		}
		return m, nil

	case pauseRenderingMsg:
		m.inPagerMode = true
		return m, nil

	case resumeRenderingMsg:
		m.inPagerMode = false
		return m, nil

	case clearStatusMsg:
		m.status = ""
		return m, nil
	}

	return m, nil
}

// handleEvent reacts to domain events forwarded from the bus
func (m *Model) handleEvent(event eventbus.DomainEvent) tea.Cmd {
	switch e := event.(type) {
	case eventbus.RosterLoadedEvent:
		m.clampOffset()
		return m.setStatus(fmt.Sprintf("Loaded %d students", e.Count))
	case eventbus.RosterLoadFailedEvent:
		m.clampOffset()
		return m.setStatus(fmt.Sprintf("Failed to load: %v", e.Err))
	case eventbus.SortChangedEvent:
		m.offset = 0
		return m.setStatus("Sorted by " + e.NewKey.Label())
	}
	return nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, m.quit()
	}

	switch m.focus {
	case focusSearch:
		return m.handleSearchKey(msg)
	case focusSort:
		return m.handleSortKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, m.quit()

	case key.Matches(msg, m.keys.Sort):
		m.openSort()
		return m, nil

	case key.Matches(msg, m.keys.Search):
		m.focus = focusSearch
		return m, m.search.Focus()

	case key.Matches(msg, m.keys.Roll):
		m.toolbar(roster.ActionRoll, "")
		return m, nil

	case key.Matches(msg, m.keys.Exit):
		if m.ctrl.RollMode() {
			if err := m.ctrl.HandleOverlayAction(roster.ActionExit); err != nil {
				log.Printf("Overlay action failed: %v", err)
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.Refetch):
		m.ctrl.Refetch(m.ctx)
		return m, m.spinner.Tick

	case key.Matches(msg, m.keys.Pager):
		return m, m.openPager()

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.clampOffset()
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.scroll(-1)
	case key.Matches(msg, m.keys.Down):
		m.scroll(1)
	case key.Matches(msg, m.keys.PageUp):
		m.scroll(-m.bodyHeight())
	case key.Matches(msg, m.keys.PageDown):
		m.scroll(m.bodyHeight())
	}

	return m, nil
}

func (m *Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyEsc, key.Matches(msg, m.keys.Apply):
		m.focus = focusList
		m.search.Blur()
		return m, nil
	case key.Matches(msg, m.keys.Clear):
		m.search.SetValue("")
		m.toolbar(roster.ActionSearch, "")
		return m, nil
	}

	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if after := m.search.Value(); after != before {
		m.toolbar(roster.ActionSearch, after)
	}
	return m, cmd
}

func (m *Model) handleSortKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "s":
		m.focus = focusList
	case "left", "h", "up", "k", "shift+tab":
		if m.sortIndex > 0 {
			m.sortIndex--
		}
	case "right", "l", "down", "j", "tab":
		if m.sortIndex < len(roster.SortOptions)-1 {
			m.sortIndex++
		}
	case "enter":
		m.toolbar(roster.ActionSort, roster.SortOptions[m.sortIndex])
		m.focus = focusList
	}
	return m, nil
}

// openSort shows the sort select with the active key highlighted
func (m *Model) openSort() {
	m.focus = focusSort
	m.sortIndex = 0
	for i, label := range roster.SortOptions {
		if label == m.ctrl.SortKey().Label() {
			m.sortIndex = i
			break
		}
	}
}

func (m *Model) toolbar(action roster.ToolbarAction, value string) {
	if err := m.ctrl.HandleToolbarAction(action, value); err != nil {
		log.Printf("Toolbar action failed: %v", err)
	}
}

func (m *Model) openPager() tea.Cmd {
	content := views.RenderPlainRoster(m.ctrl.DisplayList(), m.ctrl.SortKey(), m.ctrl.SettledSearch())
	program := m.pager.program
	return func() tea.Msg {
		if program == nil {
			return pagerMsg{err: fmt.Errorf("program not set")}
		}
		program.Send(pauseRenderingMsg{})
		err := m.pager.Show(content)
		program.Send(resumeRenderingMsg{})
		return pagerMsg{err: err}
	}
}

func (m *Model) quit() tea.Cmd {
	m.ctrl.Close()
	return tea.Quit
}

func (m *Model) setStatus(status string) tea.Cmd {
	m.status = status
	return tea.Tick(statusTTL, func(time.Time) tea.Msg { return clearStatusMsg{} })
}

func (m *Model) scroll(delta int) {
	m.offset += delta
	m.clampOffset()
}

// clampOffset keeps the first visible row inside the list
func (m *Model) clampOffset() {
	maxOffset := len(m.ctrl.DisplayList()) - m.bodyHeight()
	if m.offset > maxOffset {
		m.offset = maxOffset
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

// bodyHeight is the number of rows left for tiles
func (m *Model) bodyHeight() int {
	if m.height == 0 {
		return 20
	}
	reserved := 6 // padding, title, toolbar, gap, help
	if m.focus == focusSort {
		reserved++
	}
	if m.ctrl.RollMode() {
		reserved += 3
	}
	if m.status != "" {
		reserved++
	}
	if m.help.ShowAll {
		reserved += 4
	}
	if h := m.height - reserved - 2; h > 1 {
		return h
	}
	return 1
}

// View renders the UI
func (m *Model) View() string {
	if m.inPagerMode {
		return ""
	}

	students := m.ctrl.DisplayList()
	return m.renderer.Render(views.ViewState{
		Width:         m.width,
		Height:        m.height,
		Phase:         m.ctrl.Phase(),
		Students:      students,
		Total:         m.ctrl.TotalStudents(),
		RollMode:      m.ctrl.RollMode(),
		SortKey:       m.ctrl.SortKey(),
		SortOpen:      m.focus == focusSort,
		SortIndex:     m.sortIndex,
		SearchInput:   m.search.View(),
		SearchFocused: m.focus == focusSearch,
		SearchPending: m.ctrl.SearchPending(),
		SettledQuery:  m.ctrl.SettledSearch(),
		Spinner:       m.spinner.View(),
		Offset:        m.offset,
		BodyHeight:    m.bodyHeight(),
		StatusMessage: m.status,
		HelpView:      m.help.View(m.keys),
		LoadError:     m.ctrl.LoadErr(),
	})
}
