package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"homeboard/internal/domain"
	"homeboard/internal/roster"
)

// ViewState contains all the state needed for rendering
type ViewState struct {
	Width         int
	Height        int
	Phase         roster.Phase
	Students      []domain.Person
	Total         int
	RollMode      bool
	SortKey       domain.SortKey
	SortOpen      bool
	SortIndex     int
	SearchInput   string
	SearchFocused bool
	SearchPending bool
	SettledQuery  string
	Spinner       string
	Offset        int
	BodyHeight    int
	StatusMessage string
	HelpView      string
	LoadError     error
}

// Renderer handles all view rendering
type Renderer struct {
	styles        *Styles
	tileRender    *TileRenderer
	overlayRender *OverlayRenderer
}

// NewRenderer creates a new renderer
func NewRenderer(showIDs bool) *Renderer {
	styles := NewStyles()
	return &Renderer{
		styles:        styles,
		tileRender:    NewTileRenderer(styles, showIDs),
		overlayRender: NewOverlayRenderer(styles),
	}
}

// Render produces the complete view
func (r *Renderer) Render(state ViewState) string {
	content := &strings.Builder{}

	content.WriteString(r.renderTitle(state))
	content.WriteString("\n")
	content.WriteString(r.renderToolbar(state))
	content.WriteString("\n")
	if state.SortOpen {
		content.WriteString(r.renderSortSelect(state))
		content.WriteString("\n")
	}
	content.WriteString("\n")

	content.WriteString(r.renderBody(state))

	if overlay := r.overlayRender.Render(OverlayProps{IsActive: state.RollMode, Count: len(state.Students)}, state.Width); overlay != "" {
		content.WriteString("\n")
		content.WriteString(overlay)
	}

	if state.StatusMessage != "" {
		content.WriteString("\n")
		content.WriteString(r.styles.Status.Render(state.StatusMessage))
	}

	if state.HelpView != "" {
		content.WriteString("\n")
		content.WriteString(r.styles.Help.Render(state.HelpView))
	}

	return r.styles.Main.Render(content.String())
}

// renderTitle draws the app name with the list summary right-aligned
func (r *Renderer) renderTitle(state ViewState) string {
	logo := r.styles.Title.Render("homeboard")

	var right []string
	if state.Phase == roster.PhaseList || state.Phase == roster.PhaseNoMatches {
		right = append(right, r.styles.Dim.Render(fmt.Sprintf("%d/%d students", len(state.Students), state.Total)))
	}
	if state.SettledQuery != "" {
		right = append(right, r.styles.Filter.Render(fmt.Sprintf("[Search: %s]", state.SettledQuery)))
	}
	if len(right) == 0 {
		return logo
	}

	rightContent := strings.Join(right, "  ")
	termWidth := state.Width
	if termWidth <= 0 {
		termWidth = 80
	}
	padding := termWidth - 4 - lipgloss.Width(logo) - lipgloss.Width(rightContent)
	if padding < 2 {
		padding = 2
	}
	return logo + strings.Repeat(" ", padding) + rightContent
}

// renderToolbar draws the sort affordance, the search input and the roll button
func (r *Renderer) renderToolbar(state ViewState) string {
	k := r.styles.ToolbarKey.Render

	sort := fmt.Sprintf("%s Sort: %s", k("[s]"), state.SortKey.Label())

	search := state.SearchInput
	if !state.SearchFocused && search == "" {
		search = "Search"
	}
	searchPart := fmt.Sprintf("%s %s", k("[/]"), search)
	if state.SearchPending {
		searchPart += " …"
	}

	roll := fmt.Sprintf("%s %s", k("[r]"), "Start Roll")

	return r.styles.Toolbar.Render(strings.Join([]string{sort, searchPart, roll}, "   "))
}

// renderSortSelect draws the sort options, placeholder first
func (r *Renderer) renderSortSelect(state ViewState) string {
	options := make([]string, len(roster.SortOptions))
	for i, label := range roster.SortOptions {
		if i == state.SortIndex {
			options[i] = r.styles.SortSelected.Render("> " + label)
		} else {
			options[i] = r.styles.SortOption.Render("  " + label)
		}
	}
	return strings.Join(options, "  ") + "  " + r.styles.Dim.Render("[enter] apply  [esc] close")
}

// renderBody draws what the current phase calls for
func (r *Renderer) renderBody(state ViewState) string {
	switch state.Phase {
	case roster.PhaseLoading:
		return fmt.Sprintf("%s Loading students...", state.Spinner)
	case roster.PhaseFailed:
		msg := r.styles.Error.Render("Failed to load")
		if state.LoadError != nil {
			msg += "\n" + r.styles.Dim.Render(state.LoadError.Error())
		}
		return msg + "\n" + r.styles.Dim.Render("Press R to retry")
	case roster.PhaseEmpty:
		return r.styles.Dim.Render("No students on the roster")
	case roster.PhaseNoMatches:
		return r.styles.Dim.Render(fmt.Sprintf("No students match %q", state.SettledQuery))
	case roster.PhaseList:
		return r.renderList(state)
	default:
		return ""
	}
}

// renderList draws the visible window of tiles with scroll indicators
func (r *Renderer) renderList(state ViewState) string {
	students := state.Students
	height := state.BodyHeight
	if height <= 0 || height > len(students) {
		height = len(students)
	}
	start := state.Offset
	if start > len(students)-height {
		start = len(students) - height
	}
	if start < 0 {
		start = 0
	}
	end := start + height

	lines := make([]string, 0, height+2)
	if start > 0 {
		lines = append(lines, r.styles.Scroll.Render(fmt.Sprintf("↑ %d more", start)))
	}
	tileWidth := state.Width - 4
	for _, s := range students[start:end] {
		lines = append(lines, r.tileRender.RenderTile(TileProps{
			ID:         s.ID,
			Student:    s,
			IsRollMode: state.RollMode,
		}, state.SettledQuery, tileWidth))
	}
	if end < len(students) {
		lines = append(lines, r.styles.Scroll.Render(fmt.Sprintf("↓ %d more", len(students)-end)))
	}
	return strings.Join(lines, "\n")
}

// RenderPlainRoster renders the roster as plain text for the pager
func RenderPlainRoster(students []domain.Person, key domain.SortKey, query string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Home board: %d students, sorted by %s", len(students), key.Label())
	if query != "" {
		fmt.Fprintf(&b, ", matching %q", query)
	}
	b.WriteString("\n\n")
	for _, s := range students {
		fmt.Fprintf(&b, "%-6d %-20s %s\n", s.ID, s.FirstName, s.LastName)
	}
	return b.String()
}
