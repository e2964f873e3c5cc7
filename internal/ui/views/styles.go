package views

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all the style definitions for the UI
type Styles struct {
	Title        lipgloss.Style
	Toolbar      lipgloss.Style
	ToolbarKey   lipgloss.Style
	RollButton   lipgloss.Style
	Dim          lipgloss.Style
	Status       lipgloss.Style
	Filter       lipgloss.Style
	Pending      lipgloss.Style
	Main         lipgloss.Style
	Scroll       lipgloss.Style
	Tile         lipgloss.Style
	TileID       lipgloss.Style
	RollMarker   lipgloss.Style
	Highlight    lipgloss.Style
	SortOption   lipgloss.Style
	SortSelected lipgloss.Style
	Overlay      lipgloss.Style
	OverlayTitle lipgloss.Style
	Error        lipgloss.Style
	Help         lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")),
		Toolbar: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color("25")).
			Padding(0, 1),
		ToolbarKey: lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Background(lipgloss.Color("25")),
		RollButton: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("25")).
			Background(lipgloss.Color("255")).
			Padding(0, 1),
		Dim:          lipgloss.NewStyle().Faint(true),
		Status:       lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Filter:       lipgloss.NewStyle().Foreground(lipgloss.Color("214")), // yellow
		Pending:      lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),
		Main:         lipgloss.NewStyle().Padding(1, 2),
		Scroll:       lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),
		Tile:         lipgloss.NewStyle().PaddingLeft(1),
		TileID:       lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		RollMarker:   lipgloss.NewStyle().Foreground(lipgloss.Color("78")), // green
		Highlight:    lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		SortOption:   lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		SortSelected: lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Background(lipgloss.Color("238")).Bold(true),
		Overlay: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("78")).
			Padding(0, 2),
		OverlayTitle: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("78")),
		Error:        lipgloss.NewStyle().Foreground(lipgloss.Color("203")), // red
		Help:         lipgloss.NewStyle().Faint(true),
	}
}
