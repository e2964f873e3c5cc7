package views

import (
	"fmt"
	"strings"

	"homeboard/internal/domain"
)

// TileProps is what a list tile is rendered from
type TileProps struct {
	ID         int
	Student    domain.Person
	IsRollMode bool
}

// TileRenderer handles rendering of student list tiles
type TileRenderer struct {
	styles  *Styles
	showIDs bool
}

// NewTileRenderer creates a new tile renderer
func NewTileRenderer(styles *Styles, showIDs bool) *TileRenderer {
	return &TileRenderer{
		styles:  styles,
		showIDs: showIDs,
	}
}

// RenderTile renders one student row. query is highlighted in the name.
func (r *TileRenderer) RenderTile(props TileProps, query string, width int) string {
	var parts []string

	if props.IsRollMode {
		parts = append(parts, r.styles.RollMarker.Render("( )"))
	}
	if r.showIDs {
		parts = append(parts, r.styles.TileID.Render(fmt.Sprintf("#%-4d", props.ID)))
	}
	parts = append(parts, r.highlight(props.Student.FullName(), query))

	line := strings.Join(parts, " ")
	if width > 0 {
		return r.styles.Tile.MaxWidth(width).Render(line)
	}
	return r.styles.Tile.Render(line)
}

// highlight marks every case-insensitive occurrence of query in text
func (r *TileRenderer) highlight(text, query string) string {
	if query == "" {
		return text
	}
	lowerText := strings.ToLower(text)
	lowerQuery := strings.ToLower(query)
	// lowering can change byte lengths outside ASCII; skip highlighting then
	if len(lowerText) != len(text) || len(lowerQuery) != len(query) {
		return text
	}

	var b strings.Builder
	rest := 0
	for {
		i := strings.Index(lowerText[rest:], lowerQuery)
		if i < 0 {
			break
		}
		start := rest + i
		b.WriteString(text[rest:start])
		b.WriteString(r.styles.Highlight.Render(text[start : start+len(query)]))
		rest = start + len(query)
	}
	b.WriteString(text[rest:])
	return b.String()
}
