package views

import (
	"fmt"
)

// OverlayProps is what the active roll overlay is rendered from
type OverlayProps struct {
	IsActive bool
	Count    int
}

// OverlayRenderer draws the active roll bar shown below the roster
type OverlayRenderer struct {
	styles *Styles
}

// NewOverlayRenderer creates a new overlay renderer
func NewOverlayRenderer(styles *Styles) *OverlayRenderer {
	return &OverlayRenderer{
		styles: styles,
	}
}

// Render returns the overlay, or "" when no roll is active
func (r *OverlayRenderer) Render(props OverlayProps, width int) string {
	if !props.IsActive {
		return ""
	}

	content := fmt.Sprintf("%s  %s  %s",
		r.styles.OverlayTitle.Render("Roll in progress"),
		r.styles.Status.Render(fmt.Sprintf("%d students", props.Count)),
		r.styles.Dim.Render("[esc] Exit"),
	)

	style := r.styles.Overlay
	if width > 4 {
		style = style.Width(width - 2)
	}
	return style.Render(content)
}
