package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// HealthStatus represents the player's health state and its corresponding color.
type HealthStatus struct {
	Description string
	Color       string
}

// GetHealthStatus returns a HealthStatus for hp measured against the starting HP.
func GetHealthStatus(hp, startHP int) HealthStatus {
	if startHP <= 0 {
		startHP = 1
	}
	pct := hp * 100 / startHP
	switch {
	case hp <= 0:
		return HealthStatus{"Deceased", "#75715e"} // Gray
	case pct >= 80:
		return HealthStatus{"Healthy", "#a6e22e"} // Lime Green
	case pct >= 50:
		return HealthStatus{"Injured", "#e6db74"} // Yellow
	case pct >= 20:
		return HealthStatus{"Wounded", "#fd971f"} // Orange
	default:
		return HealthStatus{"Critical", "#f92672"} // Pink/Red
	}
}

// htmlWriter keeps the first write error so components can write freely and check once.
type htmlWriter struct {
	w   io.Writer
	err error
}

// raw writes trusted markup.
func (h *htmlWriter) raw(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

// text writes escaped user or model content.
func (h *htmlWriter) text(s string) {
	h.raw(templ.EscapeString(s))
}

// component renders c in place.
func (h *htmlWriter) component(ctx context.Context, c templ.Component) {
	if h.err != nil {
		return
	}
	h.err = c.Render(ctx, h.w)
}
