package render

// Terminal styling of rendered log records. A Painter maps rendering roles
// (parts of a record: the message, the level name, JSON syntax pieces) to
// lipgloss styles. The color schemes imitate the tools whose output users
// already know.

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// styler builds styles detached from stdout detection. Whether to colorize
// at all is the renderer's decision, so the profile is pinned to ANSI
// rather than sniffed from the environment.
var styler = func() *lipgloss.Renderer {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(termenv.ANSI)
	return r
}()

func fg(color string) lipgloss.Style {
	return styler.NewStyle().Foreground(lipgloss.Color(color))
}

// Painter styles one role of a rendered record. Roles without a style pass
// text through untouched.
type Painter struct {
	styles map[string]lipgloss.Style
}

// Paint returns s styled for the given role.
func (p *Painter) Paint(role, s string) string {
	if style, ok := p.styles[role]; ok {
		return style.Render(s)
	}
	return s
}

// NoColorPainter passes all text through unstyled.
var NoColorPainter = &Painter{}

// DefaultPainter is the stock color scheme.
var DefaultPainter = &Painter{styles: map[string]lipgloss.Style{
	"message":       fg("6"),
	"extraField":    styler.NewStyle().Bold(true),
	"jsonObjectKey": fg("12"),
	"jsonString":    fg("2"),
	"jsonNumber":    fg("12"),
	"jsonTrue":      fg("2").Italic(true),
	"jsonFalse":     fg("1").Italic(true),
	"jsonNull":      fg("0").Italic(true).Bold(true),
	"ellipsis":      styler.NewStyle().Faint(true),
	"trace":         fg("8"),
	"debug":         fg("12"),
	"info":          fg("2"),
	"warn":          fg("3"),
	"error":         fg("1"),
	"fatal":         styler.NewStyle().Background(lipgloss.Color("1")),
}}

// BunyanPainter styles output the way `bunyan` does.
var BunyanPainter = &Painter{styles: map[string]lipgloss.Style{
	"message": fg("6"),
	"trace":   fg("7"),
	"debug":   fg("3"),
	"info":    fg("6"),
	"warn":    fg("5"),
	"error":   fg("1"),
	"fatal":   styler.NewStyle().Reverse(true),
}}

// PinoPrettyPainter styles output the way `pino-pretty` does.
var PinoPrettyPainter = &Painter{styles: map[string]lipgloss.Style{
	"message": fg("6"),
	"trace":   fg("8"),
	"debug":   fg("4"),
	"info":    fg("2"),
	"warn":    fg("3"),
	"error":   fg("1"),
	"fatal":   styler.NewStyle().Background(lipgloss.Color("1")),
}}

var painterFromName = map[string]*Painter{
	"default":     DefaultPainter,
	"bunyan":      BunyanPainter,
	"pino-pretty": PinoPrettyPainter,
}

// PainterFromName returns the named color scheme.
func PainterFromName(name string) (*Painter, error) {
	painter, ok := painterFromName[name]
	if !ok {
		known := make([]string, 0, len(painterFromName))
		for n := range painterFromName {
			known = append(known, n)
		}
		sort.Strings(known)
		return nil, fmt.Errorf("unknown color scheme %q (known schemes: %s)",
			name, strings.Join(known, ", "))
	}
	return painter, nil
}
