package output

import "github.com/charmbracelet/lipgloss"

var (
	colorIris  = lipgloss.Color("#5D3FD3")
	colorSlate = lipgloss.Color("#667085")
	colorWhite = lipgloss.Color("#FFFFFF")
	colorGreen = lipgloss.Color("42")
	colorRed   = lipgloss.Color("196")
)

type styles struct {
	title   lipgloss.Style
	label   lipgloss.Style
	key     lipgloss.Style
	muted   lipgloss.Style
	started lipgloss.Style
	ok      lipgloss.Style
	failed  lipgloss.Style
	cached  lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		title: r.NewStyle().
			Bold(true).
			Padding(0, 1).
			Background(colorIris).
			Foreground(colorWhite),
		label: r.NewStyle().
			Foreground(colorSlate).
			Width(labelWidth),
		key: r.NewStyle().
			Foreground(colorIris).
			Bold(true),
		muted: r.NewStyle().
			Foreground(colorSlate),
		started: r.NewStyle().
			Foreground(colorIris),
		ok: r.NewStyle().
			Foreground(colorGreen),
		failed: r.NewStyle().
			Foreground(colorRed),
		cached: r.NewStyle().
			Foreground(colorSlate).
			Faint(true),
	}
}
