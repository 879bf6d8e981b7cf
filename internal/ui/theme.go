package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme bundles palette + symbols + box borders.
// All UI helpers pull from `current`.
type Theme struct {
	Name                                          string
	Title, Muted, Accent, Success, Error, Pending lipgloss.TerminalColor
	Border                                        lipgloss.Border
	BorderColor                                   lipgloss.TerminalColor
	BoxUnchecked, BoxChecked                      string
	SymDone, SymPending, SymFail, SymDue          string
	BarFull, BarEmpty                             string
}

var current = classic()

func classic() Theme {
	return Theme{
		Name:  "classic",
		Title: lipgloss.NoColor{}, Muted: lipgloss.Color("8"), Accent: lipgloss.Color("12"),
		Success: lipgloss.Color("42"), Error: lipgloss.Color("9"), Pending: lipgloss.Color("214"),
		Border: lipgloss.NormalBorder(), BorderColor: lipgloss.Color("8"),
		BoxUnchecked: "☐", BoxChecked: "☑",
		SymDone: "✔", SymPending: "•", SymFail: "✖", SymDue: "⏰",
		BarFull: "█", BarEmpty: "░",
	}
}

// SetTheme switches the palette. Unknown names fall back to classic.
func SetTheme(name string) {
	switch strings.ToLower(name) {
	case "neon":
		current = Theme{
			Name:  "neon",
			Title: lipgloss.Color("13"), Muted: lipgloss.Color("8"), Accent: lipgloss.Color("14"),
			Success: lipgloss.Color("10"), Error: lipgloss.Color("9"), Pending: lipgloss.Color("11"),
			Border: lipgloss.RoundedBorder(), BorderColor: lipgloss.Color("13"),
			BoxUnchecked: "◻", BoxChecked: "◼",
			SymDone: "✔", SymPending: "•", SymFail: "✖", SymDue: "⏰",
			BarFull: "█", BarEmpty: "░",
		}
	case "mono":
		none := lipgloss.NoColor{}
		current = Theme{
			Name:  "mono",
			Title: none, Muted: none, Accent: none, Success: none, Error: none, Pending: none,
			Border: lipgloss.ASCIIBorder(), BorderColor: none,
			BoxUnchecked: "[ ]", BoxChecked: "[x]",
			SymDone: "x", SymPending: "-", SymFail: "!", SymDue: "due",
			BarFull: "#", BarEmpty: ".",
		}
	default:
		current = classic()
	}
	rebuildStyles()
}

// Current exposes the active theme to renderers.
func Current() Theme { return current }
