package ui

import (
	"fmt"
	"strings"
)

// ProgressBar renders a bar with percentage, e.g. "█████░░░░░  50%".
// pct is clamped to 0..100.
func ProgressBar(pct float64, width int) string {
	if width < 5 {
		width = 5
	}
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	filled := int(pct / 100 * float64(width))
	if filled > width {
		filled = width
	}
	bar := strings.Repeat(current.BarFull, filled) + strings.Repeat(current.BarEmpty, width-filled)
	return fmt.Sprintf("%s %3d%%", bar, int(pct))
}

// Panel frames lines in the theme's box.
func Panel(lines []string) string {
	return BoxStyle.Render(strings.Join(lines, "\n"))
}
