package formatting

import (
	"strconv"
	"strings"
)

// FormatPercent renders a 0–100 progress value with no trailing zeros,
// clamping out-of-range input.
func FormatPercent(p float64) string {
	p = min(max(p, 0), 100)
	s := strconv.FormatFloat(p, 'f', 1, 64)
	return strings.TrimSuffix(s, ".0") + "%"
}

// ProgressBar renders p as a fixed-width bar of the given width.
func ProgressBar(p float64, width int) string {
	if width <= 0 {
		return ""
	}
	p = min(max(p, 0), 100)
	filled := int(p / 100 * float64(width))
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", width-filled) + "]"
}
