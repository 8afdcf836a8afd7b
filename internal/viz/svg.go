package viz

import (
	"fmt"
	"strings"
)

const svgCell = 14.0

// SVG renders a result grid as a standalone SVG heatmap, one rect per cell
// with the same color ramp as the terminal view.
func SVG(grid [][]float64, title, unit string) string {
	if len(grid) == 0 || len(grid[0]) == 0 {
		return ""
	}

	rows, cols := len(grid), len(grid[0])
	width := float64(cols) * svgCell
	height := float64(rows)*svgCell + 40 // header and legend bands

	lo, hi := bounds(grid)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<text x="4" y="14" fill="#00ccff" font-family="monospace" font-size="12">%s</text>
`, width, height, width, height, title))

	for i, row := range grid {
		y := 20 + float64(i)*svgCell
		for j, v := range row {
			sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>
`, float64(j)*svgCell, y, svgCell, svgCell, rampColor(v, lo, hi)))
		}
	}

	sb.WriteString(fmt.Sprintf(`<text x="4" y="%.0f" fill="#888899" font-family="monospace" font-size="10">min %.4g %s  max %.4g %s</text>
</svg>
`, height-6, lo, unit, hi, unit))
	return sb.String()
}

func rampColor(v, lo, hi float64) string {
	t := 0.0
	if hi > lo {
		t = (v - lo) / (hi - lo)
	}
	idx := int(t * float64(len(ramp)-1))
	if idx < 0 {
		idx = 0
	}
	if idx >= len(ramp) {
		idx = len(ramp) - 1
	}
	return ramp[idx]
}
