// Package viz renders sweep result grids as terminal heatmaps.
package viz

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gonum.org/v1/gonum/stat"
)

// thermal color ramp, cold to hot.
var ramp = []string{
	"#0d0887", "#41049d", "#6a00a8", "#8f0da4", "#b12a90",
	"#cc4778", "#e16462", "#f2844b", "#fca636", "#fcce25", "#f0f921",
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ccff"))
	legendStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888899"))
)

// Heatmap renders a 2D grid with a color ramp spanning its value range.
// Row 0 is drawn at the top, matching the grid's presentation order.
func Heatmap(grid [][]float64, title, unit string) string {
	if len(grid) == 0 || len(grid[0]) == 0 {
		return titleStyle.Render(title) + "\n(empty grid)\n"
	}

	lo, hi := bounds(grid)

	var b strings.Builder
	b.WriteString(titleStyle.Render(title))
	b.WriteByte('\n')

	for _, row := range grid {
		for _, v := range row {
			b.WriteString(cell(v, lo, hi))
		}
		b.WriteByte('\n')
	}

	b.WriteString(legendStyle.Render(
		fmt.Sprintf("min %.4g %s  max %.4g %s  mean %.4g %s",
			lo, unit, hi, unit, Mean(grid), unit)))
	b.WriteByte('\n')
	return b.String()
}

func cell(v, lo, hi float64) string {
	return lipgloss.NewStyle().Background(lipgloss.Color(rampColor(v, lo, hi))).Render("  ")
}

func bounds(grid [][]float64) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, row := range grid {
		for _, v := range row {
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
	}
	return lo, hi
}

// Mean is the arithmetic mean over all grid cells.
func Mean(grid [][]float64) float64 {
	flat := make([]float64, 0, len(grid)*len(grid[0]))
	for _, row := range grid {
		flat = append(flat, row...)
	}
	return stat.Mean(flat, nil)
}
