package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/tonhe/solmon/internal/chart"
	"github.com/tonhe/solmon/internal/render"
	"github.com/tonhe/solmon/tui/styles"
)

// chartBlocks are block characters from empty to full, used for rendering
// the chart area. Index 0 is empty (space), index 8 is full block.
var chartBlocks = []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// chartMarker plots every series after the first.
const chartMarker = '•'

// labelWidth is the width of each Y-axis label column.
const labelWidth = 8

// cell is one character of the plot area. series is -1 for empty cells.
type cell struct {
	r      rune
	series int
}

// RenderChart draws c in a bordered box of the given outer size. The first
// series is drawn as filled blocks against the left axis; further series
// are plotted as markers. A second axis, when present, is labelled on the
// right.
func RenderChart(sty *styles.Styles, c chart.Chart, width, height int, focused bool) string {
	if width < 24 {
		width = 24
	}
	if height < 7 {
		height = 7
	}
	innerW := width - 4
	innerH := height - 2

	border := sty.PanelBorder
	if focused {
		border = sty.PanelBorderFocus
	}

	var lines []string
	lines = append(lines, chartTitle(sty, c, innerW))
	lines = append(lines, chartLegend(sty, c, innerW))

	plotH := innerH - 3 // title, legend, time axis
	if plotH < 2 {
		plotH = 2
	}

	rightAxis, hasRight := secondAxis(c)
	plotW := innerW - labelWidth
	if hasRight {
		plotW -= labelWidth
	}
	if plotW < 4 {
		plotW = 4
	}

	pts := c.Visible()
	if len(pts) == 0 {
		empty := sty.PanelDim.Render(centerText(render.NoDataLine, innerW))
		for i := 0; i < plotH+1; i++ {
			if i == plotH/2 {
				lines = append(lines, empty)
				continue
			}
			lines = append(lines, "")
		}
		return border.Width(width - 2).Render(strings.Join(lines, "\n"))
	}

	grid := make([][]cell, plotH)
	for row := range grid {
		grid[row] = make([]cell, plotW)
		for col := range grid[row] {
			grid[row][col] = cell{r: ' ', series: -1}
		}
	}

	ranges := make(map[string][2]float64, len(c.Axes))
	for _, a := range c.Axes {
		lo, hi := AxisRange(c, a.Name)
		ranges[a.Name] = [2]float64{lo, hi}
	}

	for i := range c.Series {
		axis, _ := c.AxisFor(i)
		rng := ranges[axis.Name]
		data := Resample(c.Values(i), plotW)
		offset := plotW - len(data)
		for j, v := range data {
			col := offset + j
			if i == 0 {
				fillColumn(grid, col, v, rng[0], rng[1], i)
				continue
			}
			row := markerRow(v, rng[0], rng[1], plotH)
			grid[row][col] = cell{r: chartMarker, series: i}
		}
	}

	leftAxis, _ := c.AxisFor(0)
	left := ranges[leftAxis.Name]
	right := ranges[rightAxis.Name]
	for row := plotH - 1; row >= 0; row-- {
		var b strings.Builder
		b.WriteString(sty.ChartAxis.Render(axisLabel(left[0], left[1], row, plotH, true)))
		for _, cl := range grid[row] {
			if cl.series < 0 {
				b.WriteRune(' ')
				continue
			}
			b.WriteString(sty.SeriesStyle(cl.series).Render(string(cl.r)))
		}
		if hasRight {
			b.WriteString(sty.ChartAxis.Render(axisLabel(right[0], right[1], row, plotH, false)))
		}
		lines = append(lines, b.String())
	}

	first := pts[0].Timestamp.Format("15:04")
	last := pts[len(pts)-1].Timestamp.Format("15:04")
	gap := plotW - len(first) - len(last)
	if gap < 1 {
		gap = 1
	}
	lines = append(lines, sty.ChartAxis.Render(strings.Repeat(" ", labelWidth)+first+strings.Repeat(" ", gap)+last))

	return border.Width(width - 2).Render(strings.Join(lines, "\n"))
}

// fillColumn draws v as a filled bar in column col.
func fillColumn(grid [][]cell, col int, v, minVal, maxVal float64, series int) {
	h := len(grid)
	spread := maxVal - minVal
	for row := 0; row < h; row++ {
		// grid row 0 is the top of the plot
		level := h - 1 - row
		cellBottom := minVal + spread*float64(level)/float64(h)
		cellTop := minVal + spread*float64(level+1)/float64(h)

		var r rune
		switch {
		case v <= cellBottom:
			continue
		case v >= cellTop:
			r = chartBlocks[8]
		default:
			fraction := (v - cellBottom) / (cellTop - cellBottom)
			idx := int(math.Round(fraction * 8))
			if idx <= 0 {
				continue
			}
			if idx > 8 {
				idx = 8
			}
			r = chartBlocks[idx]
		}
		grid[row][col] = cell{r: r, series: series}
	}
}

// markerRow maps v to a grid row, 0 being the top.
func markerRow(v, minVal, maxVal float64, h int) int {
	level := int((v - minVal) / (maxVal - minVal) * float64(h))
	if level >= h {
		level = h - 1
	}
	if level < 0 {
		level = 0
	}
	return h - 1 - level
}

// AxisRange returns the scale of an axis: pinned bounds where set, else the
// extent of every visible series on that axis. The range is never empty.
func AxisRange(c chart.Chart, axis string) (float64, float64) {
	var a chart.Axis
	for _, ax := range c.Axes {
		if ax.Name == axis {
			a = ax
		}
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for i, s := range c.Series {
		if s.Axis != axis {
			continue
		}
		for _, v := range c.Values(i) {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	if math.IsInf(lo, 1) {
		lo, hi = 0, 1
	}
	// Start at zero if all values are positive
	if lo > 0 {
		lo = 0
	}
	if a.Min != nil {
		lo = *a.Min
	}
	if a.Max != nil {
		hi = *a.Max
	}
	if hi <= lo {
		hi = lo + 1
	}
	return lo, hi
}

// Resample fits data into width columns, keeping the newest value of each
// bucket. Shorter data is returned unchanged.
func Resample(data []float64, width int) []float64 {
	n := len(data)
	if n <= width || width <= 0 {
		return data
	}
	out := make([]float64, width)
	for i := range out {
		out[i] = data[(i+1)*n/width-1]
	}
	return out
}

func secondAxis(c chart.Chart) (chart.Axis, bool) {
	first, ok := c.AxisFor(0)
	if !ok {
		return chart.Axis{}, false
	}
	for i := range c.Series {
		if a, ok := c.AxisFor(i); ok && a.Name != first.Name {
			return a, true
		}
	}
	return chart.Axis{}, false
}

func axisLabel(lo, hi float64, row, h int, left bool) string {
	top := lo + (hi-lo)*float64(row+1)/float64(h)
	text := FormatAxisValue(top)
	if left {
		return fmt.Sprintf("%7s ", text)
	}
	return fmt.Sprintf(" %-7s", text)
}

// FormatAxisValue renders an axis tick compactly.
func FormatAxisValue(v float64) string {
	switch {
	case math.Abs(v) >= 10000:
		return fmt.Sprintf("%.0fk", v/1000)
	case math.Abs(v) >= 100:
		return fmt.Sprintf("%.0f", v)
	default:
		return fmt.Sprintf("%.1f", v)
	}
}

func chartTitle(sty *styles.Styles, c chart.Chart, width int) string {
	title := c.Title
	if c.View.Zoom > 0 || c.View.Offset > 0 {
		title += fmt.Sprintf("  [zoom %dx, -%d]", 1<<c.View.Zoom, c.View.Offset)
	}
	return sty.PanelTitle.Render(centerText(title, width))
}

func chartLegend(sty *styles.Styles, c chart.Chart, width int) string {
	parts := make([]string, 0, len(c.Series))
	for i, s := range c.Series {
		name := s.Name
		if a, ok := c.AxisFor(i); ok && a.Unit != "" {
			name += " (" + a.Unit + ")"
		}
		parts = append(parts, sty.SeriesStyle(i).Render("■")+" "+sty.PanelLabel.Render(name))
	}
	legend := strings.Join(parts, "  ")
	if w := lipgloss.Width(legend); w < width {
		legend = strings.Repeat(" ", (width-w)/2) + legend
	}
	return legend
}

// centerText centers s within the given width, padding with spaces.
func centerText(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return truncate(s, width)
	}
	pad := (width - w) / 2
	return strings.Repeat(" ", pad) + s + strings.Repeat(" ", width-w-pad)
}
