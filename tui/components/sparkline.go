package components

import (
	"fmt"
	"math"
	"slices"
	"strings"
)

var sparkBlocks = []rune("▁▂▃▄▅▆▇█")

// Sparkline draws the newest width values as block characters, right
// aligned. The scale runs from the smallest shown value to the largest; a
// flat series sits at mid height.
func Sparkline(data []float64, width int) string {
	if width <= 0 {
		return ""
	}
	if len(data) == 0 {
		return strings.Repeat(" ", width)
	}
	if len(data) > width {
		data = data[len(data)-width:]
	}
	lo, hi := slices.Min(data), slices.Max(data)
	top := len(sparkBlocks) - 1

	out := []rune(strings.Repeat(" ", width-len(data)))
	for _, v := range data {
		level := top / 2
		if hi > lo {
			level = int(math.Round((v - lo) / (hi - lo) * float64(top)))
		}
		out = append(out, sparkBlocks[level])
	}
	return string(out)
}

// FormatLatency renders a duration given in seconds.
func FormatLatency(sec float64) string {
	switch {
	case sec <= 0:
		return "0ms"
	case sec < 1:
		return fmt.Sprintf("%.0fms", sec*1000)
	case sec < 60:
		return fmt.Sprintf("%.1fs", sec)
	default:
		s := int(sec)
		return fmt.Sprintf("%dm%02ds", s/60, s%60)
	}
}
