package chart

import "time"

// SeriesStats summarises one series over the visible window.
type SeriesStats struct {
	Count  int
	Latest float64
	Min    float64
	Max    float64
	Mean   float64
	From   time.Time
	To     time.Time
}

// Stats computes SeriesStats for series i. ok is false when the series
// does not exist or has no visible points.
func (c Chart) Stats(series int) (SeriesStats, bool) {
	if series < 0 || series >= len(c.Series) {
		return SeriesStats{}, false
	}
	field := c.Series[series].Field
	var st SeriesStats
	var sum float64
	for _, p := range c.Visible() {
		v, ok := p.Value(field)
		if !ok {
			continue
		}
		if st.Count == 0 {
			st.Min, st.Max, st.From = v, v, p.Timestamp
		}
		if v < st.Min {
			st.Min = v
		}
		if v > st.Max {
			st.Max = v
		}
		sum += v
		st.Count++
		st.Latest = v
		st.To = p.Timestamp
	}
	if st.Count == 0 {
		return SeriesStats{}, false
	}
	st.Mean = sum / float64(st.Count)
	return st, true
}
