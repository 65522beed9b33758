package dashboard

import (
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/tonhe/solmon/internal/chart"
	"github.com/tonhe/solmon/internal/source"
)

// Layout lists the charts the dashboard keeps. It is loaded from TOML so
// charts can be added or re-bound without a rebuild.
type Layout struct {
	Charts []ChartDef `toml:"charts"`
}

// ChartDef is one chart: which time series feeds it and how its fields map
// onto axes.
type ChartDef struct {
	ID     string      `toml:"id"`
	Title  string      `toml:"title"`
	Source string      `toml:"source"`
	Axes   []AxisDef   `toml:"axes"`
	Series []SeriesDef `toml:"series"`
}

// AxisDef is a value axis. Min/Max pin the scale when set.
type AxisDef struct {
	Name string   `toml:"name"`
	Unit string   `toml:"unit"`
	Min  *float64 `toml:"min,omitempty"`
	Max  *float64 `toml:"max,omitempty"`
}

// SeriesDef binds a sample field to an axis.
type SeriesDef struct {
	Name  string `toml:"name"`
	Field string `toml:"field"`
	Axis  string `toml:"axis"`
}

func bound(v float64) *float64 { return &v }

// DefaultLayout is the climate, system and rack chart set.
func DefaultLayout() *Layout {
	return &Layout{Charts: []ChartDef{
		{
			ID:     "climate",
			Title:  "Temperature & Humidity",
			Source: source.SeriesDHT22,
			Axes: []AxisDef{
				{Name: "temperature", Unit: "°C"},
				{Name: "humidity", Unit: "%", Min: bound(0), Max: bound(100)},
			},
			Series: []SeriesDef{
				{Name: "Temperature", Field: "temperature", Axis: "temperature"},
				{Name: "Humidity", Field: "humidity", Axis: "humidity"},
			},
		},
		{
			ID:     "system",
			Title:  "System Resources",
			Source: source.SeriesSystem,
			Axes: []AxisDef{
				{Name: "percent", Unit: "%", Min: bound(0), Max: bound(100)},
			},
			Series: []SeriesDef{
				{Name: "CPU", Field: "cpu_usage_percent", Axis: "percent"},
				{Name: "RAM", Field: "ram_usage_percent", Axis: "percent"},
			},
		},
		{
			ID:     "rack",
			Title:  "Rack Climate",
			Source: source.SeriesRack,
			Axes: []AxisDef{
				{Name: "temperature", Unit: "°C"},
				{Name: "humidity", Unit: "%", Min: bound(0), Max: bound(100)},
			},
			Series: []SeriesDef{
				{Name: "Temperature", Field: "temperature", Axis: "temperature"},
				{Name: "Humidity", Field: "humidity", Axis: "humidity"},
			},
		},
	}}
}

// LoadLayout reads a layout file. A missing file yields DefaultLayout.
func LoadLayout(path string) (*Layout, error) {
	var l Layout
	if _, err := toml.DecodeFile(path, &l); err != nil {
		if os.IsNotExist(err) {
			return DefaultLayout(), nil
		}
		return nil, err
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return &l, nil
}

// SaveLayout writes l to path as TOML.
func SaveLayout(l *Layout, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	return writeLayout(f, l)
}

// writeLayout encodes l into w and closes it, reporting the close error
// when encoding succeeded.
func writeLayout(w io.WriteCloser, l *Layout) error {
	if err := toml.NewEncoder(w).Encode(l); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

// Validate checks that IDs are unique, sources are known and every series
// is bound to a declared axis.
func (l *Layout) Validate() error {
	if len(l.Charts) == 0 {
		return fmt.Errorf("layout defines no charts")
	}
	seen := make(map[string]bool)
	for _, c := range l.Charts {
		if c.ID == "" {
			return fmt.Errorf("chart with title %q has no id", c.Title)
		}
		if seen[c.ID] {
			return fmt.Errorf("duplicate chart id %q", c.ID)
		}
		seen[c.ID] = true
		switch c.Source {
		case source.SeriesDHT22, source.SeriesSystem, source.SeriesRack:
		default:
			return fmt.Errorf("chart %q: unknown source %q", c.ID, c.Source)
		}
		if len(c.Series) == 0 {
			return fmt.Errorf("chart %q has no series", c.ID)
		}
		axes := make(map[string]bool, len(c.Axes))
		for _, a := range c.Axes {
			axes[a.Name] = true
		}
		for _, sd := range c.Series {
			if !axes[sd.Axis] {
				return fmt.Errorf("chart %q: series %q references unknown axis %q", c.ID, sd.Name, sd.Axis)
			}
		}
	}
	return nil
}

// Sources returns the distinct series kinds the layout needs, in order.
func (l *Layout) Sources() []string {
	var out []string
	seen := make(map[string]bool)
	for _, c := range l.Charts {
		if !seen[c.Source] {
			seen[c.Source] = true
			out = append(out, c.Source)
		}
	}
	return out
}

// Apply defines every chart of the layout on m.
func (l *Layout) Apply(m *chart.Manager) error {
	for _, c := range l.Charts {
		axes := make([]chart.Axis, 0, len(c.Axes))
		for _, a := range c.Axes {
			axes = append(axes, chart.Axis{Name: a.Name, Unit: a.Unit, Min: a.Min, Max: a.Max})
		}
		specs := make([]chart.SeriesSpec, 0, len(c.Series))
		for _, s := range c.Series {
			specs = append(specs, chart.SeriesSpec{Name: s.Name, Field: s.Field, Axis: s.Axis})
		}
		if err := m.DefineSeries(c.ID, c.Title, axes, specs); err != nil {
			return err
		}
	}
	return nil
}
