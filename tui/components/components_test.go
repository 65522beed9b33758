package components

import (
	"strings"
	"testing"
	"time"

	"github.com/tonhe/solmon/internal/chart"
	"github.com/tonhe/solmon/internal/dashboard"
	"github.com/tonhe/solmon/internal/render"
	"github.com/tonhe/solmon/internal/telemetry"
	"github.com/tonhe/solmon/tui/styles"
)

func testStyles() *styles.Styles {
	return styles.NewStyles(styles.DefaultTheme)
}

func TestRenderPanelShowsTitleBadgeAndLines(t *testing.T) {
	p := render.PanelViewState{
		Title:     "Environment",
		Badge:     render.BadgeSuccess,
		BadgeText: render.TextOnline,
		Lines: []render.Line{
			{Label: "Temperature", Value: "22.5", Unit: "°C"},
		},
	}
	out := RenderPanel(testStyles(), p, 40)
	for _, want := range []string{"Environment", "Online", "Temperature", "22.5°C"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected panel to contain %q, got:\n%s", want, out)
		}
	}
}

func TestRenderPanelNoData(t *testing.T) {
	out := RenderPanel(testStyles(), render.NoData("Rack"), 30)
	if !strings.Contains(out, render.NoDataLine) {
		t.Errorf("expected %q in panel, got:\n%s", render.NoDataLine, out)
	}
}

func TestRenderFlowOnlyDrawsArrowWithData(t *testing.T) {
	sty := testStyles()
	empty := RenderFlow(sty, render.PowerFlow(nil, render.DefaultPolicy()), 40)
	if strings.Contains(empty, "Solar ") && strings.Contains(empty, "▶") {
		t.Errorf("expected no flow arrow without data, got:\n%s", empty)
	}

	solar, ac := 100.0, 80.0
	pf := &telemetry.PowerFlow{
		SolarInput: telemetry.FlowEndpoint{PowerW: &solar},
		ACOutput:   telemetry.FlowEndpoint{PowerW: &ac},
	}
	out := RenderFlow(sty, render.PowerFlow(pf, render.DefaultPolicy()), 40)
	if !strings.Contains(out, "▶") {
		t.Errorf("expected flow arrow, got:\n%s", out)
	}
	if !strings.Contains(out, "80%") {
		t.Errorf("expected efficiency 80%%, got:\n%s", out)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exactly", 7, "exactly"},
		{"a longer string", 8, "a lon..."},
		{"abc", 2, "ab"},
		{"abc", 0, ""},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.max); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}

func TestResample(t *testing.T) {
	data := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	got := Resample(data, 4)
	want := []float64{2, 4, 6, 8}
	if len(got) != len(want) {
		t.Fatalf("expected %d values, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d: expected %v, got %v", i, want[i], got[i])
		}
	}
	if short := Resample(data[:3], 10); len(short) != 3 {
		t.Errorf("expected short data unchanged, got %v", short)
	}
}

func newTestChart(t *testing.T, pinned bool) chart.Chart {
	t.Helper()
	m := chart.NewManager(100)
	axes := []chart.Axis{{Name: "temp", Unit: "°C"}, {Name: "hum", Unit: "%"}}
	if pinned {
		lo, hi := 0.0, 100.0
		axes[1].Min, axes[1].Max = &lo, &hi
	}
	specs := []chart.SeriesSpec{
		{Name: "Temperature", Field: "temperature", Axis: "temp"},
		{Name: "Humidity", Field: "humidity", Axis: "hum"},
	}
	if err := m.DefineSeries("climate", "Climate", axes, specs); err != nil {
		t.Fatalf("DefineSeries failed: %v", err)
	}
	base := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)
	var pts []telemetry.Point
	for i := 0; i < 20; i++ {
		pts = append(pts, telemetry.Point{
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			Fields: map[string]float64{
				"temperature": 20 + float64(i%5),
				"humidity":    40 + float64(i),
			},
		})
	}
	if err := m.ReplaceData("climate", pts); err != nil {
		t.Fatalf("ReplaceData failed: %v", err)
	}
	if err := m.Redraw("climate", false); err != nil {
		t.Fatalf("Redraw failed: %v", err)
	}
	c, _ := m.Chart("climate")
	return c
}

func TestAxisRange(t *testing.T) {
	c := newTestChart(t, false)
	lo, hi := AxisRange(c, "temp")
	if lo != 0 || hi != 24 {
		t.Errorf("expected temp range 0..24, got %v..%v", lo, hi)
	}

	pinned := newTestChart(t, true)
	lo, hi = AxisRange(pinned, "hum")
	if lo != 0 || hi != 100 {
		t.Errorf("expected pinned range 0..100, got %v..%v", lo, hi)
	}
}

func TestAxisRangeWithoutData(t *testing.T) {
	m := chart.NewManager(10)
	_ = m.DefineSeries("x", "X", []chart.Axis{{Name: "a"}}, []chart.SeriesSpec{{Name: "A", Field: "a", Axis: "a"}})
	c, _ := m.Chart("x")
	lo, hi := AxisRange(c, "a")
	if hi <= lo {
		t.Errorf("expected a non-empty range, got %v..%v", lo, hi)
	}
}

func TestRenderChartHasLegendAndTimeAxis(t *testing.T) {
	c := newTestChart(t, false)
	out := RenderChart(testStyles(), c, 60, 14, true)
	for _, want := range []string{"Climate", "Temperature (°C)", "Humidity (%)", "10:00", "10:19"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected chart to contain %q, got:\n%s", want, out)
		}
	}
	if lines := strings.Count(out, "\n") + 1; lines != 14 {
		t.Errorf("expected 14 lines, got %d", lines)
	}
}

func TestRenderChartEmpty(t *testing.T) {
	m := chart.NewManager(10)
	_ = m.DefineSeries("x", "Empty", []chart.Axis{{Name: "a"}}, []chart.SeriesSpec{{Name: "A", Field: "a", Axis: "a"}})
	c, _ := m.Chart("x")
	out := RenderChart(testStyles(), c, 40, 10, false)
	if !strings.Contains(out, render.NoDataLine) {
		t.Errorf("expected empty chart to say %q, got:\n%s", render.NoDataLine, out)
	}
}

func TestRenderToasts(t *testing.T) {
	sty := testStyles()
	if got := RenderToasts(sty, nil, 80); got != "" {
		t.Errorf("expected nothing for no notifications, got %q", got)
	}
	notes := []dashboard.Notification{
		{Kind: dashboard.NotifyError, Message: "first"},
		{Kind: dashboard.NotifyInfo, Message: "second"},
		{Kind: dashboard.NotifySuccess, Message: "third"},
		{Kind: dashboard.NotifyError, Message: "fourth"},
	}
	out := RenderToasts(sty, notes, 90)
	if strings.Contains(out, "first") {
		t.Error("expected the oldest notification to be dropped")
	}
	if !strings.Contains(out, "fourth") {
		t.Errorf("expected newest notification, got:\n%s", out)
	}
}

func TestRenderBanner(t *testing.T) {
	notes := []dashboard.Notification{
		{Kind: dashboard.NotifyInfo, Message: "older"},
		{Kind: dashboard.NotifyError, Message: "Connection lost"},
	}
	out := RenderBanner(styles.DefaultTheme, notes, 80)
	if !strings.Contains(out, "Connection lost") || !strings.Contains(out, "+1 more") {
		t.Errorf("unexpected banner: %q", out)
	}
}

func TestCycleCountsOnlyShowTroubleWhenPresent(t *testing.T) {
	tests := []struct {
		counts CycleCounts
		want   string
	}{
		{CycleCounts{Applied: 3}, "3 cycles"},
		{CycleCounts{Applied: 3, Failed: 1}, "3 cycles, 1 failed"},
		{CycleCounts{Applied: 3, Coalesced: 2}, "3 cycles, 2 coalesced"},
		{CycleCounts{Applied: 0, Failed: 1, Coalesced: 4}, "0 cycles, 1 failed, 4 coalesced"},
	}
	for _, tt := range tests {
		if got := tt.counts.String(); got != tt.want {
			t.Errorf("expected %q, got %q", tt.want, got)
		}
	}
}

func TestStatusBarShowsCycleCounts(t *testing.T) {
	out := RenderStatusBar(styles.DefaultTheme, 15*time.Second, time.Time{}, CycleCounts{Applied: 2, Coalesced: 5}, nil, 160)
	if !strings.Contains(out, "2 cycles, 5 coalesced") {
		t.Errorf("expected cycle counts in status bar, got:\n%s", out)
	}
	if !strings.Contains(out, "updated: never") {
		t.Errorf("expected 'updated: never' before the first refresh, got:\n%s", out)
	}
}
