package components

import "testing"

func TestSparkline(t *testing.T) {
	data := []float64{0, 25, 50, 75, 100, 50, 25, 0}
	result := Sparkline(data, 8)
	if len([]rune(result)) != 8 {
		t.Errorf("expected 8 chars, got %d", len([]rune(result)))
	}
}

func TestSparklineEmpty(t *testing.T) {
	result := Sparkline(nil, 8)
	if result != "        " {
		t.Errorf("expected 8 spaces for empty data, got %q", result)
	}
}

func TestSparklineSingleValue(t *testing.T) {
	result := Sparkline([]float64{50}, 4)
	if len([]rune(result)) != 4 {
		t.Errorf("expected 4 chars, got %d", len([]rune(result)))
	}
}

func TestFormatLatency(t *testing.T) {
	tests := []struct {
		sec      float64
		expected string
	}{
		{0, "0ms"},
		{0.042, "42ms"},
		{1.5, "1.5s"},
		{59.94, "59.9s"},
		{125, "2m05s"},
	}
	for _, tt := range tests {
		got := FormatLatency(tt.sec)
		if got != tt.expected {
			t.Errorf("FormatLatency(%f) = %q, want %q", tt.sec, got, tt.expected)
		}
	}
}

func TestSparklineScalesToExtent(t *testing.T) {
	got := []rune(Sparkline([]float64{1, 2, 3}, 5))
	if got[0] != ' ' || got[1] != ' ' {
		t.Errorf("expected two leading spaces, got %q", string(got))
	}
	if got[2] != '▁' || got[4] != '█' {
		t.Errorf("expected lowest and highest blocks at the ends, got %q", string(got))
	}
}

func TestSparklineKeepsNewest(t *testing.T) {
	got := []rune(Sparkline([]float64{100, 0, 1}, 2))
	if len(got) != 2 || got[0] != '▁' || got[1] != '█' {
		t.Errorf("expected only the newest two values, got %q", string(got))
	}
}
