package cli

import "testing"

func TestFormatErrorRate(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "0.0%"},
		{0.01, "1.0%"},
		{0.042, "4.2%"},
		{0.4, "40.0%"},
		{1, "100.0%"},
	}
	for _, tc := range cases {
		if got := FormatErrorRate(tc.in); got != tc.want {
			t.Errorf("FormatErrorRate(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatLatency(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "0 ms"},
		{850, "850 ms"},
		{1400, "1400 ms"},
		{12500, "12.5s"},
	}
	for _, tc := range cases {
		if got := FormatLatency(tc.in); got != tc.want {
			t.Errorf("FormatLatency(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatCost(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0.0421, "$0.0421"},
		{2.5, "$2.50"},
		{150, "$150"},
	}
	for _, tc := range cases {
		if got := FormatCost(tc.in); got != tc.want {
			t.Errorf("FormatCost(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatNumber(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-4200, "-4,200"},
	}
	for _, tc := range cases {
		if got := FormatNumber(tc.in); got != tc.want {
			t.Errorf("FormatNumber(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestRenderSparklineEmpty(t *testing.T) {
	if got := RenderSparkline(nil); got != "" {
		t.Errorf("RenderSparkline(nil) = %q, want empty", got)
	}
}

func TestRenderHorizontalBarClamped(t *testing.T) {
	if got := RenderHorizontalBar(200, 100, 10); len([]rune(got)) != 10 {
		t.Errorf("bar overflow: %q", got)
	}
	if got := RenderHorizontalBar(0, 100, 10); got != "" {
		t.Errorf("zero value bar = %q, want empty", got)
	}
}
