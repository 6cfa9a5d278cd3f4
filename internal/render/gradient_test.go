package render

import "testing"

func TestEvalGradientEmptyIsBlack(t *testing.T) {
	r, g, b := EvalGradient(nil, 0.5)
	if r != 0 || g != 0 || b != 0 {
		t.Errorf("EvalGradient(nil, 0.5) = (%v,%v,%v), want (0,0,0)", r, g, b)
	}
}

func TestEvalGradientClampsBeforeFirstAndAfterLast(t *testing.T) {
	stops := []GradientStop{
		{Position: 0.2, R: 1, G: 0, B: 0},
		{Position: 0.8, R: 0, G: 1, B: 0},
	}
	r, g, b := EvalGradient(stops, 0.0)
	if r != 1 || g != 0 || b != 0 {
		t.Errorf("before first stop: (%v,%v,%v), want (1,0,0)", r, g, b)
	}
	r, g, b = EvalGradient(stops, 1.0)
	if r != 0 || g != 1 || b != 0 {
		t.Errorf("after last stop: (%v,%v,%v), want (0,1,0)", r, g, b)
	}
}

func TestEvalGradientInterpolatesMidpoint(t *testing.T) {
	stops := []GradientStop{
		{Position: 0.0, R: 0, G: 0, B: 0},
		{Position: 1.0, R: 1, G: 1, B: 1},
	}
	r, g, b := EvalGradient(stops, 0.5)
	if r < 0.49 || r > 0.51 || g < 0.49 || g > 0.51 || b < 0.49 || b > 0.51 {
		t.Errorf("midpoint = (%v,%v,%v), want ~(0.5,0.5,0.5)", r, g, b)
	}
}

func TestNewCustomGradientConvertsHSVToRGB(t *testing.T) {
	stops, err := NewCustomGradient(DefaultCustomGradientHSV)
	if err != nil {
		t.Fatalf("NewCustomGradient: %v", err)
	}
	if len(stops) != len(DefaultCustomGradientHSV) {
		t.Fatalf("len(stops) = %d, want %d", len(stops), len(DefaultCustomGradientHSV))
	}
	// The last stop is pure red (H=0, S=1, V=1) -> RGB (1,0,0).
	last := stops[len(stops)-1]
	if last.R < 0.99 || last.G > 0.01 || last.B > 0.01 {
		t.Errorf("last stop = (%v,%v,%v), want ~(1,0,0)", last.R, last.G, last.B)
	}
	for _, s := range stops {
		if s.R < 0 || s.R > 1 || s.G < 0 || s.G > 1 || s.B < 0 || s.B > 1 {
			t.Errorf("stop %+v has an out-of-range channel", s)
		}
	}
}
