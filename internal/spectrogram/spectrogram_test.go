package spectrogram

import (
	"math"
	"testing"
)

func makeFrames() []Frame {
	freqs := []float64{0, 100, 200, 300}
	return []Frame{
		{TimeSeconds: 0.0, Frequencies: freqs, Magnitudes: []float64{0.1, 0.5, 0.2, 0.0}, Phases: []float64{0, 0, 0, 0}},
		{TimeSeconds: 0.5, Frequencies: freqs, Magnitudes: []float64{0.2, 0.9, 0.3, 0.1}, Phases: []float64{0, 0, 0, 0}},
		{TimeSeconds: 1.0, Frequencies: freqs, Magnitudes: []float64{0.0, 0.1, 0.1, 0.1}, Phases: []float64{0, 0, 0, 0}},
	}
}

func TestNewEmptySpectrogram(t *testing.T) {
	s := New(nil)
	if s.NumFrames() != 0 {
		t.Errorf("NumFrames() = %d, want 0", s.NumFrames())
	}
	if s.NumBins() != 0 {
		t.Errorf("NumBins() = %d, want 0", s.NumBins())
	}
	if s.MaxMagnitude() != 0 {
		t.Errorf("MaxMagnitude() = %v, want 0", s.MaxMagnitude())
	}
	if _, ok := s.FrameAtTime(0.5); ok {
		t.Error("FrameAtTime on empty spectrogram should return ok=false")
	}
}

func TestSpectrogramBounds(t *testing.T) {
	s := New(makeFrames())
	if s.NumFrames() != 3 {
		t.Errorf("NumFrames() = %d, want 3", s.NumFrames())
	}
	if s.NumBins() != 4 {
		t.Errorf("NumBins() = %d, want 4", s.NumBins())
	}
	if s.MinTime() != 0.0 {
		t.Errorf("MinTime() = %v, want 0.0", s.MinTime())
	}
	if s.MaxTime() != 1.0 {
		t.Errorf("MaxTime() = %v, want 1.0", s.MaxTime())
	}
	if s.MaxMagnitude() != 0.9 {
		t.Errorf("MaxMagnitude() = %v, want 0.9", s.MaxMagnitude())
	}
}

func TestFrameAtTime(t *testing.T) {
	s := New(makeFrames())
	tests := []struct {
		t    float64
		want int
	}{
		{-1.0, 0},
		{0.0, 0},
		{0.25, 1},
		{0.5, 1},
		{0.9, 2},
		{1.0, 2},
		{5.0, 2},
	}
	for _, tt := range tests {
		idx, ok := s.FrameAtTime(tt.t)
		if !ok {
			t.Fatalf("FrameAtTime(%v): ok = false", tt.t)
		}
		if idx != tt.want {
			t.Errorf("FrameAtTime(%v) = %d, want %d", tt.t, idx, tt.want)
		}
	}
}

func TestBinAtFreq(t *testing.T) {
	s := New(makeFrames())
	tests := []struct {
		f    float64
		want int
	}{
		{-10, 0},
		{0, 0},
		{50, 1},
		{100, 1},
		{300, 3},
		{1000, 3},
	}
	for _, tt := range tests {
		idx, ok := s.BinAtFreq(tt.f)
		if !ok {
			t.Fatalf("BinAtFreq(%v): ok = false", tt.f)
		}
		if idx != tt.want {
			t.Errorf("BinAtFreq(%v) = %d, want %d", tt.f, idx, tt.want)
		}
	}
}

func TestMagnitudeToDB(t *testing.T) {
	want := 20 * math.Log10(1e-10)
	if got := MagnitudeToDB(0); math.Abs(got-want) > 1e-9 {
		t.Errorf("MagnitudeToDB(0) = %v, want %v (floored at 1e-10)", got, want)
	}
	if got := MagnitudeToDB(1.0); math.Abs(got-0) > 1e-9 {
		t.Errorf("MagnitudeToDB(1.0) = %v, want 0", got)
	}
	if got := MagnitudeToDB(1e-15); math.IsInf(got, -1) || math.IsNaN(got) {
		t.Errorf("MagnitudeToDB(1e-15) = %v, should be floored, not -Inf/NaN", got)
	}
}
