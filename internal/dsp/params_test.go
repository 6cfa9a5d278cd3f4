package dsp

import "testing"

func TestHopLength(t *testing.T) {
	tests := []struct {
		name    string
		p       Params
		wantHop int
	}{
		{"no overlap", Params{WindowLength: 1024, OverlapPercent: 0}, 1024},
		{"75% overlap", Params{WindowLength: 2048, OverlapPercent: 75}, 512},
		{"100% overlap floors to min 1", Params{WindowLength: 1024, OverlapPercent: 100}, 1},
		{"25% overlap exact", Params{WindowLength: 100, OverlapPercent: 25}, 75},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.HopLength(); got != tt.wantHop {
				t.Errorf("HopLength() = %d, want %d", got, tt.wantHop)
			}
		})
	}
}

func TestNumBins(t *testing.T) {
	p := Params{WindowLength: 2048, ZeroPadFactor: 1}
	if got := p.NumBins(); got != 1025 {
		t.Errorf("NumBins() = %d, want 1025", got)
	}
	p.ZeroPadFactor = 2
	if got := p.NumBins(); got != 2049 {
		t.Errorf("NumBins() with zero-pad factor 2 = %d, want 2049", got)
	}
}

func TestNumSegments(t *testing.T) {
	p := Params{WindowLength: 1024, OverlapPercent: 50}
	if got := p.NumSegments(500); got != 0 {
		t.Errorf("NumSegments(500) = %d, want 0 (shorter than window)", got)
	}
	if got := p.NumSegments(1024); got != 1 {
		t.Errorf("NumSegments(1024) = %d, want 1", got)
	}
	// hop = 512; (2048-1024)/512 + 1 = 3
	if got := p.NumSegments(2048); got != 3 {
		t.Errorf("NumSegments(2048) = %d, want 3", got)
	}
}

func TestClampRange(t *testing.T) {
	p := Params{StartSample: -5, StopSample: 50}
	start, stop := p.ClampRange(20)
	if start != 0 || stop != 20 {
		t.Errorf("ClampRange() = (%d, %d), want (0, 20)", start, stop)
	}

	p = Params{StartSample: 10, StopSample: 5}
	start, stop = p.ClampRange(20)
	if start != 10 || stop != 10 {
		t.Errorf("ClampRange() with stop < start = (%d, %d), want (10, 10)", start, stop)
	}
}
