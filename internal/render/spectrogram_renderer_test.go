package render

import (
	"testing"

	"github.com/jonnystokes/spectroforge/internal/spectrogram"
)

func testSpectrogram() *spectrogram.Spectrogram {
	freqs := []float64{0, 100, 200, 300, 400}
	frames := []spectrogram.Frame{
		{TimeSeconds: 0.0, Frequencies: freqs, Magnitudes: []float64{0.1, 0.9, 0.2, 0.0, 0.1}, Phases: make([]float64, 5)},
		{TimeSeconds: 0.1, Frequencies: freqs, Magnitudes: []float64{0.2, 0.3, 0.9, 0.1, 0.0}, Phases: make([]float64, 5)},
	}
	return spectrogram.New(frames)
}

func testRenderParams(width, height int) RenderParams {
	return RenderParams{
		View:         DefaultViewState(),
		ProcTimeMin:  0,
		ProcTimeMax:  1,
		Width:        width,
		Height:       height,
		ReconFreqMin: 0,
		ReconFreqMax: 400,
		ReconFreqCount: 5,
	}
}

func TestRenderEmptySpectrogramYieldsZeroedBuffer(t *testing.T) {
	r := NewSpectrogramRenderer(DefaultColorLut())
	buf := r.Render(spectrogram.New(nil), testRenderParams(4, 4))
	if len(buf) != 4*4*3 {
		t.Fatalf("len(buf) = %d, want %d", len(buf), 4*4*3)
	}
	for _, b := range buf {
		if b != 0 {
			t.Fatalf("expected all-zero buffer for empty spectrogram, got %v", buf)
		}
	}
}

func TestRenderCachesOnUnchangedParams(t *testing.T) {
	r := NewSpectrogramRenderer(DefaultColorLut())
	spec := testSpectrogram()
	p := testRenderParams(8, 8)
	buf1 := r.Render(spec, p)
	buf2 := r.Render(spec, p)
	if &buf1[0] != &buf2[0] {
		t.Error("Render with identical params should return the cached buffer, got a new allocation")
	}
}

func TestRenderInvalidatesOnParamChange(t *testing.T) {
	r := NewSpectrogramRenderer(DefaultColorLut())
	spec := testSpectrogram()
	p := testRenderParams(8, 8)
	r.Render(spec, p)

	p2 := p
	p2.View.ThresholdDB -= 10
	buf2 := r.Render(spec, p2)
	if buf2 == nil {
		t.Fatal("Render after param change returned nil")
	}
	if r.lastHash == viewHash(p) {
		t.Error("hash did not change after altering ThresholdDB")
	}
}

func TestViewHashDiffersOnCustomGradient(t *testing.T) {
	p1 := testRenderParams(4, 4)
	p2 := p1
	p2.View.CustomGradient = []GradientStop{{Position: 0.5, R: 1, G: 0, B: 0}}
	if viewHash(p1) == viewHash(p2) {
		t.Error("viewHash should differ when custom gradient stops differ")
	}
}

func TestNearestBin(t *testing.T) {
	freqs := []float64{0, 100, 200, 300}
	if got := nearestBin(freqs, 90); got != 1 {
		t.Errorf("nearestBin(90) = %d, want 1", got)
	}
	if got := nearestBin(freqs, 0); got != 0 {
		t.Errorf("nearestBin(0) = %d, want 0", got)
	}
	if got := nearestBin(freqs, 1000); got != 3 {
		t.Errorf("nearestBin(1000) = %d, want 3", got)
	}
}
