package fftengine

import (
	"math"
	"testing"

	"github.com/jonnystokes/spectroforge/internal/audio"
	"github.com/jonnystokes/spectroforge/internal/dsp"
)

func sineWave(freq float64, sampleRate int, seconds float64, amplitude float64) audio.Data {
	n := int(float64(sampleRate) * seconds)
	samples := make([]float32, n)
	for i := range samples {
		t := float64(i) / float64(sampleRate)
		samples[i] = float32(amplitude * math.Sin(2*math.Pi*freq*t))
	}
	return audio.Data{Samples: samples, SampleRate: uint32(sampleRate)}
}

func baseParams() dsp.Params {
	return dsp.Params{
		WindowLength:   2048,
		OverlapPercent: 75,
		WindowType:     dsp.WindowHann,
		UseCenter:      false,
		SampleRate:     48000,
		ZeroPadFactor:  1,
		StopSample:     48000, // one second at SampleRate; ClampRange clips it to shorter inputs
	}
}

func TestProcessBinCountAndFrequencies(t *testing.T) {
	data := sineWave(440, 48000, 1.0, 1.0)
	params := baseParams()
	spec := Engine{}.Process(data, params)

	wantBins := params.NumBins()
	if spec.NumBins() != wantBins {
		t.Fatalf("NumBins() = %d, want %d", spec.NumBins(), wantBins)
	}

	freqRes := params.FrequencyResolution()
	frame := spec.Frame(0)
	for i, f := range frame.Frequencies {
		want := float64(i) * freqRes
		if math.Abs(f-want) > 1e-6 {
			t.Errorf("Frequencies[%d] = %v, want %v", i, f, want)
		}
	}
}

func TestProcessMagnitudesFiniteAndNonNegative(t *testing.T) {
	data := sineWave(440, 48000, 1.0, 1.0)
	spec := Engine{}.Process(data, baseParams())
	for fi := 0; fi < spec.NumFrames(); fi++ {
		frame := spec.Frame(fi)
		for i, m := range frame.Magnitudes {
			if math.IsNaN(m) || math.IsInf(m, 0) {
				t.Fatalf("frame %d bin %d: magnitude not finite: %v", fi, i, m)
			}
			if m < 0 {
				t.Errorf("frame %d bin %d: magnitude = %v, want >= 0", fi, i, m)
			}
		}
	}
}

func TestProcessSineProducesPeakNearFrequency(t *testing.T) {
	data := sineWave(440, 48000, 1.0, 1.0)
	params := baseParams()
	spec := Engine{}.Process(data, params)

	mid := spec.NumFrames() / 2
	frame := spec.Frame(mid)
	peakBin := 0
	peakMag := 0.0
	for i, m := range frame.Magnitudes {
		if m > peakMag {
			peakMag = m
			peakBin = i
		}
	}
	peakFreq := frame.Frequencies[peakBin]
	if math.Abs(peakFreq-440) > params.FrequencyResolution()*1.5 {
		t.Errorf("peak bin frequency = %v, want close to 440 Hz (resolution %v)", peakFreq, params.FrequencyResolution())
	}
}

func TestProcessSilenceProducesZeroMagnitudes(t *testing.T) {
	data := audio.Data{Samples: make([]float32, 48000/2), SampleRate: 48000}
	spec := Engine{}.Process(data, baseParams())
	for fi := 0; fi < spec.NumFrames(); fi++ {
		frame := spec.Frame(fi)
		for i, m := range frame.Magnitudes {
			if m != 0 {
				t.Fatalf("frame %d bin %d: magnitude = %v, want 0 for silence", fi, i, m)
			}
		}
	}
}

func TestProcessShortInputYieldsEmptySpectrogram(t *testing.T) {
	data := audio.Data{Samples: make([]float32, 10), SampleRate: 48000}
	spec := Engine{}.Process(data, baseParams())
	if spec.NumFrames() != 0 {
		t.Errorf("NumFrames() = %d, want 0 for input shorter than window", spec.NumFrames())
	}
}

func TestProcessZeroPadFactorChangesBinCount(t *testing.T) {
	data := sineWave(440, 48000, 1.0, 1.0)
	params := baseParams()
	params.ZeroPadFactor = 2
	spec := Engine{}.Process(data, params)
	if want := 2048*2/2 + 1; spec.NumBins() != want {
		t.Errorf("NumBins() with zero-pad 2 = %d, want %d", spec.NumBins(), want)
	}
}
