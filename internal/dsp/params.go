package dsp

import "math"

// Params is the analysis contract for one STFT pass: everything needed to
// derive hop length, bin count, frame count, and padded FFT size from a
// window length and overlap.
type Params struct {
	WindowLength   int // power of two, >= 64, <= 65536
	OverlapPercent float64 // in [0, 95]
	WindowType     WindowType
	KaiserBeta     float64
	UseCenter      bool // zero-pad window_length/2 samples at each end before framing
	SampleRate     uint32
	ZeroPadFactor  int // positive integer; n_fft_padded = window_length * zero_pad_factor

	StartSample int
	StopSample  int
}

// HopLength returns max(1, floor(window_length * (1 - overlap/100))).
func (p Params) HopLength() int {
	ratio := p.OverlapPercent / 100
	hop := int(math.Floor(float64(p.WindowLength) * (1 - ratio)))
	if hop < 1 {
		hop = 1
	}
	return hop
}

// NFFTPadded returns window_length * max(1, zero_pad_factor).
func (p Params) NFFTPadded() int {
	zpf := p.ZeroPadFactor
	if zpf < 1 {
		zpf = 1
	}
	return p.WindowLength * zpf
}

// NumBins returns n_fft_padded/2 + 1.
func (p Params) NumBins() int {
	return p.NFFTPadded()/2 + 1
}

// FrequencyResolution returns sample_rate / n_fft_padded.
func (p Params) FrequencyResolution() float64 {
	n := p.NFFTPadded()
	if n == 0 {
		return 0
	}
	return float64(p.SampleRate) / float64(n)
}

// NumSegments returns the number of analysis frames that fit within total
// samples, accounting for the use_center pre/post padding of window_length
// samples total (window_length/2 on each side).
func (p Params) NumSegments(total int) int {
	if total < p.WindowLength {
		return 0
	}
	padded := total
	if p.UseCenter {
		padded += p.WindowLength
	}
	hop := p.HopLength()
	return (padded-p.WindowLength)/hop + 1
}

// Window generates the analysis/synthesis window described by p.
func (p Params) Window() []float64 {
	return Window(p.WindowLength, p.WindowType, p.KaiserBeta)
}

// ClampRange clips StartSample/StopSample into [0, total] with Stop >= Start,
// returning the clipped pair without mutating p.
func (p Params) ClampRange(total int) (start, stop int) {
	start = p.StartSample
	stop = p.StopSample
	if start < 0 {
		start = 0
	}
	if start > total {
		start = total
	}
	if stop < start {
		stop = start
	}
	if stop > total {
		stop = total
	}
	return start, stop
}
