package render

import "math"

// FreqScaleKind selects the frequency-axis mapping. Power blends Linear
// and Log geometrically, with Power==0 behaving as Linear and Power==1
// as Log.
type FreqScaleKind int

const (
	FreqLinear FreqScaleKind = iota
	FreqLog
	FreqPower
)

// FreqScale pairs a FreqScaleKind with its blend factor (only meaningful
// for FreqPower).
type FreqScale struct {
	Kind  FreqScaleKind
	Power float64
}

// ViewState is the UI-owned viewport and display configuration driving
// both renderers' coordinate mappings.
type ViewState struct {
	FreqMinHz float64
	FreqMaxHz float64
	FreqScale FreqScale

	TimeMinSec float64
	TimeMaxSec float64

	ThresholdDB float64
	DBCeiling   float64
	Brightness  float64
	Gamma       float64
	Colormap    ColormapID
	CustomGradient []GradientStop

	ReconFreqCount   int
	ReconFreqMinHz   float64
	ReconFreqMaxHz   float64

	DataFreqMaxHz  float64
	DataTimeMinSec float64
	DataTimeMaxSec float64
	MaxFreqBins    int
}

// DefaultViewState matches the reference application's startup defaults.
func DefaultViewState() ViewState {
	return ViewState{
		FreqMinHz:      100,
		FreqMaxHz:      2000,
		FreqScale:      FreqScale{Kind: FreqPower, Power: 0.5},
		ThresholdDB:    -87,
		DBCeiling:      0,
		Brightness:     1,
		Gamma:          2.2,
		Colormap:       Classic,
		ReconFreqCount: 4097,
		ReconFreqMinHz: 0,
		ReconFreqMaxHz: 5000,
		DataFreqMaxHz:  5000,
		MaxFreqBins:    4097,
	}
}

// YToFreq maps a normalized viewport coordinate t (0=bottom, 1=top) to a
// frequency in Hz, per the scale's forward mapping.
func (v ViewState) YToFreq(t float64) float64 {
	min := math.Max(v.FreqMinHz, 1.0)
	max := math.Max(v.FreqMaxHz, min+1.0)

	switch v.FreqScale.Kind {
	case FreqLinear:
		return min + (max-min)*t
	case FreqLog:
		return min * math.Pow(max/min, t)
	default:
		p := clamp01(v.FreqScale.Power)
		switch {
		case p <= 0.001:
			return min + (max-min)*t
		case p >= 0.999:
			return min * math.Pow(max/min, t)
		default:
			linearFreq := min + (max-min)*t
			logFreq := min * math.Pow(max/min, t)
			return math.Pow(linearFreq, 1-p) * math.Pow(logFreq, p)
		}
	}
}

// FreqToY is the inverse of YToFreq: closed-form for Linear/Log, a
// 32-iteration bisection for Power since the blended forward mapping has
// no closed-form inverse.
func (v ViewState) FreqToY(freqHz float64) float64 {
	min := math.Max(v.FreqMinHz, 1.0)
	max := math.Max(v.FreqMaxHz, min+1.0)
	if freqHz <= min {
		return 0
	}
	if freqHz >= max {
		return 1
	}

	switch v.FreqScale.Kind {
	case FreqLinear:
		return clamp01((freqHz - min) / (max - min))
	case FreqLog:
		return clamp01(math.Log(freqHz/min) / math.Log(max/min))
	default:
		p := clamp01(v.FreqScale.Power)
		switch {
		case p <= 0.001:
			return clamp01((freqHz - min) / (max - min))
		case p >= 0.999:
			return clamp01(math.Log(freqHz/min) / math.Log(max/min))
		default:
			lo, hi := 0.0, 1.0
			for i := 0; i < 32; i++ {
				mid := (lo + hi) / 2
				linearF := min + (max-min)*mid
				logF := min * math.Pow(max/min, mid)
				f := math.Pow(linearF, 1-p) * math.Pow(logF, p)
				if f < freqHz {
					lo = mid
				} else {
					hi = mid
				}
			}
			return clamp01((lo + hi) / 2)
		}
	}
}

// XToTime maps a normalized viewport coordinate t (0..1) to seconds.
func (v ViewState) XToTime(t float64) float64 {
	return v.TimeMinSec + (v.TimeMaxSec-v.TimeMinSec)*t
}

// TimeToX is the inverse of XToTime.
func (v ViewState) TimeToX(timeSec float64) float64 {
	rng := v.TimeMaxSec - v.TimeMinSec
	if rng <= 0 {
		return 0
	}
	return clamp01((timeSec - v.TimeMinSec) / rng)
}

// ResetZoom restores the frequency and time viewport to the full data
// bounds.
func (v *ViewState) ResetZoom() {
	v.FreqMinHz = 0
	v.FreqMaxHz = v.DataFreqMaxHz
	v.TimeMinSec = v.DataTimeMinSec
	v.TimeMaxSec = v.DataTimeMaxSec
}

// VisibleTimeRange returns the currently visible time span in seconds.
func (v ViewState) VisibleTimeRange() float64 { return v.TimeMaxSec - v.TimeMinSec }

// VisibleFreqRange returns the currently visible frequency span in Hz.
func (v ViewState) VisibleFreqRange() float64 { return v.FreqMaxHz - v.FreqMinHz }
