// Package spectrogram holds the frame-indexed analysis result produced by
// the FFT engine: an ordered sequence of frames sharing one frequency axis,
// plus the lookups the renderer and reconstructor need against it.
package spectrogram

import (
	"math"
	"sort"
)

// Frame is one analysis window's worth of spectral data. Frequencies is
// shared by reference across every Frame in a Spectrogram — it never
// varies within one spectrogram, since it is a pure function of
// sample_rate and n_fft_padded.
type Frame struct {
	TimeSeconds float64
	Frequencies []float64
	Magnitudes  []float64
	Phases      []float64
}

// NumBins returns len(Frequencies), the frame's bin count K.
func (f Frame) NumBins() int { return len(f.Frequencies) }

// Spectrogram is an immutable, ordered sequence of Frames plus cached
// bounds. Once built it is never mutated; callers share it by pointer.
type Spectrogram struct {
	frames    []Frame
	maxMag    float64
	minTime   float64
	maxTime   float64
}

// New builds a Spectrogram from frames already in ascending time order.
// It computes and caches max_magnitude/min_time/max_time once.
func New(frames []Frame) *Spectrogram {
	s := &Spectrogram{frames: frames}
	if len(frames) == 0 {
		return s
	}
	s.minTime = frames[0].TimeSeconds
	s.maxTime = frames[len(frames)-1].TimeSeconds
	maxMag := 0.0
	for _, fr := range frames {
		for _, m := range fr.Magnitudes {
			if m > maxMag {
				maxMag = m
			}
		}
	}
	s.maxMag = maxMag
	return s
}

// NumFrames returns the number of frames.
func (s *Spectrogram) NumFrames() int { return len(s.frames) }

// NumBins returns the bin count shared by every frame, or 0 if empty.
func (s *Spectrogram) NumBins() int {
	if len(s.frames) == 0 {
		return 0
	}
	return s.frames[0].NumBins()
}

// MaxMagnitude returns the largest magnitude seen across every frame and
// bin, or 0 for an empty spectrogram.
func (s *Spectrogram) MaxMagnitude() float64 { return s.maxMag }

// MinTime returns the first frame's time_seconds, or 0 if empty.
func (s *Spectrogram) MinTime() float64 { return s.minTime }

// MaxTime returns the last frame's time_seconds, or 0 if empty.
func (s *Spectrogram) MaxTime() float64 { return s.maxTime }

// Frame returns the frame at index i. Callers must keep i in range;
// FrameAtTime and BinAtFreq below already return clamped indices.
func (s *Spectrogram) Frame(i int) Frame { return s.frames[i] }

// FrameAtTime performs a binary search by time_seconds, returning the
// nearest index whose time is not less than t, clamped to [0, len-1].
// The second return value is false only when the spectrogram is empty.
func (s *Spectrogram) FrameAtTime(t float64) (int, bool) {
	if len(s.frames) == 0 {
		return 0, false
	}
	idx := sort.Search(len(s.frames), func(i int) bool {
		return s.frames[i].TimeSeconds >= t
	})
	if idx >= len(s.frames) {
		idx = len(s.frames) - 1
	}
	return idx, true
}

// BinAtFreq returns the first bin index whose frequency is >= f, or the
// last bin when f exceeds the maximum frequency. It fails (returns false)
// only when the spectrogram is empty, whatever f is.
func (s *Spectrogram) BinAtFreq(f float64) (int, bool) {
	if len(s.frames) == 0 || s.frames[0].NumBins() == 0 {
		return 0, false
	}
	freqs := s.frames[0].Frequencies
	idx := sort.Search(len(freqs), func(i int) bool {
		return freqs[i] >= f
	})
	if idx >= len(freqs) {
		if f > freqs[len(freqs)-1] {
			return len(freqs) - 1, true
		}
		idx = len(freqs) - 1
	}
	return idx, true
}

// MagnitudeToDB converts a linear magnitude to decibels, floored at
// 1e-10 to avoid -Inf for exact silence.
func MagnitudeToDB(m float64) float64 {
	if m < 1e-10 {
		m = 1e-10
	}
	return 20 * math.Log10(m)
}
