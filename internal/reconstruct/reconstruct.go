// Package reconstruct runs the inverse short-time Fourier transform:
// a Spectrogram (optionally bin-filtered) back to AudioData.
package reconstruct

import (
	"math"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/jonnystokes/spectroforge/internal/audio"
	"github.com/jonnystokes/spectroforge/internal/dsp"
	"github.com/jonnystokes/spectroforge/internal/spectrogram"
)

// Filter selects which bins of each frame to keep during synthesis. An
// empty FreqCount (<=0) means "keep nothing" per BinSelector's contract.
type Filter = spectrogram.BinRange

// Reconstructor inverts a Spectrogram back into AudioData. It holds no
// state between calls.
type Reconstructor struct {
	// Workers caps the number of goroutines used to process frames. 0
	// means runtime.NumCPU().
	Workers int
}

type windowedFrame struct {
	startPos int
	samples  []float64
}

// Reconstruct runs the algorithm described in the component design:
// per-frame inverse FFT and windowing in parallel, sequential overlap-add,
// a low-overlap guard, and optional peak normalization.
func (r Reconstructor) Reconstruct(spec *spectrogram.Spectrogram, params dsp.Params, filter Filter, peakNormalize bool, targetPeak float64) audio.Data {
	numFrames := spec.NumFrames()
	if numFrames == 0 {
		return audio.Data{SampleRate: params.SampleRate}
	}

	hop := params.HopLength()
	outLen := (numFrames-1)*hop + params.WindowLength
	if params.UseCenter {
		outLen = (numFrames - 1) * hop
		if outLen < 0 {
			outLen = 0
		}
	}

	window := params.Window()
	nfft := params.NFFTPadded()
	numBins := params.NumBins()

	results := make([]windowedFrame, numFrames)

	workers := r.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > numFrames {
		workers = numFrames
	}

	type job struct{ index int }
	jobs := make(chan job, numFrames)
	for f := 0; f < numFrames; f++ {
		jobs <- job{index: f}
	}
	close(jobs)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fft := fourier.NewFFT(nfft)
			spectrumRe := make([]complex128, numBins)
			for jb := range jobs {
				frame := spec.Frame(jb.index)
				mask := spectrogram.SelectBins(frame, filter)

				for i := range spectrumRe {
					spectrumRe[i] = 0
				}
				for i, keep := range mask {
					if !keep {
						continue
					}
					// Undo the forward engine's magnitude scaling
					// (mag = |c[i]| / nfft * scale) to rebuild the raw,
					// unnormalized DFT coefficient gonum's Sequence
					// expects: Sequence(Coefficients(x)) == nfft*x, with
					// no normalization applied by either half.
					scale := 2.0
					if i == 0 || i == numBins-1 {
						scale = 1.0
					}
					coeffMag := frame.Magnitudes[i] * float64(nfft) / scale
					re := coeffMag * math.Cos(frame.Phases[i])
					im := coeffMag * math.Sin(frame.Phases[i])
					if i == 0 || i == numBins-1 {
						im = 0
					}
					spectrumRe[i] = complex(re, im)
				}

				timeDomain := fft.Sequence(nil, spectrumRe)

				windowed := make([]float64, params.WindowLength)
				for i := 0; i < params.WindowLength; i++ {
					windowed[i] = timeDomain[i] / float64(nfft) * window[i]
				}

				results[jb.index] = windowedFrame{
					startPos: jb.index * hop,
					samples:  windowed,
				}
			}
		}()
	}
	wg.Wait()

	output := make([]float64, outLen)
	windowSum := make([]float64, outLen)
	for _, wf := range results {
		for i, v := range wf.samples {
			pos := wf.startPos + i
			if pos < 0 || pos >= outLen {
				continue
			}
			output[pos] += v
			windowSum[pos] += window[i] * window[i]
		}
	}

	peakWSum := 0.0
	for _, v := range windowSum {
		if v > peakWSum {
			peakWSum = v
		}
	}
	threshold := peakWSum * 0.1
	if threshold < 1e-8 {
		threshold = 1e-8
	}
	for i := range output {
		if windowSum[i] >= threshold {
			output[i] /= windowSum[i]
		} else {
			output[i] = 0
		}
	}

	if peakNormalize {
		peak := 0.0
		for _, v := range output {
			if math.Abs(v) > peak {
				peak = math.Abs(v)
			}
		}
		if peak > 0 {
			scale := targetPeak / peak
			if !math.IsInf(scale, 0) && !math.IsNaN(scale) {
				for i := range output {
					output[i] *= scale
				}
			}
		}
	}

	samples := make([]float32, outLen)
	for i, v := range output {
		samples[i] = float32(v)
	}

	return audio.Data{Samples: samples, SampleRate: params.SampleRate}
}
