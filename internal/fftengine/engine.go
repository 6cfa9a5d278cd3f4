// Package fftengine runs the forward short-time Fourier transform: audio
// samples in, a frame-indexed Spectrogram out.
package fftengine

import (
	"math/cmplx"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/jonnystokes/spectroforge/internal/audio"
	"github.com/jonnystokes/spectroforge/internal/dsp"
	"github.com/jonnystokes/spectroforge/internal/spectrogram"
)

// Engine computes a Spectrogram from AudioData and Params. It holds no
// state between calls — Process is a pure function of its arguments.
type Engine struct {
	// Workers caps the number of goroutines used to process frames. 0
	// means runtime.NumCPU().
	Workers int
}

type frameJob struct {
	index      int
	startIndex int
}

// Process runs the forward STFT described in the component design: clip to
// range, optionally center-pad, frame, window, zero-pad, real FFT, and
// collect frames in ascending order. Empty input (no frames fit) yields an
// empty, non-nil Spectrogram rather than an error.
func (e Engine) Process(data audio.Data, params dsp.Params) *spectrogram.Spectrogram {
	samples := data.Samples
	start, stop := params.ClampRange(len(samples))
	slice := samples[start:stop]

	var buffer []float32
	if params.UseCenter {
		pad := params.WindowLength / 2
		buffer = make([]float32, pad+len(slice)+pad)
		copy(buffer[pad:], slice)
	} else {
		buffer = slice
	}

	hop := params.HopLength()
	numFrames := 0
	if len(buffer) >= params.WindowLength {
		numFrames = (len(buffer)-params.WindowLength)/hop + 1
	}
	if numFrames == 0 {
		return spectrogram.New(nil)
	}

	window := params.Window()
	nfft := params.NFFTPadded()
	numBins := params.NumBins()
	frequencies := make([]float64, numBins)
	freqRes := params.FrequencyResolution()
	for i := range frequencies {
		frequencies[i] = float64(i) * freqRes
	}

	frames := make([]spectrogram.Frame, numFrames)

	workers := e.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > numFrames {
		workers = numFrames
	}

	jobs := make(chan frameJob, numFrames)
	for f := 0; f < numFrames; f++ {
		jobs <- frameJob{index: f, startIndex: start + f*hop}
	}
	close(jobs)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fft := fourier.NewFFT(nfft)
			input := make([]float64, nfft)
			for job := range jobs {
				frames[job.index] = e.processFrame(fft, input, buffer, job, window, frequencies, numBins, nfft, params, hop)
			}
		}()
	}
	wg.Wait()

	return spectrogram.New(frames)
}

func (e Engine) processFrame(
	fft *fourier.FFT,
	input []float64,
	buffer []float32,
	job frameJob,
	window []float64,
	frequencies []float64,
	numBins int,
	nfft int,
	params dsp.Params,
	hop int,
) spectrogram.Frame {
	for i := range input {
		input[i] = 0
	}
	offset := job.index * hop
	for i := 0; i < params.WindowLength; i++ {
		input[i] = float64(buffer[offset+i]) * window[i]
	}

	coeffs := fft.Coefficients(nil, input)

	magnitudes := make([]float64, numBins)
	phases := make([]float64, numBins)
	for i := 0; i < numBins; i++ {
		c := coeffs[i]
		scale := 2.0
		if i == 0 || i == numBins-1 {
			scale = 1.0
		}
		mag := cmplx.Abs(c) / float64(nfft) * scale
		magnitudes[i] = mag
		phases[i] = cmplx.Phase(c)
	}

	timeSeconds := float64(job.startIndex) / float64(params.SampleRate)

	return spectrogram.Frame{
		TimeSeconds: timeSeconds,
		Frequencies: frequencies,
		Magnitudes:  magnitudes,
		Phases:      phases,
	}
}
