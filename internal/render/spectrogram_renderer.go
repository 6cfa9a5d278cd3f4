package render

import (
	"runtime"
	"sync"

	"github.com/jonnystokes/spectroforge/internal/spectrogram"
)

// SpectrogramRenderer rasterizes a Spectrogram into an RGB pixel buffer,
// caching the result until any render-affecting parameter changes.
type SpectrogramRenderer struct {
	Lut *ColorLut

	cacheValid bool
	lastHash   uint64
	buffer     []byte
	width      int
	height     int
}

// NewSpectrogramRenderer returns a renderer using the given LUT.
func NewSpectrogramRenderer(lut *ColorLut) *SpectrogramRenderer {
	return &SpectrogramRenderer{Lut: lut}
}

// RenderParams bundles every render-affecting input besides the
// spectrogram itself.
type RenderParams struct {
	View                   ViewState
	ProcTimeMin, ProcTimeMax float64
	Width, Height          int
	ReconFreqMin, ReconFreqMax float64
	ReconFreqCount         int
}

// viewHash computes a 64-bit rolling hash over every render-affecting
// field: viewport extents, scale, display params, colormap id, pixel
// dimensions, processing time range, reconstruction filter params, and
// every custom-gradient stop. Matches the reference renderer's
// multiply-by-31 rolling hash, extended to cover the extra filter fields
// this renderer also depends on.
func viewHash(p RenderParams) uint64 {
	var h uint64
	mix := func(v uint64) { h = h*31 + v }
	mixFloat := func(f float64) { mix(uint64(f * 10000)) }

	mixFloat(p.View.FreqMinHz)
	mixFloat(p.View.FreqMaxHz)
	mix(uint64(p.View.FreqScale.Kind))
	mixFloat(p.View.FreqScale.Power)
	mixFloat(p.View.TimeMinSec)
	mixFloat(p.View.TimeMaxSec)
	mixFloat(p.View.ThresholdDB)
	mixFloat(p.View.DBCeiling)
	mixFloat(p.View.Brightness)
	mixFloat(p.View.Gamma)
	mix(uint64(p.View.Colormap))
	for _, s := range p.View.CustomGradient {
		mixFloat(s.Position)
		mixFloat(s.R)
		mixFloat(s.G)
		mixFloat(s.B)
	}
	mixFloat(p.ProcTimeMin)
	mixFloat(p.ProcTimeMax)
	mix(uint64(p.Width))
	mix(uint64(p.Height))
	mixFloat(p.ReconFreqMin)
	mixFloat(p.ReconFreqMax)
	mix(uint64(p.ReconFreqCount))
	return h
}

// Render produces a width*height*3 RGB buffer. It reuses the previous
// buffer unchanged if the computed hash matches the last render.
func (r *SpectrogramRenderer) Render(spec *spectrogram.Spectrogram, p RenderParams) []byte {
	if p.Width <= 0 || p.Height <= 0 {
		return nil
	}
	if spec.NumFrames() == 0 {
		return r.renderNoData(p.Width, p.Height)
	}

	hash := viewHash(p)
	if r.cacheValid && r.lastHash == hash && r.width == p.Width && r.height == p.Height {
		return r.buffer
	}

	r.rebuild(spec, p)
	r.lastHash = hash
	r.width = p.Width
	r.height = p.Height
	r.cacheValid = true
	return r.buffer
}

func (r *SpectrogramRenderer) renderNoData(width, height int) []byte {
	buf := make([]byte, width*height*3)
	r.buffer = buf
	r.cacheValid = false
	return buf
}

func (r *SpectrogramRenderer) rebuild(spec *spectrogram.Spectrogram, p RenderParams) {
	width, height := p.Width, p.Height
	buf := make([]byte, width*height*3)

	numFrames := spec.NumFrames()
	numBins := spec.NumBins()

	filter := spectrogram.BinRange{FreqMin: p.ReconFreqMin, FreqMax: p.ReconFreqMax, FreqCount: p.ReconFreqCount}
	activeMasks := make([][]bool, numFrames)
	{
		workers := runtime.NumCPU()
		if workers > numFrames {
			workers = numFrames
		}
		jobs := make(chan int, numFrames)
		for f := 0; f < numFrames; f++ {
			jobs <- f
		}
		close(jobs)
		var wg sync.WaitGroup
		for w := 0; w < workers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for f := range jobs {
					activeMasks[f] = spectrogram.SelectBins(spec.Frame(f), filter)
				}
			}()
		}
		wg.Wait()
	}

	rowBin := make([]int, height)
	if numBins > 0 {
		freqs := spec.Frame(0).Frequencies
		for py := 0; py < height; py++ {
			t := float64(height-1-py) / float64(height)
			freq := p.View.YToFreq(t)
			rowBin[py] = nearestBin(freqs, freq)
		}
	}

	type col struct {
		frameIdx int
		time     float64
		ok       bool
	}
	cols := make([]col, width)
	for px := 0; px < width; px++ {
		t := float64(px) / float64(width)
		time := p.View.XToTime(t)
		idx, ok := spec.FrameAtTime(time)
		cols[px] = col{frameIdx: idx, time: time, ok: ok}
	}

	workers := runtime.NumCPU()
	if workers > height {
		workers = height
	}
	if workers < 1 {
		workers = 1
	}
	rowJobs := make(chan int, height)
	for py := 0; py < height; py++ {
		rowJobs <- py
	}
	close(rowJobs)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for py := range rowJobs {
				bin := rowBin[py]
				for px := 0; px < width; px++ {
					c := cols[px]
					pixelOffset := (py*width + px) * 3

					var rgb RGB
					if c.ok && numBins > 0 && activeMasks[c.frameIdx][bin] {
						mag := spec.Frame(c.frameIdx).Magnitudes[bin]
						rgb = r.Lut.Lookup(mag)
					} else {
						rgb = r.Lut.Lookup(0)
					}

					if !c.ok || c.time < p.ProcTimeMin || c.time > p.ProcTimeMax {
						gray := uint8((0.3*float64(rgb.R) + 0.59*float64(rgb.G) + 0.11*float64(rgb.B)) * 0.35)
						buf[pixelOffset] = gray
						buf[pixelOffset+1] = gray
						buf[pixelOffset+2] = gray
						continue
					}

					buf[pixelOffset] = rgb.R
					buf[pixelOffset+1] = rgb.G
					buf[pixelOffset+2] = rgb.B
				}
			}
		}()
	}
	wg.Wait()

	r.buffer = buf
}

func nearestBin(freqs []float64, freq float64) int {
	best := 0
	bestDist := absF(freqs[0] - freq)
	for i := 1; i < len(freqs); i++ {
		d := absF(freqs[i] - freq)
		if d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}

func absF(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
