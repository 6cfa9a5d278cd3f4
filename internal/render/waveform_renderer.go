package render

import (
	"runtime"
	"sync"
)

// dark-theme palette, matching the reference renderer's fixed colors.
var (
	waveformBG         = RGB{0x1e, 0x1e, 0x2e}
	waveformWave       = RGB{0x89, 0xb4, 0xfa}
	waveformCenterLine = RGB{0x45, 0x47, 0x5a}
	waveformCursor     = RGB{0xf3, 0x8b, 0xa8}
)

// Peak is a (min, max) pair over one waveform column's sample slice.
type Peak struct{ Min, Max float64 }

// Peaks holds the precomputed waveform peaks for a reconstructed sample
// range, plus the time bounds they were computed over.
type Peaks struct {
	Values           []Peak
	TimeStart, TimeEnd float64
}

// ComputePeaks splits samples into numColumns slices and takes the
// (min, max) over each, in parallel. An empty slice yields (0, 0).
func ComputePeaks(samples []float64, numColumns int, timeStart, timeEnd float64) Peaks {
	if numColumns <= 0 {
		return Peaks{TimeStart: timeStart, TimeEnd: timeEnd}
	}
	values := make([]Peak, numColumns)
	n := len(samples)

	workers := runtime.NumCPU()
	if workers > numColumns {
		workers = numColumns
	}
	if workers < 1 {
		workers = 1
	}
	jobs := make(chan int, numColumns)
	for c := 0; c < numColumns; c++ {
		jobs <- c
	}
	close(jobs)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for c := range jobs {
				lo := c * n / numColumns
				hi := (c + 1) * n / numColumns
				if lo >= hi {
					continue
				}
				min, max := samples[lo], samples[lo]
				for _, v := range samples[lo:hi] {
					if v < min {
						min = v
					}
					if v > max {
						max = v
					}
				}
				values[c] = Peak{Min: min, Max: max}
			}
		}()
	}
	wg.Wait()

	return Peaks{Values: values, TimeStart: timeStart, TimeEnd: timeEnd}
}

// WaveformRenderer rasterizes precomputed Peaks into an RGB pixel buffer,
// caching on a hash of (viewport, peaks time range, peak count).
type WaveformRenderer struct {
	cacheValid bool
	lastHash   uint64
	lastSizeW  int
	lastSizeH  int
	buffer     []byte
}

// NewWaveformRenderer returns an empty, uncached renderer.
func NewWaveformRenderer() *WaveformRenderer { return &WaveformRenderer{} }

func waveformHash(view ViewState, peaks Peaks) uint64 {
	var h uint64
	mix := func(v uint64) { h = h*31 + v }
	mixFloat := func(f float64) { mix(uint64(f * 10000)) }

	mixFloat(view.TimeMinSec)
	mixFloat(view.TimeMaxSec)
	mixFloat(peaks.TimeStart)
	mixFloat(peaks.TimeEnd)
	mix(uint64(len(peaks.Values)))
	return h
}

// Render draws the waveform into a width*height*3 RGB buffer: background
// fill, center line, per-column peak bars, and an optional cursor line at
// cursorX (pixel coordinate, -1 to omit).
func (r *WaveformRenderer) Render(peaks Peaks, view ViewState, cursorX int, width, height int) []byte {
	if width <= 0 || height <= 0 {
		return nil
	}
	if len(peaks.Values) == 0 {
		return r.renderNoData(width, height)
	}

	hash := waveformHash(view, peaks)
	needsRebuild := !r.cacheValid || r.lastSizeW != width || r.lastSizeH != height || r.lastHash != hash
	if needsRebuild {
		r.rebuild(peaks, view, width, height)
		r.lastSizeW = width
		r.lastSizeH = height
		r.lastHash = hash
		r.cacheValid = true
	}

	out := make([]byte, len(r.buffer))
	copy(out, r.buffer)
	drawCursor(out, cursorX, width, height)
	return out
}

func (r *WaveformRenderer) renderNoData(width, height int) []byte {
	buf := make([]byte, width*height*3)
	fillRGB(buf, waveformBG)
	r.cacheValid = false
	return buf
}

func (r *WaveformRenderer) rebuild(peaks Peaks, view ViewState, width, height int) {
	buf := make([]byte, width*height*3)
	fillRGB(buf, waveformBG)

	centerY := height / 2
	for px := 0; px < width; px++ {
		idx := (centerY*width + px) * 3
		setPixel(buf, idx, waveformCenterLine)
	}

	numPeaks := len(peaks.Values)
	peakRange := peaks.TimeEnd - peaks.TimeStart
	if numPeaks == 0 || peakRange <= 0 {
		r.buffer = buf
		return
	}

	for px := 0; px < width; px++ {
		t := float64(px) / float64(width)
		pixelTime := view.XToTime(t)
		if pixelTime < peaks.TimeStart || pixelTime > peaks.TimeEnd {
			continue
		}
		peakT := (pixelTime - peaks.TimeStart) / peakRange
		peakIdx := int(peakT * float64(numPeaks))
		if peakIdx >= numPeaks {
			continue
		}

		p := peaks.Values[peakIdx]
		yMax := int(float64(centerY) - p.Max*float64(centerY))
		yMin := int(float64(centerY) - p.Min*float64(centerY))
		yTop, yBot := yMax, yMin
		if yTop > yBot {
			yTop, yBot = yBot, yTop
		}
		if yTop < 0 {
			yTop = 0
		}
		if yBot > height-1 {
			yBot = height - 1
		}

		for py := yTop; py <= yBot; py++ {
			idx := (py*width + px) * 3
			setPixel(buf, idx, waveformWave)
		}
	}

	r.buffer = buf
}

func drawCursor(buf []byte, cursorX, width, height int) {
	if cursorX < 0 || cursorX >= width {
		return
	}
	for py := 0; py < height; py++ {
		idx := (py*width + cursorX) * 3
		setPixel(buf, idx, waveformCursor)
	}
}

func fillRGB(buf []byte, c RGB) {
	for i := 0; i+2 < len(buf); i += 3 {
		setPixel(buf, i, c)
	}
}

func setPixel(buf []byte, idx int, c RGB) {
	if idx+2 >= len(buf) {
		return
	}
	buf[idx] = c.R
	buf[idx+1] = c.G
	buf[idx+2] = c.B
}
