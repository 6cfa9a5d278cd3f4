package render

import "math"

const lutSize = 1024

// ColorLut is a 1024-entry precomputed magnitude->color table. Rebuilding
// it is only required when one of its build parameters changes beyond the
// tolerances in NeedsRebuild, so a renderer can hold one across many
// Lookup calls on the same frame.
type ColorLut struct {
	table       [lutSize]RGB
	threshold   float64
	ceiling     float64
	brightness  float64
	gamma       float64
	colormap    ColormapID
	customStops []GradientStop
}

// NewColorLut builds a ColorLut, clamping parameters to their valid
// ranges, matching the reference defaults of threshold=-124dB,
// ceiling=0dB, brightness=1, gamma=2.2, Classic colormap.
func NewColorLut(threshold, ceiling, brightness, gamma float64, colormap ColormapID, customStops []GradientStop) *ColorLut {
	lut := &ColorLut{}
	lut.threshold = clampRange(threshold, -200, 0)
	lut.ceiling = clampRange(ceiling, -200, 0)
	lut.brightness = clampRange(brightness, 0.1, 3.0)
	lut.gamma = clampRange(gamma, 0.1, 5.0)
	lut.colormap = colormap
	lut.customStops = customStops
	lut.rebuild()
	return lut
}

// DefaultColorLut matches the original application's default parameters.
func DefaultColorLut() *ColorLut {
	return NewColorLut(-124, 0, 1, 2.2, Classic, nil)
}

func (l *ColorLut) rebuild() {
	for i := 0; i < lutSize; i++ {
		t := float64(i) / float64(lutSize-1)
		intensity := math.Pow(t, 1/l.gamma) * l.brightness
		intensity = clamp01(intensity)
		l.table[i] = MapColor(l.colormap, intensity, l.customStops)
	}
}

// SetParams updates the LUT's build parameters and rebuilds only if any
// one of them changed beyond tolerance (0.01 for floats, equality for the
// colormap id). Returns whether a rebuild happened.
func (l *ColorLut) SetParams(threshold, ceiling, brightness, gamma float64, colormap ColormapID) bool {
	newThreshold := clampRange(threshold, -200, 0)
	newCeiling := clampRange(ceiling, -200, 0)
	newBrightness := clampRange(brightness, 0.1, 3.0)
	newGamma := clampRange(gamma, 0.1, 5.0)

	changed := abs(newThreshold-l.threshold) > 0.01 ||
		abs(newCeiling-l.ceiling) > 0.01 ||
		abs(newBrightness-l.brightness) > 0.01 ||
		abs(newGamma-l.gamma) > 0.01 ||
		colormap != l.colormap

	if !changed {
		return false
	}
	l.threshold = newThreshold
	l.ceiling = newCeiling
	l.brightness = newBrightness
	l.gamma = newGamma
	l.colormap = colormap
	l.rebuild()
	return true
}

// SetCustomStops updates the custom gradient stops, rebuilding only if the
// stops differ and the active colormap is Custom.
func (l *ColorLut) SetCustomStops(stops []GradientStop) bool {
	if stopsEqual(l.customStops, stops) {
		return false
	}
	l.customStops = stops
	if l.colormap == Custom {
		l.rebuild()
		return true
	}
	return false
}

func stopsEqual(a, b []GradientStop) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Lookup converts a raw linear magnitude to a color: magnitude -> dB ->
// normalized [threshold, ceiling] -> [0,1] -> table index.
func (l *ColorLut) Lookup(magnitude float64) RGB {
	if magnitude < 1e-10 {
		magnitude = 1e-10
	}
	db := 20 * math.Log10(magnitude)
	rng := l.ceiling - l.threshold
	if rng <= 0 {
		return l.table[0]
	}
	t := (db - l.threshold) / rng
	idx := int(clampRange(math.Round(t*float64(lutSize-1)), 0, float64(lutSize-1)))
	return l.table[idx]
}

func clampRange(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
