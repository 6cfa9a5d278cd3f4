package render

import (
	"github.com/crazy3lf/colorconv"
)

// ColormapID names one of the built-in intensity->RGB schemes.
type ColormapID int

const (
	Classic ColormapID = iota
	Viridis
	Magma
	Inferno
	Greyscale
	InvertedGrey
	Geek
	Custom
)

var colormapNames = [...]string{"Classic", "Viridis", "Magma", "Inferno", "Greyscale", "Inverted Grey", "Geek", "Custom"}

func (c ColormapID) String() string {
	if int(c) < 0 || int(c) >= len(colormapNames) {
		return "Classic"
	}
	return colormapNames[c]
}

// AllColormaps lists every built-in scheme in display order.
func AllColormaps() []ColormapID {
	out := make([]ColormapID, len(colormapNames))
	for i := range out {
		out[i] = ColormapID(i)
	}
	return out
}

// ParseColormapID matches a persisted colormap name back to its
// ColormapID, the render-side counterpart of dsp.ParseWindowType. An
// unrecognized name falls back to Classic rather than erroring, matching
// Manager.Load's "bad config field, keep going with a default" policy.
func ParseColormapID(name string) ColormapID {
	for i, n := range colormapNames {
		if n == name {
			return ColormapID(i)
		}
	}
	return Classic
}

// RGB is an 8-bit color triple, the ColorLut's storage unit.
type RGB struct{ R, G, B uint8 }

// NewCustomGradient converts a list of HSV-authored stops into the RGB
// GradientStop form EvalGradient consumes. This is the one place the
// HSV->RGB conversion from colorconv is exercised: custom gradients are
// authored in HSV because hue sweeps are easier to reason about than raw
// RGB triples, then baked to RGB once here rather than per-lookup.
func NewCustomGradient(stops []HSVStop) ([]GradientStop, error) {
	out := make([]GradientStop, len(stops))
	for i, s := range stops {
		r, g, b, err := colorconv.HSVToRGB(s.H, s.S, s.V)
		if err != nil {
			return nil, err
		}
		out[i] = GradientStop{
			Position: clamp01(s.Position),
			R:        float64(r) / 255,
			G:        float64(g) / 255,
			B:        float64(b) / 255,
		}
	}
	return out, nil
}

// MapColor dispatches intensity (already gamma/brightness corrected, in
// [0,1]) to an 8-bit RGB triple for the named scheme. customStops is only
// consulted when id == Custom.
func MapColor(id ColormapID, intensity float64, customStops []GradientStop) RGB {
	switch id {
	case Viridis:
		return colormapViridis(intensity)
	case Magma:
		return colormapMagma(intensity)
	case Inferno:
		return colormapInferno(intensity)
	case Greyscale:
		return colormapGreyscale(intensity)
	case InvertedGrey:
		return colormapInvertedGrey(intensity)
	case Geek:
		return colormapGeek(intensity)
	case Custom:
		r, g, b := EvalGradient(customStops, clamp01(intensity))
		return toRGB(r, g, b)
	default:
		return colormapClassic(intensity)
	}
}

type classicStop struct {
	pos     float64
	r, g, b float64
}

// classicStops is the exact SebLague-style 7-point gradient.
var classicStops = []classicStop{
	{0.0000, 0.00, 0.00, 0.00},
	{0.2618, 0.27, 0.11, 0.42},
	{0.4147, 0.17, 0.47, 0.92},
	{0.6559, 0.34, 0.92, 0.22},
	{0.7618, 0.88, 0.88, 0.12},
	{0.8735, 1.00, 0.56, 0.10},
	{0.9559, 1.00, 0.00, 0.00},
}

func colormapClassic(t float64) RGB {
	t = clamp01(t)
	idx := 0
	for i := 1; i < len(classicStops); i++ {
		if t < classicStops[i].pos {
			break
		}
		idx = i
	}
	if idx >= len(classicStops)-1 {
		s := classicStops[len(classicStops)-1]
		return toRGB(s.r, s.g, s.b)
	}
	s0, s1 := classicStops[idx], classicStops[idx+1]
	segT := 0.0
	if abs(s1.pos-s0.pos) >= 1e-6 {
		segT = clamp01((t - s0.pos) / (s1.pos - s0.pos))
	}
	return toRGB(
		s0.r+(s1.r-s0.r)*segT,
		s0.g+(s1.g-s0.g)*segT,
		s0.b+(s1.b-s0.b)*segT,
	)
}

// The Viridis/Magma/Inferno approximations below are direct cubic-in-t
// polynomial fits, not HSV-space interpolations, so they reproduce the
// same curve shape as the waveform/spectrogram authors intended.

func colormapViridis(t float64) RGB {
	t = clamp01(t)
	r := ((-1.33*t+1.62)*t+0.27)*t + 0.04
	g := ((0.57*t-1.30)*t+1.42)*t + 0.01
	b := ((-2.40*t+2.26)*t-0.15)*t + 0.33
	return toRGB(r, g, b)
}

func colormapMagma(t float64) RGB {
	t = clamp01(t)
	r := ((-2.10*t+3.30)*t-0.22)*t + 0.0
	g := ((-0.73*t-0.39)*t+1.14)*t - 0.01
	b := ((0.69*t-2.49)*t+2.13)*t + 0.16
	return toRGB(r, g, b)
}

func colormapInferno(t float64) RGB {
	t = clamp01(t)
	r := ((-1.83*t+2.96)*t+0.03)*t + 0.0
	g := ((-0.84*t+0.03)*t+0.82)*t - 0.01
	b := ((2.36*t-4.80)*t+2.76)*t + 0.17
	return toRGB(r, g, b)
}

func colormapGreyscale(t float64) RGB {
	v := uint8(clamp01(t) * 255)
	return RGB{v, v, v}
}

func colormapInvertedGrey(t float64) RGB {
	v := uint8((1 - clamp01(t)) * 255)
	return RGB{v, v, v}
}

func colormapGeek(t float64) RGB {
	t = clamp01(t)
	switch {
	case t < 0.6:
		s := t / 0.6
		return RGB{0, uint8(s * 100), 0}
	case t < 0.9:
		s := (t - 0.6) / 0.3
		return RGB{uint8(s * 144), uint8(100 + s*138), uint8(s * 144)}
	default:
		s := (t - 0.9) / 0.1
		return RGB{uint8(144 + s*111), uint8(238 + s*17), uint8(144 + s*111)}
	}
}

func toRGB(r, g, b float64) RGB {
	return RGB{
		R: uint8(clamp01(r) * 255),
		G: uint8(clamp01(g) * 255),
		B: uint8(clamp01(b) * 255),
	}
}
