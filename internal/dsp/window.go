// Package dsp provides the pure numeric building blocks shared by the
// forward and inverse STFT engines: analysis windows and the derived
// timing/bin quantities that follow from a window length and overlap.
package dsp

import (
	"fmt"
	"math"

	gonumwindow "gonum.org/v1/gonum/dsp/window"
)

// WindowType identifies an analysis/synthesis window shape.
type WindowType int

const (
	WindowHann WindowType = iota
	WindowHamming
	WindowBlackman
	WindowKaiser
)

// String returns the window's display name. Kaiser is "Kaiser", without
// its beta.
func (w WindowType) String() string {
	switch w {
	case WindowHamming:
		return "Hamming"
	case WindowBlackman:
		return "Blackman"
	case WindowKaiser:
		return "Kaiser"
	default:
		return "Hann"
	}
}

// ParseWindowType parses a window type name, defaulting to Hann for any
// unrecognized value. A "Kaiser_<beta>" string is not recognized and also
// yields Hann; the beta travels separately in Params.KaiserBeta.
func ParseWindowType(s string) WindowType {
	switch s {
	case "Hamming":
		return WindowHamming
	case "Blackman":
		return WindowBlackman
	case "Kaiser":
		return WindowKaiser
	default:
		return WindowHann
	}
}

// Window generates an analysis window of length n for the given type.
// KaiserBeta is only consulted when typ == WindowKaiser.
//
// n <= 1 returns a window of all ones, matching the degenerate single-sample
// case where no taper is meaningful.
func Window(n int, typ WindowType, kaiserBeta float64) []float64 {
	w := make([]float64, n)
	if n <= 1 {
		for i := range w {
			w[i] = 1
		}
		return w
	}

	switch typ {
	case WindowHamming:
		for i := range w {
			w[i] = 1
		}
		gonumwindow.Hamming(w)
	case WindowBlackman:
		for i := range w {
			w[i] = 1
		}
		gonumwindow.Blackman(w)
	case WindowKaiser:
		kaiserWindow(w, kaiserBeta)
	default:
		for i := range w {
			w[i] = 1
		}
		gonumwindow.Hann(w)
	}
	return w
}

// kaiserWindow fills w in place with a Kaiser window of parameter beta.
// gonum's dsp/window package has no Kaiser implementation, so this follows
// the textbook series definition directly:
//
//	w[i] = I0(beta * sqrt(1 - x^2)) / I0(beta), x = 2i/(n-1) - 1
func kaiserWindow(w []float64, beta float64) {
	n := len(w)
	denom := besselI0(beta)
	for i := 0; i < n; i++ {
		x := 2*float64(i)/float64(n-1) - 1
		arg := beta * math.Sqrt(math.Max(0, 1-x*x))
		w[i] = besselI0(arg) / denom
	}
}

// besselI0 computes the modified Bessel function of the first kind, order
// zero, via the standard power series. The series is terminated once the
// marginal term contributes less than 1e-12 of the running sum, or after
// 100 terms — stable for beta up to at least 20, per the Kaiser window's
// typical operating range.
func besselI0(x float64) float64 {
	sum := 1.0
	term := 1.0
	for k := 1; k <= 100; k++ {
		half := x / 2
		term *= (half / float64(k)) * (half / float64(k))
		sum += term
		if term < 1e-12*sum {
			break
		}
	}
	return sum
}

// ValidateWindowLength reports an error for window lengths outside the
// contract in FftParams: a power of two in [64, 65536].
func ValidateWindowLength(n int) error {
	if n < 64 || n > 65536 {
		return fmt.Errorf("dsp: window length %d out of range [64, 65536]", n)
	}
	if n&(n-1) != 0 {
		return fmt.Errorf("dsp: window length %d is not a power of two", n)
	}
	return nil
}
