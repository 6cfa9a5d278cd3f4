package dsp

import "math"

// LastEditedField names which user-facing quantity the solver should treat
// as authoritative when deriving the other two.
type LastEditedField int

const (
	EditedOverlap LastEditedField = iota
	EditedSegmentsPerActive
	EditedBinsPerSegment
)

// SolverConstraints bounds the window length and overlap percentage the
// solver is allowed to return.
type SolverConstraints struct {
	MinWindow        int
	MaxWindow        int
	MinOverlapPercent float64
	MaxOverlapPercent float64
}

// DefaultSolverConstraints matches the defaults used throughout the
// original analyzer: windows from 2 up to 131072 samples, 0-95% overlap.
func DefaultSolverConstraints() SolverConstraints {
	return SolverConstraints{
		MinWindow:         2,
		MaxWindow:         131072,
		MinOverlapPercent: 0,
		MaxOverlapPercent: 95,
	}
}

// SolverInput is the request passed to Solve.
type SolverInput struct {
	ActiveSamples           int
	WindowLength            int
	OverlapPercent          float64
	ZeroPadFactor           int
	TargetSegmentsPerActive int // 0 means "not set"
	TargetBinsPerSegment    int // 0 means "not set"
	LastEdited              LastEditedField
	Constraints             SolverConstraints
}

// SolverOutput is the consistent (window, overlap, segments, bins) tuple
// Solve derives from a SolverInput.
type SolverOutput struct {
	WindowLength       int
	OverlapPercent     float64
	SegmentsPerActive  int
	BinsPerSegment     int
}

// Solve inverts a user's target (segments-per-active-region, bins-per-
// segment, or overlap) into a consistent window/overlap/hop triple.
//
// Solve is deterministic and idempotent: Solve(Solve(x)) == Solve(x), since
// feeding SolverOutput's fields back in as a SolverInput with the same
// LastEdited reproduces the same search and lands on the same fixed point.
func Solve(in SolverInput) SolverOutput {
	c := in.Constraints
	if c.MaxWindow == 0 {
		c = DefaultSolverConstraints()
	}

	overlap := clampFloat(in.OverlapPercent, c.MinOverlapPercent, c.MaxOverlapPercent)
	window := clampEven(in.WindowLength, c.MinWindow, c.MaxWindow)

	switch in.LastEdited {
	case EditedSegmentsPerActive, EditedOverlap:
		if in.TargetSegmentsPerActive > 0 {
			window = solveWindowForSegments(in.ActiveSamples, overlap, in.TargetSegmentsPerActive, c)
		}
	case EditedBinsPerSegment:
		if in.TargetBinsPerSegment > 0 {
			zpf := in.ZeroPadFactor
			if zpf < 1 {
				zpf = 1
			}
			nfft := (in.TargetBinsPerSegment - 1) * 2
			if nfft < 0 {
				nfft = 0
			}
			fromBins := nfft / zpf
			if fromBins < 2 {
				fromBins = 2
			}
			window = clampEven(fromBins, c.MinWindow, c.MaxWindow)
		}
	}

	// Re-clamp overlap after any operation to keep deterministic caps stable.
	overlap = clampFloat(overlap, c.MinOverlapPercent, c.MaxOverlapPercent)

	hop := hopLength(window, overlap)
	segments := numSegmentsFor(in.ActiveSamples, window, hop)
	zpf := in.ZeroPadFactor
	if zpf < 1 {
		zpf = 1
	}
	bins := (window*zpf)/2 + 1

	return SolverOutput{
		WindowLength:      window,
		OverlapPercent:    overlap,
		SegmentsPerActive: segments,
		BinsPerSegment:    bins,
	}
}

// solveWindowForSegments performs a bounded, deterministic local search
// around an analytic approximation for the window length that yields
// target segments at the given overlap, preferring (in order): exact
// segment-count match, smallest distance from the approximation, smallest
// window on ties.
func solveWindowForSegments(activeSamples int, overlapPercent float64, targetSegments int, c SolverConstraints) int {
	target := targetSegments
	if target < 1 {
		target = 1
	}
	overlapRatio := clampFloat(overlapPercent, 0, 95) / 100
	hopFactor := 1 - overlapRatio
	if hopFactor < 0.01 {
		hopFactor = 0.01
	}

	var approxWindow int
	if target <= 1 {
		approxWindow = activeSamples
		if approxWindow < 2 {
			approxWindow = 2
		}
	} else {
		denom := 1 + float64(target-1)*hopFactor
		approxWindow = roundToInt(float64(activeSamples) / denom)
	}
	approxWindow = clampEven(approxWindow, c.MinWindow, c.MaxWindow)

	best := approxWindow
	bestErr := int(^uint(0) >> 1) // max int
	bestDist := int(^uint(0) >> 1)

	const searchBudget = 256
	for step := 0; step < searchBudget; step++ {
		var candidates [2]int
		if step == 0 {
			candidates = [2]int{approxWindow, approxWindow}
		} else {
			candidates = [2]int{approxWindow - step*2, approxWindow + step*2}
		}

		for _, cand := range candidates {
			cand = clampEven(cand, c.MinWindow, c.MaxWindow)
			hop := hopLength(cand, overlapPercent)
			segs := numSegmentsFor(activeSamples, cand, hop)
			errv := absDiffInt(segs, target)
			dist := absDiffInt(cand, approxWindow)

			better := errv < bestErr ||
				(errv == bestErr && dist < bestDist) ||
				(errv == bestErr && dist == bestDist && cand < best)
			if better {
				best = cand
				bestErr = errv
				bestDist = dist
			}
			if bestErr == 0 {
				return best
			}
		}
	}
	return best
}

func clampEven(value, min, max int) int {
	lo := min
	if lo < 2 {
		lo = 2
	}
	hi := max
	if hi < 2 {
		hi = 2
	}
	v := clampInt(value, lo, hi)
	if v%2 != 0 {
		if v == hi {
			v--
		} else {
			v++
		}
	}
	if v < 2 {
		v = 2
	}
	return v
}

func hopLength(window int, overlapPercent float64) int {
	hop := int(math.Floor(float64(window) * (1 - overlapPercent/100)))
	if hop < 1 {
		hop = 1
	}
	return hop
}

func numSegmentsFor(activeSamples, window, hop int) int {
	if activeSamples < window {
		return 0
	}
	if hop < 1 {
		hop = 1
	}
	return (activeSamples-window)/hop + 1
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func absDiffInt(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}

func roundToInt(v float64) int {
	if v < 0 {
		return int(v - 0.5)
	}
	return int(v + 0.5)
}
