package spectrogram

import "sort"

// BinRange names the frequency band and bin budget a BinSelector mask is
// computed against.
type BinRange struct {
	FreqMin   float64
	FreqMax   float64
	FreqCount int
}

// SelectBins returns a boolean mask over frame's bins: true for the
// FreqCount loudest bins within [FreqMin, FreqMax], false elsewhere.
// Ties in magnitude are broken by ascending bin index, so the result is
// stable across calls. Used by both the renderer (to dim bins that won't
// be reconstructed) and the reconstructor (to choose which bins to
// synthesize).
func SelectBins(frame Frame, r BinRange) []bool {
	k := frame.NumBins()
	mask := make([]bool, k)
	if k == 0 || r.FreqCount <= 0 {
		return mask
	}

	type candidate struct {
		index int
		mag   float64
	}
	candidates := make([]candidate, 0, k)
	for i := 0; i < k; i++ {
		f := frame.Frequencies[i]
		if f >= r.FreqMin && f <= r.FreqMax {
			candidates = append(candidates, candidate{index: i, mag: frame.Magnitudes[i]})
		}
	}

	sort.Slice(candidates, func(a, b int) bool {
		if candidates[a].mag != candidates[b].mag {
			return candidates[a].mag > candidates[b].mag
		}
		return candidates[a].index < candidates[b].index
	})

	keep := r.FreqCount
	if keep > len(candidates) {
		keep = len(candidates)
	}
	for i := 0; i < keep; i++ {
		mask[candidates[i].index] = true
	}
	return mask
}
