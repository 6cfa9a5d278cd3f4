package render

import "testing"

func TestColorLutSetParamsIdempotent(t *testing.T) {
	lut := DefaultColorLut()
	if changed := lut.SetParams(-124, 0, 1, 2.2, Classic); changed {
		t.Error("SetParams with identical values returned true, want false (no rebuild)")
	}
}

func TestColorLutSetParamsDetectsChange(t *testing.T) {
	lut := DefaultColorLut()
	if changed := lut.SetParams(-100, 0, 1, 2.2, Classic); !changed {
		t.Error("SetParams with a changed threshold returned false, want true (rebuild)")
	}
}

func TestColorLutSetParamsColormapChange(t *testing.T) {
	lut := DefaultColorLut()
	if changed := lut.SetParams(-124, 0, 1, 2.2, Viridis); !changed {
		t.Error("SetParams with a changed colormap returned false, want true (rebuild)")
	}
}

func TestColorLutSetParamsWithinEpsilonIsNoRebuild(t *testing.T) {
	lut := DefaultColorLut()
	if changed := lut.SetParams(-124.005, 0, 1, 2.2, Classic); changed {
		t.Error("SetParams within the 0.01 epsilon returned true, want false")
	}
}

func TestColorLutLookupClampsOutOfRange(t *testing.T) {
	lut := DefaultColorLut()
	_ = lut.Lookup(0)       // near-silence, should floor without panicking
	_ = lut.Lookup(1e6)     // far above ceiling, should clamp to top of table
	_ = lut.Lookup(-5)      // negative magnitude, also floored
}

func TestColorLutLookupMonotonicBrightness(t *testing.T) {
	// Greyscale, because Classic ends on pure red, whose channel sum is
	// below that of its yellow-green middle stops.
	lut := NewColorLut(-124, 0, 1, 2.2, Greyscale, nil)
	quiet := lut.Lookup(0.0001)
	loud := lut.Lookup(1.0)
	quietSum := int(quiet.R) + int(quiet.G) + int(quiet.B)
	loudSum := int(loud.R) + int(loud.G) + int(loud.B)
	if loudSum < quietSum {
		t.Errorf("louder magnitude produced a darker color: quiet=%v loud=%v", quiet, loud)
	}
}
