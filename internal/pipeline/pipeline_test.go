package pipeline

import (
	"math"
	"testing"
	"time"

	"github.com/jonnystokes/spectroforge/internal/audio"
	"github.com/jonnystokes/spectroforge/internal/dsp"
)

func sineData(freq float64, seconds float64, sampleRate uint32) audio.Data {
	n := int(seconds * float64(sampleRate))
	samples := make([]float32, n)
	for i := range samples {
		t := float64(i) / float64(sampleRate)
		samples[i] = float32(0.5 * math.Sin(2*math.Pi*freq*t))
	}
	return audio.Data{Samples: samples, SampleRate: sampleRate}
}

func TestSupervisorDeliversBothMessagesInOrder(t *testing.T) {
	sup := NewSupervisor(4)
	data := sineData(440, 0.25, 8000)
	params := dsp.Params{WindowLength: 256, OverlapPercent: 50, WindowType: dsp.WindowHann, SampleRate: 8000, ZeroPadFactor: 1, StopSample: len(data.Samples)}
	recon := ReconstructionRequest{FreqMinHz: 0, FreqMaxHz: 4000, FreqCount: 129, PeakNormalize: false}

	gen := sup.Commit(data, params, recon)
	if gen != 1 {
		t.Fatalf("first commit generation = %d, want 1", gen)
	}

	var kinds []MessageKind
	timeout := time.After(5 * time.Second)
	for i := 0; i < 2; i++ {
		select {
		case msg := <-sup.Messages():
			if msg.Generation != gen {
				t.Fatalf("message generation = %d, want %d", msg.Generation, gen)
			}
			kinds = append(kinds, msg.Kind)
		case <-timeout:
			t.Fatal("timed out waiting for pipeline messages")
		}
	}

	if len(kinds) != 2 || kinds[0] != KindFFTComplete || kinds[1] != KindReconstructionComplete {
		t.Fatalf("unexpected message order: %v", kinds)
	}
}

func TestSupervisorGenerationAdvancesAndStaleIsDetectable(t *testing.T) {
	sup := NewSupervisor(4)
	data := sineData(220, 0.1, 8000)
	params := dsp.Params{WindowLength: 256, OverlapPercent: 50, WindowType: dsp.WindowHann, SampleRate: 8000, ZeroPadFactor: 1, StopSample: len(data.Samples)}
	recon := ReconstructionRequest{FreqMinHz: 0, FreqMaxHz: 4000, FreqCount: 129}

	gen1 := sup.Commit(data, params, recon)
	gen2 := sup.Commit(data, params, recon)

	if gen2 <= gen1 {
		t.Fatalf("second commit generation %d did not advance past first %d", gen2, gen1)
	}
	if sup.IsCurrent(gen1) {
		t.Fatal("stale generation reported as current")
	}
	if !sup.IsCurrent(gen2) {
		t.Fatal("latest generation not reported as current")
	}

	// Drain four messages (two per commit); none should block forever.
	timeout := time.After(5 * time.Second)
	for i := 0; i < 4; i++ {
		select {
		case <-sup.Messages():
		case <-timeout:
			t.Fatal("timed out draining pipeline messages")
		}
	}
}
