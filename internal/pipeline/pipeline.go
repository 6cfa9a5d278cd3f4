// Package pipeline is the supervisor that launches the two compute-heavy
// stages (forward STFT, then reconstruction) off the UI thread and
// delivers their completions back over a single-producer, single-consumer
// channel, stamped with a generation counter so a UI that changed its mind
// mid-flight can discard stale results without any cancellation machinery.
//
// Modeled on the teacher's internal/analysis.Worker (jobs channel +
// sync.WaitGroup fan-out, a run goroutine that reports back through a
// callback) and internal/ipc.PushMessage (a small tagged-union message
// struct rather than a wire protocol, since this channel never leaves the
// process).
package pipeline

import (
	"log"

	"github.com/jonnystokes/spectroforge/internal/audio"
	"github.com/jonnystokes/spectroforge/internal/dsp"
	"github.com/jonnystokes/spectroforge/internal/fftengine"
	"github.com/jonnystokes/spectroforge/internal/reconstruct"
	"github.com/jonnystokes/spectroforge/internal/spectrogram"
)

// MessageKind tags which stage a Message reports the completion of.
type MessageKind int

const (
	// KindFFTComplete carries a freshly computed Spectrogram.
	KindFFTComplete MessageKind = iota
	// KindReconstructionComplete carries freshly reconstructed AudioData.
	KindReconstructionComplete
)

func (k MessageKind) String() string {
	if k == KindReconstructionComplete {
		return "ReconstructionComplete"
	}
	return "FftComplete"
}

// Message is the tagged union of completions a Supervisor delivers.
// Exactly one of Spectrogram/Audio is meaningful, per Kind.
type Message struct {
	Kind        MessageKind
	Generation  uint64
	Spectrogram *spectrogram.Spectrogram
	Audio       audio.Data
}

// ReconstructionRequest bundles the reconstruction-subset of ViewState the
// Reconstructor needs, independent of the analysis Params that produced
// the Spectrogram it reconstructs from.
type ReconstructionRequest struct {
	FreqMinHz     float64
	FreqMaxHz     float64
	FreqCount     int
	PeakNormalize bool
	TargetPeak    float64
}

func (r ReconstructionRequest) filter() spectrogram.BinRange {
	return spectrogram.BinRange{FreqMin: r.FreqMinHz, FreqMax: r.FreqMaxHz, FreqCount: r.FreqCount}
}

// Supervisor launches the forward-STFT and reconstruction stages on worker
// goroutines and reports their completions over a buffered channel. It
// holds no spectrogram or audio state itself — the UI thread owns the
// current Spectrogram/AudioData and only uses Supervisor to (re)compute
// them.
type Supervisor struct {
	engine        fftengine.Engine
	reconstructor reconstruct.Reconstructor

	generation uint64 // only ever touched via atomic-like single-owner access from Commit
	messages   chan Message
}

// NewSupervisor returns a Supervisor whose completion channel has the
// given buffer depth. A depth of at least 2 lets both stages' messages
// queue up without the worker goroutine blocking on a slow UI drain.
func NewSupervisor(bufferDepth int) *Supervisor {
	if bufferDepth < 2 {
		bufferDepth = 2
	}
	return &Supervisor{messages: make(chan Message, bufferDepth)}
}

// Messages returns the channel the UI thread should drain on every
// frame-tick. Messages arrive in program order; the UI discards any whose
// Generation is behind the generation returned by the most recent Commit.
func (s *Supervisor) Messages() <-chan Message {
	return s.messages
}

// Commit stamps a new generation and launches both pipeline stages on a
// worker goroutine: forward STFT first, then reconstruction against its
// result, matching the data-flow and control-flow described for the load
// path — both stages launched sequentially on every parameter change. It
// returns the generation stamped on this commit's messages so the caller
// can compare against it when draining Messages.
func (s *Supervisor) Commit(data audio.Data, params dsp.Params, recon ReconstructionRequest) uint64 {
	s.generation++
	gen := s.generation

	go func() {
		log.Printf("pipeline: generation %d: forward STFT starting (window=%d overlap=%.1f%%)", gen, params.WindowLength, params.OverlapPercent)
		spec := s.engine.Process(data, params)
		log.Printf("pipeline: generation %d: forward STFT done (%d frames)", gen, spec.NumFrames())
		s.messages <- Message{Kind: KindFFTComplete, Generation: gen, Spectrogram: spec}

		log.Printf("pipeline: generation %d: reconstruction starting", gen)
		out := s.reconstructor.Reconstruct(spec, params, recon.filter(), recon.PeakNormalize, recon.TargetPeak)
		log.Printf("pipeline: generation %d: reconstruction done (%d samples)", gen, len(out.Samples))
		s.messages <- Message{Kind: KindReconstructionComplete, Generation: gen, Audio: out}
	}()

	return gen
}

// CurrentGeneration returns the generation stamped on the most recent
// Commit, 0 if Commit has never been called.
func (s *Supervisor) CurrentGeneration() uint64 { return s.generation }

// IsCurrent reports whether gen matches the most recently committed
// generation. The UI should discard any Message for which this is false.
func (s *Supervisor) IsCurrent(gen uint64) bool { return gen == s.generation }
