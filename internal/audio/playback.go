package audio

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"
)

// PlaybackState is one of the three states PlaybackEngine can be in.
type PlaybackState int

const (
	Stopped PlaybackState = iota
	Playing
	Paused
)

func (s PlaybackState) String() string {
	switch s {
	case Playing:
		return "Playing"
	case Paused:
		return "Paused"
	default:
		return "Stopped"
	}
}

// PlaybackData is the state shared between the control thread and the
// audio callback. Every field is only ever touched under Engine.mu.
type PlaybackData struct {
	samples    []float32
	sampleRate uint32
	position   int
	state      PlaybackState
	repeat     bool
	endSample  int
}

// Sink is the host audio device a PlaybackEngine drives. OtoSink, an
// oto-backed device, satisfies it.
type Sink interface {
	// Start begins pulling bytes from r at the given mono sample rate,
	// 32-bit float samples, little-endian.
	Start(sampleRate uint32, r interface {
		Read(p []byte) (int, error)
	}) error
	Close() error
}

// Engine implements the PlaybackEngine state machine and callback
// contract: load/play/pause/stop/seek under a short-held lock, with the
// callback itself bounded-time and allocation-free once warmed up.
//
// Adapted from the mutex+condition-variable pattern of a pull-based
// oto.Player source: Engine itself satisfies io.Reader so a Sink can pull
// from it directly.
type Engine struct {
	mu   sync.Mutex
	cond *sync.Cond
	data PlaybackData

	sink        Sink
	sinkRate    uint32
	sinkStarted bool
	deviceOK    bool

	readBuf []float32
}

// NewEngine returns a playback engine with no audio loaded and no device
// initialized. The device is created lazily on the first LoadAudio call.
// A nil sink is valid (useful in tests that only exercise the state
// machine) and is always treated as ready.
func NewEngine(sink Sink) *Engine {
	e := &Engine{sink: sink, deviceOK: sink == nil}
	e.cond = sync.NewCond(&e.mu)
	return e
}

// LoadAudio stops playback, copies in new samples, and resets position to
// 0. The output device is initialized lazily on first load; later loads
// reuse the device if the sample rate is unchanged, otherwise reinitialize.
func (e *Engine) LoadAudio(d Data) error {
	e.mu.Lock()
	samples := make([]float32, len(d.Samples))
	copy(samples, d.Samples)
	e.data.samples = samples
	e.data.sampleRate = d.SampleRate
	e.data.position = 0
	e.data.endSample = len(samples)
	e.data.state = Stopped
	e.cond.Broadcast()
	needsInit := !e.sinkStarted || e.sinkRate != d.SampleRate
	e.mu.Unlock()

	if needsInit && e.sink != nil {
		if err := e.sink.Start(d.SampleRate, e); err != nil {
			e.mu.Lock()
			e.deviceOK = false
			e.mu.Unlock()
			return fmt.Errorf("audio: device init failed: %w", err)
		}
		e.mu.Lock()
		e.sinkStarted = true
		e.sinkRate = d.SampleRate
		e.deviceOK = true
		e.mu.Unlock()
	}
	return nil
}

// HasAudio reports whether audio has been loaded.
func (e *Engine) HasAudio() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.data.samples) > 0
}

// Play transitions Stopped/Paused -> Playing.
func (e *Engine) Play() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.data.samples) == 0 || !e.deviceOK {
		return
	}
	e.data.state = Playing
	e.cond.Broadcast()
}

// Pause transitions Playing -> Paused, preserving position.
func (e *Engine) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.data.state = Paused
}

// Stop transitions to Stopped and resets position to 0.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.data.state = Stopped
	e.data.position = 0
}

// SetRepeat toggles the end-of-buffer wraparound policy.
func (e *Engine) SetRepeat(repeat bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.data.repeat = repeat
}

// State returns the current playback state.
func (e *Engine) State() PlaybackState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.data.state
}

// SeekTo clamps position to [0, end_sample] given a time in seconds.
func (e *Engine) SeekTo(seconds float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.data.sampleRate == 0 {
		return
	}
	pos := int(math.Round(seconds * float64(e.data.sampleRate)))
	if pos < 0 {
		pos = 0
	}
	if pos > e.data.endSample {
		pos = e.data.endSample
	}
	e.data.position = pos
}

// PositionSeconds returns the current playback position in seconds.
func (e *Engine) PositionSeconds() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.data.sampleRate == 0 {
		return 0
	}
	return float64(e.data.position) / float64(e.data.sampleRate)
}

// fill implements the callback contract over a float32 output slice: a
// short-held lock, zero the buffer if not Playing, else copy samples one
// at a time applying the end-of-buffer policy (wrap if repeat, else pause
// and silence the remainder).
func (e *Engine) fill(output []float32) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.data.state != Playing {
		for i := range output {
			output[i] = 0
		}
		return
	}

	for k := range output {
		if e.data.position >= e.data.endSample {
			if e.data.repeat && e.data.endSample > 0 {
				e.data.position = 0
			} else {
				e.data.state = Paused
				e.data.position = 0
				for ; k < len(output); k++ {
					output[k] = 0
				}
				return
			}
		}
		output[k] = e.data.samples[e.data.position]
		e.data.position++
	}
}

// Read implements io.Reader over 32-bit float little-endian samples so an
// Engine can be handed directly to a Sink as its pull source.
func (e *Engine) Read(p []byte) (int, error) {
	n := len(p) / 4
	if n == 0 {
		return 0, nil
	}
	if cap(e.readBuf) < n {
		e.readBuf = make([]float32, n)
	}
	buf := e.readBuf[:n]
	e.fill(buf)
	for i, s := range buf {
		binary.LittleEndian.PutUint32(p[i*4:], math.Float32bits(s))
	}
	return n * 4, nil
}
