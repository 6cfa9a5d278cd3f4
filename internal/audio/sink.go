package audio

import (
	"fmt"
	"io"

	"github.com/hajimehoshi/oto/v2"
)

const bitDepthInBytes = 4 // 32-bit float

// OtoSink is a Sink backed by github.com/hajimehoshi/oto/v2, adapted from
// the teacher's OtoOutput: a context is created once per sample rate and
// handed a pull-based reader to drive a single mono float32 player.
type OtoSink struct {
	context *oto.Context
	player  oto.Player
}

// NewOtoSink returns an unstarted sink; Start creates the device.
func NewOtoSink() *OtoSink {
	return &OtoSink{}
}

// Start creates an oto context at sampleRate (mono, 32-bit float) and
// begins pulling from r.
func (s *OtoSink) Start(sampleRate uint32, r interface {
	Read(p []byte) (int, error)
}) error {
	ctx, ready, err := oto.NewContext(int(sampleRate), 1, bitDepthInBytes)
	if err != nil {
		return fmt.Errorf("oto: context init failed: %w", err)
	}
	<-ready

	s.context = ctx
	s.player = ctx.NewPlayer(readerAdapter{r})
	s.player.Play()
	return nil
}

// Close releases the underlying player.
func (s *OtoSink) Close() error {
	if s.player == nil {
		return nil
	}
	return s.player.Close()
}

type readerAdapter struct {
	r interface {
		Read(p []byte) (int, error)
	}
}

func (a readerAdapter) Read(p []byte) (int, error) {
	return a.r.Read(p)
}

var _ io.Reader = readerAdapter{}
