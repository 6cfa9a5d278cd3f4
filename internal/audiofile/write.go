package audiofile

import (
	"fmt"
	"io"
	"math"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	spectroaudio "github.com/jonnystokes/spectroforge/internal/audio"
)

// WriteWAV encodes mono AudioData as 16-bit PCM WAV, the format the
// reference decoder round-trips without loss of the common case. Samples
// are clamped to [-1, 1] before quantization so an unnormalized
// reconstruction can't wrap around into noise.
func WriteWAV(w io.WriteSeeker, d spectroaudio.Data) error {
	enc := wav.NewEncoder(w, int(d.SampleRate), 16, 1, 1)

	ints := make([]int, len(d.Samples))
	for i, s := range d.Samples {
		v := float64(s)
		if v > 1 {
			v = 1
		}
		if v < -1 {
			v = -1
		}
		ints[i] = int(math.Round(v * 32767))
	}

	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: int(d.SampleRate)},
		Data:           ints,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("audiofile: writing WAV samples: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("audiofile: closing WAV encoder: %w", err)
	}
	return nil
}
