// Package audiofile loads PCM WAV files into internal/audio.Data, the
// boundary implementation the component design treats as an external
// collaborator.
package audiofile

import (
	"fmt"
	"io"
	"math"

	"github.com/go-audio/wav"

	"github.com/jonnystokes/spectroforge/internal/audio"
)

// LoadWAV decodes a PCM WAV stream (8/16/24/32-bit integer or 32-bit
// float) into mono audio.Data, downmixing multichannel input by
// arithmetic mean across channels.
func LoadWAV(r io.ReadSeeker) (audio.Data, error) {
	decoder := wav.NewDecoder(r)
	if !decoder.IsValidFile() {
		return audio.Data{}, fmt.Errorf("audiofile: not a valid WAV file")
	}

	format := decoder.Format()
	if format == nil {
		return audio.Data{}, fmt.Errorf("audiofile: WAV file has no format chunk")
	}
	channels := format.NumChannels
	if channels < 1 {
		return audio.Data{}, fmt.Errorf("audiofile: WAV file declares %d channels", channels)
	}
	sampleRate := format.SampleRate
	if sampleRate <= 0 {
		return audio.Data{}, fmt.Errorf("audiofile: WAV file has non-positive sample rate %d", sampleRate)
	}

	decoder.FwdToPCM()
	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return audio.Data{}, fmt.Errorf("audiofile: reading PCM data: %w", err)
	}

	bitDepth := int(decoder.BitDepth)
	if bitDepth == 0 {
		bitDepth = 16
	}
	maxValue := math.Pow(2, float64(bitDepth-1))

	numFrames := len(buf.Data) / channels
	samples := make([]float32, numFrames)
	for frame := 0; frame < numFrames; frame++ {
		sum := 0.0
		for c := 0; c < channels; c++ {
			sum += float64(buf.Data[frame*channels+c]) / maxValue
		}
		samples[frame] = float32(sum / float64(channels))
	}

	return audio.Data{
		Samples:    samples,
		SampleRate: uint32(sampleRate),
	}, nil
}
