// Package audio holds the PCM sample container and the real-time
// playback engine that drives a host audio device from it.
package audio

import "time"

// Data is mono PCM audio at a fixed sample rate — the currency passed
// between the loader, the FFT engine, the reconstructor, and playback.
type Data struct {
	Samples    []float32
	SampleRate uint32
}

// Duration returns the length of the audio as a time.Duration.
func (d Data) Duration() time.Duration {
	if d.SampleRate == 0 {
		return 0
	}
	seconds := float64(len(d.Samples)) / float64(d.SampleRate)
	return time.Duration(seconds * float64(time.Second))
}
