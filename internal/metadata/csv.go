// Package metadata implements the tab-separated spectrogram export/import
// format described in the external interfaces: one metadata row, one
// column-label row, then one row per (frame, bin) pair.
package metadata

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/jonnystokes/spectroforge/internal/dsp"
	"github.com/jonnystokes/spectroforge/internal/spectrogram"
)

// Header carries the analysis parameters recorded alongside a
// spectrogram export — enough to reproduce the processing context,
// though not enough to guarantee a bit-exact reconstruction.
type Header struct {
	SampleRate      uint32
	WindowLength    int
	HopLength       int
	OverlapPercent  float64
	WindowType      string
	UseCenter       bool
	NumChannels     int
	StartSample     int
	StopSample      int
	ReconFreqCount  int
	ReconFreqMinHz  float64
	ReconFreqMaxHz  float64
	ZeroPadFactor   int
}

var dataHeader = []string{"time_sec", "frequency_hz", "magnitude", "phase_rad"}

// WriteCSV writes a spectrogram export: row 1 is the metadata record, row
// 2 is the column-label row, and every subsequent row is one
// (frame, bin) pair, in frame-major order. No third-party CSV/TSV
// library appears in the retrieved corpus for this job, so this uses the
// standard library's encoding/csv with a tab delimiter.
func WriteCSV(w io.Writer, spec *spectrogram.Spectrogram, h Header) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'

	metaRow := []string{
		strconv.FormatUint(uint64(h.SampleRate), 10),
		strconv.Itoa(h.WindowLength),
		strconv.Itoa(h.HopLength),
		formatFloat(h.OverlapPercent),
		h.WindowType,
		strconv.FormatBool(h.UseCenter),
		strconv.Itoa(h.NumChannels),
		strconv.Itoa(h.StartSample),
		strconv.Itoa(h.StopSample),
		strconv.Itoa(h.ReconFreqCount),
		formatFloat(h.ReconFreqMinHz),
		formatFloat(h.ReconFreqMaxHz),
		strconv.Itoa(h.ZeroPadFactor),
	}
	if err := cw.Write(metaRow); err != nil {
		return fmt.Errorf("metadata: writing header row: %w", err)
	}
	if err := cw.Write(dataHeader); err != nil {
		return fmt.Errorf("metadata: writing column labels: %w", err)
	}

	for f := 0; f < spec.NumFrames(); f++ {
		frame := spec.Frame(f)
		for b := 0; b < frame.NumBins(); b++ {
			row := []string{
				formatFloat(frame.TimeSeconds),
				formatFloat(frame.Frequencies[b]),
				formatFloat(frame.Magnitudes[b]),
				formatFloat(frame.Phases[b]),
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("metadata: writing data row: %w", err)
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadCSV parses an export written by WriteCSV back into a Header and a
// flat list of Frames (reconstructed in frame order by grouping
// consecutive rows that share a time_sec value).
func ReadCSV(r io.Reader) (Header, []spectrogram.Frame, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.FieldsPerRecord = -1

	metaRow, err := cr.Read()
	if err != nil {
		return Header{}, nil, fmt.Errorf("metadata: reading header row: %w", err)
	}
	h, err := parseHeader(metaRow)
	if err != nil {
		return Header{}, nil, err
	}

	if _, err := cr.Read(); err != nil {
		return Header{}, nil, fmt.Errorf("metadata: reading column labels: %w", err)
	}

	var frames []spectrogram.Frame
	var cur *spectrogram.Frame

	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Header{}, nil, fmt.Errorf("metadata: reading data row: %w", err)
		}
		if len(row) != 4 {
			continue
		}
		timeSec, _ := strconv.ParseFloat(row[0], 64)
		freqHz, _ := strconv.ParseFloat(row[1], 64)
		mag, _ := strconv.ParseFloat(row[2], 64)
		phase, _ := strconv.ParseFloat(row[3], 64)

		if cur == nil || cur.TimeSeconds != timeSec {
			if cur != nil {
				frames = append(frames, *cur)
			}
			cur = &spectrogram.Frame{TimeSeconds: timeSec}
		}
		cur.Frequencies = append(cur.Frequencies, freqHz)
		cur.Magnitudes = append(cur.Magnitudes, mag)
		cur.Phases = append(cur.Phases, phase)
	}
	if cur != nil {
		frames = append(frames, *cur)
	}

	return h, frames, nil
}

func parseHeader(row []string) (Header, error) {
	if len(row) != 13 {
		return Header{}, fmt.Errorf("metadata: header row has %d fields, want 13", len(row))
	}
	sampleRate, _ := strconv.ParseUint(row[0], 10, 32)
	windowLength, _ := strconv.Atoi(row[1])
	hopLength, _ := strconv.Atoi(row[2])
	overlap, _ := strconv.ParseFloat(row[3], 64)
	useCenter, _ := strconv.ParseBool(row[5])
	numChannels, _ := strconv.Atoi(row[6])
	startSample, _ := strconv.Atoi(row[7])
	stopSample, _ := strconv.Atoi(row[8])
	reconFreqCount, _ := strconv.Atoi(row[9])
	reconFreqMin, _ := strconv.ParseFloat(row[10], 64)
	reconFreqMax, _ := strconv.ParseFloat(row[11], 64)
	zeroPadFactor, _ := strconv.Atoi(row[12])

	return Header{
		SampleRate:     uint32(sampleRate),
		WindowLength:   windowLength,
		HopLength:      hopLength,
		OverlapPercent: overlap,
		WindowType:     row[4],
		UseCenter:      useCenter,
		NumChannels:    numChannels,
		StartSample:    startSample,
		StopSample:     stopSample,
		ReconFreqCount: reconFreqCount,
		ReconFreqMinHz: reconFreqMin,
		ReconFreqMaxHz: reconFreqMax,
		ZeroPadFactor:  zeroPadFactor,
	}, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// HeaderFromParams builds a Header from a dsp.Params, filling in the
// fields the CSV schema expects.
func HeaderFromParams(p dsp.Params, windowTypeName string, numChannels int, reconFreqMin, reconFreqMax float64, reconFreqCount int) Header {
	return Header{
		SampleRate:     p.SampleRate,
		WindowLength:   p.WindowLength,
		HopLength:      p.HopLength(),
		OverlapPercent: p.OverlapPercent,
		WindowType:     windowTypeName,
		UseCenter:      p.UseCenter,
		NumChannels:    numChannels,
		StartSample:    p.StartSample,
		StopSample:     p.StopSample,
		ReconFreqCount: reconFreqCount,
		ReconFreqMinHz: reconFreqMin,
		ReconFreqMaxHz: reconFreqMax,
		ZeroPadFactor:  p.ZeroPadFactor,
	}
}
