// Command spectroforge drives the full analysis/resynthesis pipeline
// from the command line: load a WAV file, run the forward STFT, filter
// and reconstruct it, then optionally play the result back and/or export
// the spectrogram as tab-separated metadata.
//
// It exists to exercise internal/pipeline through internal/audio,
// internal/audiofile, internal/dsp, internal/fftengine, and
// internal/reconstruct end to end; the interactive viewer this core was
// built for is outside this repository's scope.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonnystokes/spectroforge/internal/audio"
	"github.com/jonnystokes/spectroforge/internal/audiofile"
	"github.com/jonnystokes/spectroforge/internal/config"
	"github.com/jonnystokes/spectroforge/internal/dsp"
	"github.com/jonnystokes/spectroforge/internal/metadata"
	"github.com/jonnystokes/spectroforge/internal/pipeline"
	"github.com/jonnystokes/spectroforge/internal/render"
	"github.com/jonnystokes/spectroforge/internal/spectrogram"
)

// cliConfig holds the flags for one pipeline run.
type cliConfig struct {
	InPath  string
	OutPath string
	CSVPath string
	PNGPath string
	Play    bool

	RenderWidth  int
	RenderHeight int

	WindowLength   int
	OverlapPercent float64
	WindowType     string
	KaiserBeta     float64
	UseCenter      bool
	ZeroPadFactor  int

	ReconFreqMinHz float64
	ReconFreqMaxHz float64
	ReconFreqCount int
	PeakNormalize  bool
	TargetPeak     float64

	ConfigDir string
}

func main() {
	cfg := parseFlags()

	if err := run(cfg); err != nil {
		log.Fatalf("spectroforge: %v", err)
	}
}

func parseFlags() cliConfig {
	defaults := config.DefaultConfig()

	var cfg cliConfig
	flag.StringVar(&cfg.InPath, "in", "", "input WAV file (required)")
	flag.StringVar(&cfg.OutPath, "out", "", "output WAV file for the reconstructed signal (optional)")
	flag.StringVar(&cfg.CSVPath, "csv", "", "output path for tab-separated spectrogram metadata (optional)")
	flag.StringVar(&cfg.PNGPath, "png", "", "output path for a rendered spectrogram image (optional)")
	flag.BoolVar(&cfg.Play, "play", false, "play the reconstructed signal back through the default audio device")

	flag.IntVar(&cfg.RenderWidth, "png-width", defaults.Window.WidthPx, "rendered spectrogram image width in pixels")
	flag.IntVar(&cfg.RenderHeight, "png-height", defaults.Window.HeightPx, "rendered spectrogram image height in pixels")

	flag.IntVar(&cfg.WindowLength, "window", defaults.Analysis.WindowLength, "analysis window length in samples (power of two)")
	flag.Float64Var(&cfg.OverlapPercent, "overlap", defaults.Analysis.OverlapPercent, "analysis window overlap percentage [0, 95]")
	flag.StringVar(&cfg.WindowType, "window-type", defaults.Analysis.WindowType, "Hann, Hamming, Blackman, or Kaiser")
	flag.Float64Var(&cfg.KaiserBeta, "kaiser-beta", defaults.Analysis.KaiserBeta, "Kaiser window beta parameter")
	flag.BoolVar(&cfg.UseCenter, "use-center", defaults.Analysis.UseCenter, "zero-pad window_length/2 samples at each end before framing")
	flag.IntVar(&cfg.ZeroPadFactor, "zero-pad", defaults.Analysis.ZeroPadFactor, "FFT zero-pad factor")

	flag.Float64Var(&cfg.ReconFreqMinHz, "recon-freq-min", defaults.Reconstruction.FreqMinHz, "lowest frequency (Hz) kept during reconstruction")
	flag.Float64Var(&cfg.ReconFreqMaxHz, "recon-freq-max", defaults.Reconstruction.FreqMaxHz, "highest frequency (Hz) kept during reconstruction")
	flag.IntVar(&cfg.ReconFreqCount, "recon-freq-count", defaults.Reconstruction.FreqCount, "maximum bins kept per frame during reconstruction")
	flag.BoolVar(&cfg.PeakNormalize, "peak-normalize", defaults.Reconstruction.PeakNormalize, "peak-normalize the reconstructed signal")
	flag.Float64Var(&cfg.TargetPeak, "target-peak", defaults.Reconstruction.TargetPeak, "target peak amplitude when peak-normalize is set")

	flag.StringVar(&cfg.ConfigDir, "config", "", "configuration directory (default: ~/.config/spectroforge)")
	flag.Parse()

	if cfg.ConfigDir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			cfg.ConfigDir = home + "/.config/spectroforge"
		}
	}

	return cfg
}

func run(cli cliConfig) error {
	if cli.InPath == "" {
		flag.Usage()
		return fmt.Errorf("missing required -in flag")
	}

	colors := config.DefaultConfig().Colors
	if cli.ConfigDir != "" {
		mgr := config.NewManager(cli.ConfigDir)
		if err := mgr.Load(); err != nil {
			log.Printf("spectroforge: config load failed, continuing with defaults: %v", err)
		}
		colors = mgr.Get().Colors
	}

	f, err := os.Open(cli.InPath)
	if err != nil {
		return fmt.Errorf("opening input: %w", err)
	}
	defer f.Close()

	data, err := audiofile.LoadWAV(f)
	if err != nil {
		return fmt.Errorf("decoding input: %w", err)
	}
	log.Printf("spectroforge: loaded %s: %d samples at %d Hz (%s)", cli.InPath, len(data.Samples), data.SampleRate, data.Duration())

	params := dsp.Params{
		WindowLength:   cli.WindowLength,
		OverlapPercent: cli.OverlapPercent,
		WindowType:     dsp.ParseWindowType(cli.WindowType),
		KaiserBeta:     cli.KaiserBeta,
		UseCenter:      cli.UseCenter,
		SampleRate:     data.SampleRate,
		ZeroPadFactor:  cli.ZeroPadFactor,
		StartSample:    0,
		StopSample:     len(data.Samples),
	}
	if err := dsp.ValidateWindowLength(params.WindowLength); err != nil {
		return err
	}

	recon := pipeline.ReconstructionRequest{
		FreqMinHz:     cli.ReconFreqMinHz,
		FreqMaxHz:     cli.ReconFreqMaxHz,
		FreqCount:     cli.ReconFreqCount,
		PeakNormalize: cli.PeakNormalize,
		TargetPeak:    cli.TargetPeak,
	}

	sup := pipeline.NewSupervisor(4)
	gen := sup.Commit(data, params, recon)
	log.Printf("spectroforge: committed generation %d", gen)

	var reconstructed audio.Data
	var spec *spectrogram.Spectrogram
	for i := 0; i < 2; i++ {
		msg := <-sup.Messages()
		if !sup.IsCurrent(msg.Generation) {
			log.Printf("spectroforge: discarding stale generation %d message", msg.Generation)
			continue
		}
		switch msg.Kind {
		case pipeline.KindFFTComplete:
			spec = msg.Spectrogram
			log.Printf("spectroforge: spectrogram ready: %d frames x %d bins", spec.NumFrames(), spec.NumBins())
			if cli.CSVPath != "" {
				if err := exportCSV(cli, params, spec); err != nil {
					log.Printf("spectroforge: CSV export failed: %v", err)
				} else {
					log.Printf("spectroforge: wrote spectrogram metadata to %s", cli.CSVPath)
				}
			}
		case pipeline.KindReconstructionComplete:
			reconstructed = msg.Audio
			log.Printf("spectroforge: reconstruction ready: %d samples", len(reconstructed.Samples))
		}
	}

	if cli.OutPath != "" {
		if err := writeWAV(cli.OutPath, reconstructed); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
		log.Printf("spectroforge: wrote reconstructed audio to %s", cli.OutPath)
	}

	if cli.PNGPath != "" {
		if err := renderPNG(cli, colors, spec); err != nil {
			log.Printf("spectroforge: PNG render failed: %v", err)
		} else {
			log.Printf("spectroforge: wrote spectrogram image to %s", cli.PNGPath)
		}
	}

	if cli.Play {
		return playback(reconstructed)
	}
	return nil
}

func exportCSV(cli cliConfig, params dsp.Params, spec *spectrogram.Spectrogram) error {
	f, err := os.Create(cli.CSVPath)
	if err != nil {
		return err
	}
	defer f.Close()

	header := metadata.HeaderFromParams(params, params.WindowType.String(), 1, cli.ReconFreqMinHz, cli.ReconFreqMaxHz, cli.ReconFreqCount)
	return metadata.WriteCSV(f, spec, header)
}

// renderPNG rasterizes the spectrogram through a ColorLut built from the
// loaded colors config (honoring a Custom colormap's gradient stops) and
// writes it as a PNG.
func renderPNG(cli cliConfig, colors config.ColorsConfig, spec *spectrogram.Spectrogram) error {
	if spec == nil {
		return fmt.Errorf("no spectrogram available to render")
	}

	colormap := render.ParseColormapID(colors.Colormap)
	var customStops []render.GradientStop
	if colormap == render.Custom {
		hsvStops := make([]render.HSVStop, len(colors.CustomGradient))
		for i, s := range colors.CustomGradient {
			hsvStops[i] = render.HSVStop{Position: s.Position, H: s.H, S: s.S, V: s.V}
		}
		if len(hsvStops) == 0 {
			hsvStops = render.DefaultCustomGradientHSV
		}
		stops, err := render.NewCustomGradient(hsvStops)
		if err != nil {
			return fmt.Errorf("building custom gradient: %w", err)
		}
		customStops = stops
	}

	defaults := config.DefaultConfig()
	lut := render.NewColorLut(defaults.Display.ThresholdDB, defaults.Display.DBCeiling, defaults.Display.Brightness, defaults.Display.Gamma, colormap, customStops)
	renderer := render.NewSpectrogramRenderer(lut)

	view := render.DefaultViewState()
	view.Colormap = colormap
	view.CustomGradient = customStops
	if spec.NumFrames() > 0 {
		view.TimeMinSec = spec.Frame(0).TimeSeconds
		view.TimeMaxSec = spec.Frame(spec.NumFrames() - 1).TimeSeconds
	}
	if spec.NumBins() > 0 {
		view.FreqMaxHz = spec.Frame(0).Frequencies[spec.NumBins()-1]
		view.DataFreqMaxHz = view.FreqMaxHz
	}

	width, height := cli.RenderWidth, cli.RenderHeight
	buf := renderer.Render(spec, render.RenderParams{
		View:           view,
		ProcTimeMin:    view.TimeMinSec,
		ProcTimeMax:    view.TimeMaxSec,
		Width:          width,
		Height:         height,
		ReconFreqMin:   cli.ReconFreqMinHz,
		ReconFreqMax:   cli.ReconFreqMaxHz,
		ReconFreqCount: cli.ReconFreqCount,
	})

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for py := 0; py < height; py++ {
		for px := 0; px < width; px++ {
			off := (py*width + px) * 3
			img.SetRGBA(px, py, color.RGBA{R: buf[off], G: buf[off+1], B: buf[off+2], A: 255})
		}
	}

	f, err := os.Create(cli.PNGPath)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}

func writeWAV(path string, d audio.Data) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return audiofile.WriteWAV(f, d)
}

func playback(d audio.Data) error {
	engine := audio.NewEngine(audio.NewOtoSink())
	if err := engine.LoadAudio(d); err != nil {
		return fmt.Errorf("initializing playback device: %w", err)
	}
	engine.Play()

	done := make(chan os.Signal, 1)
	signal.Notify(done, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			engine.Stop()
			return nil
		case <-ticker.C:
			if engine.State() != audio.Playing {
				return nil
			}
		}
	}
}
