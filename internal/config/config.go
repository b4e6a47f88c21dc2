package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/prsauer/wow-recorder/internal/logging"
)

// Config is the top-level configuration for the recorder daemon.
type Config struct {
	Recording RecordingConfig `toml:"recording"`
	Engine    EngineConfig    `toml:"engine"`
	Server    ServerConfig    `toml:"server"`
	MQTT      MQTTConfig      `toml:"mqtt"`
	Storage   StorageConfig   `toml:"storage"`
}

// RecordingConfig holds the per-session recording options.
type RecordingConfig struct {
	CaptureMode       string `toml:"captureMode"`      // "monitor" or "window"
	MonitorIndex      int    `toml:"monitorIndex"`     // 1-based
	OutputResolution  string `toml:"outputResolution"` // "WxH"
	FrameRate         int    `toml:"frameRate"`
	BitrateKbps       int    `toml:"bitrateKbps"`
	Encoder           string `toml:"encoder"` // encoder id or "auto"
	StorageDir        string `toml:"storageDir"`
	AudioInputDevice  string `toml:"audioInputDevice"`  // "all", "none", or device id
	AudioOutputDevice string `toml:"audioOutputDevice"` // same domain
}

// EngineConfig holds the capture engine's deployment settings.
type EngineConfig struct {
	WorkingDir string `toml:"workingDir"`
	DataDir    string `toml:"dataDir"`
	Locale     string `toml:"locale"`
}

// ServerConfig holds the HTTP control server settings.
type ServerConfig struct {
	Port int `toml:"port"`
}

// MQTTConfig holds the remote trigger settings. An empty broker
// disables the MQTT monitor entirely.
type MQTTConfig struct {
	Broker      string `toml:"broker"` // e.g. "tcp://192.168.1.10:1883"
	TopicPrefix string `toml:"topicPrefix"`
}

// StorageConfig caps the recordings directory size.
type StorageConfig struct {
	MaxStorageGB int `toml:"maxStorageGB"` // 0 = unlimited
}

// GetInstallDir returns the per-user directory holding the config file,
// logs, engine data and default recordings directory.
func GetInstallDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".wow-recorder")
}

// DefaultConfigPath returns the config file location used when no
// explicit -config flag is given.
func DefaultConfigPath() string {
	return filepath.Join(GetInstallDir(), "config.toml")
}

// LoadConfig reads the TOML config at path, extracting the embedded
// default file first if none exists, and fills unset fields with
// defaults.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigPath()
	}

	if err := ExtractDefaultConfig(path); err != nil {
		return nil, fmt.Errorf("failed to extract default config: %w", err)
	}

	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	logging.InfoLogger.Printf("Loaded config from %s", path)

	cfg.applyDefaults()
	return &cfg, nil
}

// applyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) applyDefaults() {
	if c.Recording.CaptureMode == "" {
		c.Recording.CaptureMode = "monitor"
	}
	if c.Recording.MonitorIndex == 0 {
		c.Recording.MonitorIndex = 1
	}
	if c.Recording.OutputResolution == "" {
		c.Recording.OutputResolution = "1920x1080"
	}
	if c.Recording.FrameRate == 0 {
		c.Recording.FrameRate = 60
	}
	if c.Recording.BitrateKbps == 0 {
		c.Recording.BitrateKbps = 12000
	}
	if c.Recording.Encoder == "" {
		c.Recording.Encoder = "auto"
	}
	if c.Recording.StorageDir == "" {
		c.Recording.StorageDir = filepath.Join(GetInstallDir(), "recordings")
	}
	if c.Recording.AudioInputDevice == "" {
		c.Recording.AudioInputDevice = "all"
	}
	if c.Recording.AudioOutputDevice == "" {
		c.Recording.AudioOutputDevice = "all"
	}
	if c.Engine.WorkingDir == "" {
		c.Engine.WorkingDir = GetInstallDir()
	}
	if c.Engine.DataDir == "" {
		c.Engine.DataDir = filepath.Join(GetInstallDir(), "engine-data")
	}
	if c.Engine.Locale == "" {
		c.Engine.Locale = "en-US"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8090
	}
	if c.MQTT.TopicPrefix == "" {
		c.MQTT.TopicPrefix = "recorder"
	}
}

// Validate rejects configurations the recorder cannot act on.
func (c *Config) Validate() error {
	switch c.Recording.CaptureMode {
	case "monitor", "window":
	default:
		return fmt.Errorf("invalid captureMode %q: must be \"monitor\" or \"window\"", c.Recording.CaptureMode)
	}
	if c.Recording.MonitorIndex < 1 {
		return fmt.Errorf("invalid monitorIndex %d: indices start at 1", c.Recording.MonitorIndex)
	}
	if _, _, err := parseResolutionString(c.Recording.OutputResolution); err != nil {
		return fmt.Errorf("invalid outputResolution %q: %w", c.Recording.OutputResolution, err)
	}
	if c.Recording.FrameRate < 1 {
		return fmt.Errorf("invalid frameRate %d", c.Recording.FrameRate)
	}
	if c.Recording.BitrateKbps < 1 {
		return fmt.Errorf("invalid bitrateKbps %d", c.Recording.BitrateKbps)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Storage.MaxStorageGB < 0 {
		return fmt.Errorf("invalid maxStorageGB %d", c.Storage.MaxStorageGB)
	}
	return nil
}

// MaxStorageBytes converts the configured cap to bytes, 0 when
// unlimited.
func (c *Config) MaxStorageBytes() int64 {
	return int64(c.Storage.MaxStorageGB) * 1024 * 1024 * 1024
}

// parseResolutionString parses "WIDTHxHEIGHT" into its dimensions.
func parseResolutionString(s string) (int, int, error) {
	xIdx := strings.Index(s, "x")
	if xIdx < 0 {
		return 0, 0, fmt.Errorf("missing x separator in dimensions")
	}
	w, err := strconv.Atoi(s[:xIdx])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid width: %w", err)
	}
	h, err := strconv.Atoi(s[xIdx+1:])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid height: %w", err)
	}
	if w < 1 || h < 1 {
		return 0, 0, fmt.Errorf("dimensions must be positive")
	}
	return w, h, nil
}
