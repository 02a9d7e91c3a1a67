package neomedia

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. NEOMEDIA_LOG_LEVEL or
// NEOMEDIA_AUDIO_ECHO_CANCEL.
const EnvPrefix = "NEOMEDIA"

type Config struct {
	// LibraryDir is searched for native libraries before system paths.
	LibraryDir string        `mapstructure:"library_dir"`
	LogLevel   string        `mapstructure:"log_level"`
	LogFormat  string        `mapstructure:"log_format"` // text or json
	Video      VideoConfig   `mapstructure:"video"`
	Audio      AudioConfig   `mapstructure:"audio"`
	Capture    CaptureConfig `mapstructure:"capture"`
}

type VideoConfig struct {
	Enabled   bool `mapstructure:"enabled"`
	FrameRate int  `mapstructure:"frame_rate"`
	BitRate   int  `mapstructure:"bit_rate"`
}

type AudioConfig struct {
	Enabled          bool          `mapstructure:"enabled"`
	SuggestedLatency time.Duration `mapstructure:"suggested_latency"` // 0 uses the device default
	Denoise          bool          `mapstructure:"denoise"`
	EchoCancel       bool          `mapstructure:"echo_cancel"`
	EchoFilterLength time.Duration `mapstructure:"echo_filter_length"`
}

type CaptureConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Category string `mapstructure:"category"` // video or audio
}

// DefaultConfig returns the configuration used when no file or environment
// override is present.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:  "info",
		LogFormat: "text",
		Video: VideoConfig{
			Enabled:   true,
			FrameRate: 15,
			BitRate:   128000,
		},
		Audio: AudioConfig{
			Enabled:          true,
			Denoise:          true,
			EchoCancel:       true,
			EchoFilterLength: 100 * time.Millisecond,
		},
		Capture: CaptureConfig{
			Enabled:  true,
			Category: "video",
		},
	}
}

func setDefaults(v *viper.Viper, c *Config) {
	v.SetDefault("library_dir", c.LibraryDir)
	v.SetDefault("log_level", c.LogLevel)
	v.SetDefault("log_format", c.LogFormat)
	v.SetDefault("video.enabled", c.Video.Enabled)
	v.SetDefault("video.frame_rate", c.Video.FrameRate)
	v.SetDefault("video.bit_rate", c.Video.BitRate)
	v.SetDefault("audio.enabled", c.Audio.Enabled)
	v.SetDefault("audio.suggested_latency", c.Audio.SuggestedLatency)
	v.SetDefault("audio.denoise", c.Audio.Denoise)
	v.SetDefault("audio.echo_cancel", c.Audio.EchoCancel)
	v.SetDefault("audio.echo_filter_length", c.Audio.EchoFilterLength)
	v.SetDefault("capture.enabled", c.Capture.Enabled)
	v.SetDefault("capture.category", c.Capture.Category)
}

// LoadConfig reads cfgFile, or neomedia.yaml from the working directory and
// the system config directory when cfgFile is empty. A missing default file
// is not an error. Environment variables override both.
func LoadConfig(cfgFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("neomedia")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(configDir())
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "neomedia: read config")
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, "neomedia: decode config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports settings that Open cannot honour.
func (c *Config) Validate() error {
	switch c.Capture.Category {
	case "video", "audio":
	default:
		return errors.Errorf("neomedia: capture.category must be video or audio, got %q", c.Capture.Category)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return errors.Errorf("neomedia: log_format must be text or json, got %q", c.LogFormat)
	}
	if c.Video.FrameRate < 0 || c.Video.BitRate < 0 {
		return errors.New("neomedia: video frame_rate and bit_rate must not be negative")
	}
	if c.Audio.SuggestedLatency < 0 || c.Audio.EchoFilterLength < 0 {
		return errors.New("neomedia: audio durations must not be negative")
	}
	return nil
}

func configDir() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("ProgramData"), "neomedia")
	case "darwin":
		return "/Library/Application Support/neomedia"
	default:
		return "/etc/neomedia"
	}
}
