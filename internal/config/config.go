// Package config loads the daemon configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
	"github.com/zxhio/linkframe/internal/capture"
	"github.com/zxhio/linkframe/pkg/frame"
)

var (
	ErrUnsupportedFormat = errors.New("config: unsupported format")
	ErrLoadFailed        = errors.New("config: load failed")
	ErrParseFailed       = errors.New("config: parse failed")
	ErrInvalid           = errors.New("config: invalid")
)

type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

type Config struct {
	Listen       string        `koanf:"listen"`
	Backend      string        `koanf:"backend"`
	SnapLen      int           `koanf:"snap_len"`
	PollInterval time.Duration `koanf:"poll_interval"`
	Devices      []string      `koanf:"devices"`
	Pprof        string        `koanf:"pprof"`
	Verbose      bool          `koanf:"verbose"`
	Log          LogConfig     `koanf:"log"`
}

type LogConfig struct {
	File       string `koanf:"file"`
	MaxSize    int    `koanf:"max_size"` // megabytes
	MaxBackups int    `koanf:"max_backups"`
	MaxAge     int    `koanf:"max_age"` // days
	Compress   bool   `koanf:"compress"`
}

func Default() Config {
	return Config{
		Listen:       "127.0.0.1:9922",
		Backend:      "afpacket",
		SnapLen:      capture.DefaultSnapLen,
		PollInterval: time.Millisecond,
		Log: LogConfig{
			File:       "/var/log/linkframe/linkframed.log",
			MaxSize:    100,
			MaxBackups: 10,
			MaxAge:     60,
			Compress:   true,
		},
	}
}

// Load reads path, picking the parser from its extension. Keys missing from
// the file keep their Default value.
func Load(path string) (*Config, error) {
	format, err := detectFormat(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}
	return LoadBytes(data, format)
}

func LoadBytes(data []byte, format Format) (*Config, error) {
	var parser koanf.Parser
	switch format {
	case FormatYAML:
		parser = yaml.Parser()
	case FormatJSON:
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}

	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider(data), parser); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParseFailed, err)
	}

	cfg := Default()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParseFailed, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Listen == "" {
		return fmt.Errorf("%w: empty listen address", ErrInvalid)
	}
	if c.SnapLen < frame.MinLen || c.SnapLen > 0xffff {
		return fmt.Errorf("%w: snap_len %d out of range [%d, %d]", ErrInvalid, c.SnapLen, frame.MinLen, 0xffff)
	}
	if c.PollInterval < 0 {
		return fmt.Errorf("%w: negative poll_interval %s", ErrInvalid, c.PollInterval)
	}
	if _, err := capture.ByName(c.Backend); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	seen := make(map[string]bool, len(c.Devices))
	for _, name := range c.Devices {
		if name == "" {
			return fmt.Errorf("%w: empty device name", ErrInvalid)
		}
		if seen[name] {
			return fmt.Errorf("%w: duplicate device %s", ErrInvalid, name)
		}
		seen[name] = true
	}
	return nil
}

// CaptureConfig returns the capture settings for every configured device.
func (c *Config) CaptureConfig() capture.Config {
	cfg := capture.DefaultConfig()
	cfg.SnapLen = c.SnapLen
	return cfg
}

func detectFormat(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: unknown extension %s", ErrUnsupportedFormat, ext)
	}
}
