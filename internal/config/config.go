// Package config loads prof-top settings from a TOML file. Every value
// has a default; a missing config file is not an error. The report
// defaults (top 20 operations, 10ms bottleneck threshold) match the
// tool's documented contract and only change when the user asks.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Report  ReportConfig
	Watch   WatchConfig
	Storage StorageConfig
}

type ReportConfig struct {
	TopEvents             int     `toml:"top_events"`
	BottleneckThresholdMS float64 `toml:"bottleneck_threshold_ms"`
}

type WatchConfig struct {
	RefreshRateMS int `toml:"refresh_rate_ms"`
}

type StorageConfig struct {
	// DBPath empty means run history is disabled.
	DBPath        string `toml:"db_path"`
	RetentionDays int    `toml:"retention_days"`
}

type LoadResult struct {
	Config   Config
	Warnings []string
}

func DefaultConfig() Config {
	return Config{
		Report: ReportConfig{
			TopEvents:             20,
			BottleneckThresholdMS: 10.0,
		},
		Watch: WatchConfig{
			RefreshRateMS: 2000,
		},
		Storage: StorageConfig{
			DBPath:        "",
			RetentionDays: 90,
		},
	}
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "prof-top", "config.toml")
}

// Load reads the config from the default location.
func Load() (*LoadResult, error) {
	return LoadFrom(defaultConfigPath())
}

// LoadFrom reads the config from path. A missing file yields the
// defaults with no warnings.
func LoadFrom(path string) (*LoadResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &LoadResult{Config: DefaultConfig()}, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return LoadFromString(string(data))
}

// LoadFromString parses config from TOML text. Unknown top-level keys
// produce warnings rather than errors so that a future config does not
// break an older binary.
func LoadFromString(data string) (*LoadResult, error) {
	result := &LoadResult{Config: DefaultConfig()}

	if data == "" {
		return result, nil
	}

	var raw map[string]any
	if _, err := toml.Decode(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	knownTopLevel := map[string]bool{
		"report":  true,
		"watch":   true,
		"storage": true,
	}
	for key := range raw {
		if !knownTopLevel[key] {
			result.Warnings = append(result.Warnings, fmt.Sprintf("unknown config key: %q", key))
		}
	}

	var tf tomlFile
	if _, err := toml.Decode(data, &tf); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	mergeFromRaw(&result.Config, &tf, raw)

	if err := validate(&result.Config); err != nil {
		return nil, err
	}

	return result, nil
}

// tomlFile uses pointer sections so that a section absent from the file
// cannot clobber defaults with zero values.
type tomlFile struct {
	Report  *ReportConfig  `toml:"report"`
	Watch   *WatchConfig   `toml:"watch"`
	Storage *StorageConfig `toml:"storage"`
}

func mergeFromRaw(cfg *Config, tf *tomlFile, raw map[string]any) {
	if tf.Report != nil {
		if section, ok := rawSection(raw, "report"); ok {
			if _, exists := section["top_events"]; exists {
				cfg.Report.TopEvents = tf.Report.TopEvents
			}
			if _, exists := section["bottleneck_threshold_ms"]; exists {
				cfg.Report.BottleneckThresholdMS = tf.Report.BottleneckThresholdMS
			}
		}
	}
	if tf.Watch != nil {
		if section, ok := rawSection(raw, "watch"); ok {
			if _, exists := section["refresh_rate_ms"]; exists {
				cfg.Watch.RefreshRateMS = tf.Watch.RefreshRateMS
			}
		}
	}
	if tf.Storage != nil {
		if section, ok := rawSection(raw, "storage"); ok {
			if _, exists := section["db_path"]; exists {
				cfg.Storage.DBPath = tf.Storage.DBPath
			}
			if _, exists := section["retention_days"]; exists {
				cfg.Storage.RetentionDays = tf.Storage.RetentionDays
			}
		}
	}
}

func rawSection(raw map[string]any, key string) (map[string]any, bool) {
	v, ok := raw[key]
	if !ok {
		return nil, false
	}
	m, ok := v.(map[string]any)
	return m, ok
}

func validate(cfg *Config) error {
	var errs []string

	if cfg.Report.TopEvents < 1 {
		errs = append(errs, fmt.Sprintf("report top_events must be positive, got %d", cfg.Report.TopEvents))
	}
	if cfg.Report.BottleneckThresholdMS <= 0 {
		errs = append(errs, fmt.Sprintf("report bottleneck_threshold_ms must be positive, got %f", cfg.Report.BottleneckThresholdMS))
	}
	if cfg.Watch.RefreshRateMS < 1 {
		errs = append(errs, fmt.Sprintf("watch refresh_rate_ms must be positive, got %d", cfg.Watch.RefreshRateMS))
	}
	if cfg.Storage.RetentionDays < 1 {
		errs = append(errs, fmt.Sprintf("storage retention_days must be positive, got %d", cfg.Storage.RetentionDays))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation error: %s", strings.Join(errs, "; "))
	}
	return nil
}
