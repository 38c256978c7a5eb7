package config

import (
	"fmt"
	"path/filepath"
	"reflect"
	"strconv"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// Load reads and decodes a TOML config file at path, applying defaults
// and running semantic validation before returning. An empty path falls
// back to "config.toml" in the current directory, the same convention the
// reference loader uses.
func Load(path string) (*ServerConfig, error) {
	if path == "" {
		path = "config.toml"
	}

	v := viper.New()
	v.SetConfigFile(path)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg ServerConfig
	if err := v.Unmarshal(&cfg, viper.DecodeHook(durationDecodeHook())); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	absBase, err := filepath.Abs(cfg.BaseDir)
	if err != nil {
		return nil, fmt.Errorf("resolving basedir: %w", err)
	}
	cfg.BaseDir = absBase

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("Ports", []int{80})
	v.SetDefault("SecurePorts", []int{443})
	v.SetDefault("PlaintextPolicy", string(PlaintextNone))
	v.SetDefault("CacheSize", 4*1024*1024)
	v.SetDefault("UploadMaxUnitSize", 1*1024*1024)
	v.SetDefault("UploadMaxStorage", 16*1024*1024)
	v.SetDefault("SafeHooks", true)
	v.SetDefault("WatchRecursive", false)
	v.SetDefault("WatchDebounce", "200ms")
	v.SetDefault("LogLevel", "info")
	v.SetDefault("LogFilePath", "")
	v.SetDefault("LogMaxSize", 100)
	v.SetDefault("LogMaxBackups", 10)
	v.SetDefault("LogCompress", true)
}

// applyDefaults fills in zero-valued fields viper's SetDefault can't reach
// because Unmarshal only applies a default when the key is entirely
// absent from the file; an explicit empty list still decodes to nil.
func applyDefaults(cfg *ServerConfig) {
	if len(cfg.Ports) == 0 {
		cfg.Ports = []int{80}
	}
	if len(cfg.SecurePorts) == 0 {
		cfg.SecurePorts = []int{443}
	}
	if cfg.PlaintextPolicy == "" {
		cfg.PlaintextPolicy = PlaintextNone
	}
	if cfg.CacheSize == 0 {
		cfg.CacheSize = 4 * 1024 * 1024
	}
	if cfg.UploadMaxUnitSize == 0 {
		cfg.UploadMaxUnitSize = 1 * 1024 * 1024
	}
	if cfg.UploadMaxStorage == 0 {
		cfg.UploadMaxStorage = 16 * 1024 * 1024
	}
	if cfg.WatchDebounce.Value() == 0 {
		cfg.WatchDebounce = Duration(200 * time.Millisecond)
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
}

func durationDecodeHook() mapstructure.DecodeHookFunc {
	targetType := reflect.TypeOf(Duration(0))

	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != targetType {
			return data, nil
		}
		switch v := data.(type) {
		case string:
			if v == "" {
				return Duration(0), nil
			}
			if parsed, err := time.ParseDuration(v); err == nil {
				return Duration(parsed), nil
			}
			if seconds, err := strconv.ParseFloat(v, 64); err == nil {
				return Duration(time.Duration(seconds * float64(time.Second))), nil
			}
			return nil, fmt.Errorf("cannot parse Duration field: %s", v)
		case int:
			return Duration(time.Duration(v) * time.Second), nil
		case int64:
			return Duration(time.Duration(v) * time.Second), nil
		case float64:
			return Duration(time.Duration(v * float64(time.Second))), nil
		case time.Duration:
			return Duration(v), nil
		case Duration:
			return v, nil
		default:
			return nil, fmt.Errorf("unsupported Duration type: %T", v)
		}
	}
}
