package config

import (
	stderrors "errors"
	"fmt"
	"os"
	"strings"

	"cancerscope/internal/errors"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. CANCERSCOPE_DEMO_SEED
const EnvPrefix = "CANCERSCOPE"

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server" yaml:"server" json:"server"`
	Data     DataConfig     `mapstructure:"data" yaml:"data" json:"data"`
	Demo     DemoConfig     `mapstructure:"demo" yaml:"demo" json:"demo"`
	Analysis AnalysisConfig `mapstructure:"analysis" yaml:"analysis" json:"analysis"`
	Charts   ChartsConfig   `mapstructure:"charts" yaml:"charts" json:"charts"`
	Log      LogConfig      `mapstructure:"log" yaml:"log" json:"log"`
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port        string `mapstructure:"port" yaml:"port" json:"port"`
	GinMode     string `mapstructure:"gin_mode" yaml:"gin_mode" json:"gin_mode"`
	MaxUploadMB int    `mapstructure:"max_upload_mb" yaml:"max_upload_mb" json:"max_upload_mb"`
}

// DataConfig holds ingestion settings
type DataConfig struct {
	File           string `mapstructure:"file" yaml:"file" json:"file"` // loaded at startup when set
	Sheet          string `mapstructure:"sheet" yaml:"sheet" json:"sheet"`
	MaxRows        int    `mapstructure:"max_rows" yaml:"max_rows" json:"max_rows"`
	RegionColumn   string `mapstructure:"region_column" yaml:"region_column" json:"region_column"`
	FallbackToDemo bool   `mapstructure:"fallback_to_demo" yaml:"fallback_to_demo" json:"fallback_to_demo"`
}

// DemoConfig holds the synthetic dataset settings
type DemoConfig struct {
	Seed int64 `mapstructure:"seed" yaml:"seed" json:"seed"`
	Rows int   `mapstructure:"rows" yaml:"rows" json:"rows"`
}

// AnalysisConfig holds computation settings
type AnalysisConfig struct {
	CacheSize     int `mapstructure:"cache_size" yaml:"cache_size" json:"cache_size"`
	HistogramBins int `mapstructure:"histogram_bins" yaml:"histogram_bins" json:"histogram_bins"`
	TopPairs      int `mapstructure:"top_pairs" yaml:"top_pairs" json:"top_pairs"`
}

// ChartsConfig holds renderer canvas size
type ChartsConfig struct {
	WidthInches  float64 `mapstructure:"width_inches" yaml:"width_inches" json:"width_inches"`
	HeightInches float64 `mapstructure:"height_inches" yaml:"height_inches" json:"height_inches"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level" json:"level"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Server:   ServerConfig{Port: "8080", GinMode: "release", MaxUploadMB: 32},
		Data:     DataConfig{RegionColumn: "Region", FallbackToDemo: true},
		Demo:     DemoConfig{Seed: 42, Rows: 100},
		Analysis: AnalysisConfig{CacheSize: 256, HistogramBins: 10, TopPairs: 5},
		Charts:   ChartsConfig{WidthInches: 10, HeightInches: 6},
		Log:      LogConfig{Level: "INFO"},
	}
}

// legacyEnv maps config keys to the unprefixed variables older deployments set
var legacyEnv = map[string]string{
	"server.port":     "PORT",
	"server.gin_mode": "GIN_MODE",
	"log.level":       "LOG_LEVEL",
	"data.file":       "DATA_FILE",
}

// Load reads configuration with precedence env > config file > defaults.
// An explicit cfgFile must exist; otherwise ./cancerscope.yaml is optional.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v, Default())

	for key, legacy := range legacyEnv {
		prefixed := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, prefixed, legacy); err != nil {
			return nil, errors.Wrapf(err, "bind env for %s", key)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.WithCode(errors.CodeConfigInvalid, fmt.Errorf("read config %s: %w", cfgFile, err))
		}
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("cancerscope")
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !stderrors.As(err, &notFound) {
				return nil, errors.WithCode(errors.CodeConfigInvalid, fmt.Errorf("read config: %w", err))
			}
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, errors.WithCode(errors.CodeConfigInvalid, fmt.Errorf("unmarshal config: %w", err))
	}
	if err := validateConfig(&c); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return &c, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.gin_mode", d.Server.GinMode)
	v.SetDefault("server.max_upload_mb", d.Server.MaxUploadMB)
	v.SetDefault("data.file", d.Data.File)
	v.SetDefault("data.sheet", d.Data.Sheet)
	v.SetDefault("data.max_rows", d.Data.MaxRows)
	v.SetDefault("data.region_column", d.Data.RegionColumn)
	v.SetDefault("data.fallback_to_demo", d.Data.FallbackToDemo)
	v.SetDefault("demo.seed", d.Demo.Seed)
	v.SetDefault("demo.rows", d.Demo.Rows)
	v.SetDefault("analysis.cache_size", d.Analysis.CacheSize)
	v.SetDefault("analysis.histogram_bins", d.Analysis.HistogramBins)
	v.SetDefault("analysis.top_pairs", d.Analysis.TopPairs)
	v.SetDefault("charts.width_inches", d.Charts.WidthInches)
	v.SetDefault("charts.height_inches", d.Charts.HeightInches)
	v.SetDefault("log.level", d.Log.Level)
}

func validateConfig(c *Config) error {
	if c.Server.Port == "" {
		return errors.ConfigInvalid("server port is required")
	}
	switch c.Server.GinMode {
	case "debug", "release", "test":
	default:
		return errors.ConfigInvalid(fmt.Sprintf("gin mode must be debug, release or test, got %q", c.Server.GinMode))
	}
	if c.Server.MaxUploadMB <= 0 {
		return errors.ConfigInvalid("max upload size must be positive")
	}
	if c.Demo.Rows <= 0 {
		return errors.ConfigInvalid("demo rows must be positive")
	}
	if c.Data.MaxRows < 0 {
		return errors.ConfigInvalid("max rows cannot be negative")
	}
	if c.Analysis.CacheSize <= 0 {
		return errors.ConfigInvalid("analysis cache size must be positive")
	}
	if c.Analysis.HistogramBins <= 0 {
		return errors.ConfigInvalid("histogram bins must be positive")
	}
	if c.Data.RegionColumn == "" {
		return errors.ConfigInvalid("region column name is required")
	}
	return nil
}

// WriteDefault writes the built-in configuration as YAML to path
func WriteDefault(path string) error {
	b, err := yaml.Marshal(Default())
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
