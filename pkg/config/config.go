// Package config loads primfit settings. Sources, lowest precedence first:
// built-in defaults, a YAML config file, a .env file, PRIMFIT_* environment
// variables, and command-line flags bound by the caller.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable, e.g. PRIMFIT_TOLERANCE.
const EnvPrefix = "PRIMFIT"

// Keys.
const (
	KeyTolerance  = "tolerance"
	KeyLogLevel   = "log-level"
	KeyResolution = "resolution"
	KeyFormat     = "format"
	KeyWorkers    = "workers"
	KeyTimeout    = "timeout"
)

// Output formats.
const (
	FormatSCAD = "scad"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Formats lists the accepted output formats.
var Formats = []string{FormatSCAD, FormatJSON, FormatYAML}

// Config is the resolved configuration.
type Config struct {
	Tolerance  float64       `json:"tolerance" yaml:"tolerance"`
	LogLevel   string        `json:"log_level" yaml:"log_level"`
	Resolution int           `json:"resolution" yaml:"resolution"`
	Format     string        `json:"format" yaml:"format"`
	Workers    int           `json:"workers" yaml:"workers"`
	Timeout    time.Duration `json:"timeout" yaml:"timeout"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Tolerance:  0.1,
		LogLevel:   "info",
		Resolution: 100,
		Format:     FormatSCAD,
		Workers:    4,
		Timeout:    5 * time.Second,
	}
}

// SetDefaults registers the built-in values on v.
func SetDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault(KeyTolerance, d.Tolerance)
	v.SetDefault(KeyLogLevel, d.LogLevel)
	v.SetDefault(KeyResolution, d.Resolution)
	v.SetDefault(KeyFormat, d.Format)
	v.SetDefault(KeyWorkers, d.Workers)
	v.SetDefault(KeyTimeout, d.Timeout)
}

// Load resolves the configuration from v. configFile and envFile are
// optional; a missing envFile is not an error, a missing configFile is.
func Load(v *viper.Viper, configFile, envFile string) (Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", configFile, err)
		}
	}
	if envFile != "" {
		if err := mergeEnvFile(v, envFile); err != nil {
			return Config{}, err
		}
	}

	cfg := Config{
		Tolerance:  v.GetFloat64(KeyTolerance),
		LogLevel:   v.GetString(KeyLogLevel),
		Resolution: v.GetInt(KeyResolution),
		Format:     strings.ToLower(v.GetString(KeyFormat)),
		Workers:    v.GetInt(KeyWorkers),
		Timeout:    v.GetDuration(KeyTimeout),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// mergeEnvFile reads PRIMFIT_* entries from a .env file into the config
// layer of v, so real environment variables still win.
func mergeEnvFile(v *viper.Viper, path string) error {
	values, err := godotenv.Read(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}

	layer := make(map[string]any)
	for key, value := range values {
		name, ok := strings.CutPrefix(key, EnvPrefix+"_")
		if !ok {
			continue
		}
		layer[strings.ReplaceAll(strings.ToLower(name), "_", "-")] = value
	}
	if len(layer) == 0 {
		return nil
	}
	return v.MergeConfigMap(layer)
}

// Validate rejects values no command can run with.
func (c Config) Validate() error {
	var errs []error
	if !(c.Tolerance > 0) {
		errs = append(errs, fmt.Errorf("tolerance must be positive, got %g", c.Tolerance))
	}
	if c.Resolution <= 0 {
		errs = append(errs, fmt.Errorf("resolution must be positive, got %d", c.Resolution))
	}
	if c.Workers <= 0 {
		errs = append(errs, fmt.Errorf("workers must be positive, got %d", c.Workers))
	}
	if c.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("timeout must be positive, got %s", c.Timeout))
	}
	if !validFormat(c.Format) {
		errs = append(errs, fmt.Errorf("unknown format %q, expected one of %s", c.Format, strings.Join(Formats, ", ")))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

func validFormat(f string) bool {
	for _, known := range Formats {
		if f == known {
			return true
		}
	}
	return false
}
