package server

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/iwvelando/capital-shares/internal/config"
	"github.com/iwvelando/capital-shares/pkg/constants"
	"github.com/iwvelando/capital-shares/pkg/validation"
	"gopkg.in/yaml.v3"
)

// Config defines runtime parameters for the share API server.
type Config struct {
	Address string `yaml:"address"`
	// MaxUploadSize caps allocate request bodies, household files posted to
	// /api/v1/allocate/upload included. Accepts B, K or M suffixes.
	MaxUploadSize string               `yaml:"maxUploadSize"`
	Defaults      Defaults             `yaml:"defaults"`
	Logging       config.LoggingConfig `yaml:"logging"`
	uploadBytes   int64
}

// Defaults fill in allocate requests that leave a field empty.
type Defaults struct {
	Rounding string `yaml:"rounding" validate:"omitempty,oneof=half-even half-away-from-zero"`
	Language string `yaml:"language" validate:"omitempty,oneof=en ru"`
}

// rounding returns requested, or the configured default when it is empty.
func (d Defaults) rounding(requested string) string {
	if requested != "" {
		return requested
	}
	return d.Rounding
}

// language returns requested, or the configured default when it is empty.
func (d Defaults) language(requested string) string {
	if requested != "" {
		return requested
	}
	return d.Language
}

// DefaultConfig returns the settings used when no server configuration
// file exists.
func DefaultConfig() *Config {
	return &Config{
		Address:       constants.DefaultServerAddress,
		MaxUploadSize: strconv.FormatInt(constants.DefaultMaxBodySizeBytes, 10),
		Defaults: Defaults{
			Rounding: constants.DefaultRounding,
			Language: constants.DefaultLanguage,
		},
		uploadBytes: constants.DefaultMaxBodySizeBytes,
	}
}

// LoadConfig loads the API server configuration from YAML. If the file does not exist,
// defaults are returned without error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read server config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse server config: %w", err)
	}

	if err := validation.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid server config: %w", validation.Error(err))
	}

	size, err := parseSize(cfg.MaxUploadSize)
	if err != nil {
		return nil, err
	}
	cfg.uploadBytes = size

	if cfg.Address == "" {
		cfg.Address = constants.DefaultServerAddress
	}
	return cfg, nil
}

// UploadLimit returns the request body limit in bytes.
func (c *Config) UploadLimit() int64 {
	if c.uploadBytes <= 0 {
		return constants.DefaultMaxBodySizeBytes
	}
	return c.uploadBytes
}

// parseSize converts "64K" style sizes into bytes. A household file is a
// few hundred bytes, so nothing above megabytes is accepted.
func parseSize(value string) (int64, error) {
	upper := strings.ToUpper(strings.TrimSpace(value))
	if upper == "" {
		return constants.DefaultMaxBodySizeBytes, nil
	}

	multiplier := int64(1)
	switch {
	case strings.HasSuffix(upper, "KB"), strings.HasSuffix(upper, "K"):
		multiplier = 1024
	case strings.HasSuffix(upper, "MB"), strings.HasSuffix(upper, "M"):
		multiplier = 1024 * 1024
	}
	digits := strings.TrimSpace(strings.TrimRight(upper, "KMB"))

	n, err := strconv.ParseInt(digits, 10, 32)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid upload size %q", value)
	}
	return n * multiplier, nil
}
