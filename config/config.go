package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
	"github.com/k1LoW/expand"
)

const appName = "iconstub"

var (
	homePath       string
	configHomePath string
	stateHomePath  string
)

type Config struct {
	// Directory the icons are written to. Relative to the working directory
	OutputDir string `yaml:"outputDir,omitempty" json:"outputDir,omitempty"`
	// Integrity field mode: placeholder or computed
	CRC string `yaml:"crc,omitempty" json:"crc,omitempty"`
	// Icons to emit, in order. Empty means the default set
	Icons []Icon `yaml:"icons,omitempty" json:"icons,omitempty"`

	path string
}

type Icon struct {
	Width  uint32 `yaml:"width" json:"width"`
	Height uint32 `yaml:"height,omitempty" json:"height,omitempty"` // defaults to width
	Name   string `yaml:"name,omitempty" json:"name,omitempty"`     // defaults to iconN.png or iconWxH.png
}

func init() {
	var err error
	homePath, err = os.UserHomeDir()
	if err != nil {
		panic(fmt.Sprintf("failed to get home directory: %v", err))
	}
}

// Load loads the configuration from the config file.
// It searches for config files in the following order:
// 1. $XDG_CONFIG_HOME/iconstub/config-{profile}.yml
// 2. $XDG_CONFIG_HOME/iconstub/config.yml
// If no config file is found, it returns an empty Config struct.
func Load(profile string) (*Config, error) {
	cfg := &Config{}
	for _, p := range Candidates(profile) {
		b, err := os.ReadFile(p)
		if err != nil {
			continue
		}
		if err := yaml.Unmarshal(expand.ExpandenvYAMLBytes(b), cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config %s: %w", p, err)
		}
		cfg.path = p
		return cfg, nil
	}
	// If no config file is found, return an empty config
	return cfg, nil
}

// Candidates returns the config file paths in search order.
func Candidates(profile string) []string {
	var configBasePaths []string
	if profile != "" {
		configBasePaths = append(configBasePaths, filepath.Join(configPath(), fmt.Sprintf("config-%s", profile)))
	}
	configBasePaths = append(configBasePaths, filepath.Join(configPath(), "config"))
	var paths []string
	for _, basePath := range configBasePaths {
		for _, ext := range []string{".yml", ".yaml"} {
			paths = append(paths, basePath+ext)
		}
	}
	return paths
}

// Path returns the path of the loaded config file, or "" when none was found.
func (c *Config) Path() string {
	return c.path
}

// ConfigHomePath returns the path to the configuration directory.
func ConfigHomePath() string {
	return configPath()
}

// configPath returns the path to the configuration directory.
func configPath() string {
	if configHomePath != "" {
		return configHomePath
	}
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		configHomePath = filepath.Join(v, appName)
	} else {
		configHomePath = filepath.Join(homePath, ".config", appName)
	}
	return configHomePath
}

func StateHomePath() string {
	if stateHomePath != "" {
		return stateHomePath
	}
	if v := os.Getenv("XDG_STATE_HOME"); v != "" {
		stateHomePath = filepath.Join(v, appName)
	} else {
		stateHomePath = filepath.Join(homePath, ".local", "state", appName)
	}
	return stateHomePath
}
