package internal

import (
	"fmt"

	"github.com/hbomb79/Reel/internal/api"
	"github.com/hbomb79/Reel/internal/artifact"
	"github.com/hbomb79/Reel/internal/browser"
	"github.com/hbomb79/Reel/internal/download"
	"github.com/hbomb79/Reel/internal/extract"
	"github.com/hbomb79/Reel/internal/ytdlp"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/mitchellh/go-homedir"
)

// ReelConfig is the struct used to contain the
// various user config supplied by file, environment,
// or manually inside the code.
type ReelConfig struct {
	Artifacts  artifact.Config `yaml:"artifacts"`
	Extraction extract.Config  `yaml:"extraction"`
	Download   download.Config `yaml:"download"`
	YtDlp      ytdlp.Config    `yaml:"ytdlp"`
	Browser    browser.Config  `yaml:"browser"`
	API        api.RestConfig  `yaml:"api"`
	LogLevel   string          `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
}

// LoadConfig reads the YAML configuration at configPath, with environment
// variables taking precedence. When configPath is empty only the environment
// (and the defaults) are consulted.
func LoadConfig(configPath string) (ReelConfig, error) {
	var config ReelConfig
	if configPath != "" {
		path, err := homedir.Expand(configPath)
		if err != nil {
			return config, fmt.Errorf("failed to resolve config path %s - %w", configPath, err)
		}

		if err := cleanenv.ReadConfig(path, &config); err != nil {
			return config, fmt.Errorf("failed to load configuration from %s - %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&config); err != nil {
		return config, fmt.Errorf("failed to load configuration from environment - %w", err)
	}

	if err := config.expandPaths(); err != nil {
		return config, err
	}

	return config, nil
}

// expandPaths resolves a leading '~' in any of the filesystem paths
// configured, as these are commonly supplied by hand.
func (config *ReelConfig) expandPaths() error {
	for _, path := range []*string{&config.Artifacts.Dir, &config.YtDlp.BinPath, &config.Browser.BinPath} {
		expanded, err := homedir.Expand(*path)
		if err != nil {
			return fmt.Errorf("failed to expand path %s - %w", *path, err)
		}

		*path = expanded
	}

	return nil
}
