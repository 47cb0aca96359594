package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	fwerrors "github.com/maksimkurb/fwgen/src/internal/errors"
	"github.com/maksimkurb/fwgen/src/internal/log"
)

// LoadConfig reads and parses the configuration file. It does not validate it.
func LoadConfig(configPath string) (*Config, error) {
	configFile := filepath.Clean(configPath)

	if !filepath.IsAbs(configFile) {
		if path, err := filepath.Abs(configFile); err != nil {
			return nil, fwerrors.NewConfigError("failed to get absolute path", err)
		} else {
			configFile = path
		}
	}

	content, err := os.ReadFile(configFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fwerrors.NewConfigError(fmt.Sprintf("configuration file not found: %s", configFile), err)
		}
		return nil, fwerrors.NewConfigError("failed to read config file", err)
	}

	cfg, err := ParseConfig(content)
	if err != nil {
		return nil, err
	}
	cfg._absConfigFilePath = configFile

	log.Debugf("Configuration file path: %s", configFile)
	log.Debugf("Snapshot directory: %s", cfg.GetAbsSnapshotDir())

	return cfg, nil
}

// ParseConfig parses TOML content. Relative paths resolve against the working directory.
func ParseConfig(content []byte) (*Config, error) {
	var config Config
	if err := toml.Unmarshal(content, &config); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			log.Errorf("%s", derr.String())
			row, col := derr.Position()
			return nil, fwerrors.NewConfigError(fmt.Sprintf("failed to parse config file at line %d, column %d", row, col), err)
		}
		return nil, fwerrors.NewConfigError("failed to parse config file", err)
	}

	if config.General == nil {
		config.General = &GeneralConfig{}
	}
	if config.Global == nil {
		config.Global = &GlobalConfig{}
	}
	if config.Variables == nil {
		config.Variables = map[string]string{}
	}

	return &config, nil
}
