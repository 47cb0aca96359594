package config

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

const hashCacheTTL = 30 * time.Second

// ConfigHasher calculates MD5 hash of configuration state.
//
// It keeps the hash of the configuration a long-running process loaded, and a cached
// hash of the file currently on disk, so the process can tell when it is serving an
// outdated configuration.
type ConfigHasher struct {
	configPath string

	// Current hash (from config file) with caching
	currentHash     string
	currentHashTime time.Time

	// Loaded hash (from running process)
	loadedHash string

	mu sync.RWMutex
}

// NewConfigHasher creates a new config hasher
func NewConfigHasher(configPath string) *ConfigHasher {
	return &ConfigHasher{
		configPath: configPath,
	}
}

// GetCurrentConfigHash returns cached hash of current config file
// Automatically calls UpdateCurrentConfigHash() on cache miss
func (h *ConfigHasher) GetCurrentConfigHash() (string, error) {
	h.mu.RLock()
	if time.Since(h.currentHashTime) < hashCacheTTL && h.currentHash != "" {
		hash := h.currentHash
		h.mu.RUnlock()
		return hash, nil
	}
	h.mu.RUnlock()

	return h.UpdateCurrentConfigHash()
}

// UpdateCurrentConfigHash re-reads the config file and resets the cache.
func (h *ConfigHasher) UpdateCurrentConfigHash() (string, error) {
	cfg, err := LoadConfig(h.configPath)
	if err != nil {
		return "", fmt.Errorf("failed to load config: %w", err)
	}

	hash, err := CalculateHash(cfg)
	if err != nil {
		return "", fmt.Errorf("failed to calculate hash: %w", err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.currentHash = hash
	h.currentHashTime = time.Now()

	return hash, nil
}

// GetLoadedConfigHash returns hash of config the process is running with
func (h *ConfigHasher) GetLoadedConfigHash() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.loadedHash
}

// SetLoadedConfig records the configuration the process is running with.
func (h *ConfigHasher) SetLoadedConfig(cfg *Config) error {
	hash, err := CalculateHash(cfg)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.loadedHash = hash
	return nil
}

// IsOutdated reports whether the file on disk no longer matches the loaded configuration.
func (h *ConfigHasher) IsOutdated() (bool, error) {
	current, err := h.GetCurrentConfigHash()
	if err != nil {
		return false, err
	}
	loaded := h.GetLoadedConfigHash()
	return loaded != "" && current != loaded, nil
}

// CalculateHash returns the MD5 of the parsed configuration.
//
// Formatting and comments of the file do not change the hash. Order of zones, rules and
// sets does, since it is the order of emission.
func CalculateHash(cfg *Config) (string, error) {
	jsonBytes, err := json.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("failed to marshal config data: %w", err)
	}

	hash := md5.Sum(jsonBytes)
	return hex.EncodeToString(hash[:]), nil
}
