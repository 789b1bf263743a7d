// Package config loads the bot configuration from a JSON file with
// ZONEBOT_-prefixed environment variable overrides on top.
package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Load loads config from the default path (~/.zonebot/config.json). A
// missing default file is not an error: the defaults plus environment
// overrides may be all the deployment needs.
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	path := filepath.Join(home, ".zonebot", "config.json")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := DefaultConfig()
		applyEnvOverrides(cfg)
		expandStorePath(cfg)
		return cfg, nil
	}
	return LoadFromFile(path)
}

// LoadFromFile loads config from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file %s: %w", path, err)
	}
	defer f.Close()
	return LoadFromReader(f)
}

// LoadFromReader loads config from an io.Reader, applying defaults and
// env overrides.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := DefaultConfig()

	if err := json.NewDecoder(r).Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	applyEnvOverrides(cfg)
	expandStorePath(cfg)

	return cfg, nil
}

// applyEnvOverrides applies ZONEBOT_-prefixed environment variable
// overrides.
func applyEnvOverrides(cfg *Config) {
	envMap := map[string]*string{
		"ZONEBOT_DISCORD_TOKEN":  &cfg.Discord.Token,
		"ZONEBOT_STORE_PATH":     &cfg.Store.Path,
		"ZONEBOT_COMMAND_PREFIX": &cfg.Bot.CommandPrefix,
		"ZONEBOT_HOME_ZONE":      &cfg.Bot.HomeZone,
		"ZONEBOT_LOG_LEVEL":      &cfg.LogLevel,
	}

	for env, ptr := range envMap {
		if val := os.Getenv(env); val != "" {
			*ptr = val
		}
	}
}

// expandStorePath expands a leading ~ in the store path.
func expandStorePath(cfg *Config) {
	p := cfg.Store.Path
	if len(p) >= 2 && p[0] == '~' && p[1] == '/' {
		home, err := os.UserHomeDir()
		if err == nil {
			cfg.Store.Path = filepath.Join(home, p[2:])
		}
	}
}
