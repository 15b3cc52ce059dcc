// Package poolconfig loads cmd/poolctl's configuration, following the same
// defaults < global < project < CLI precedence chain and JSONC (JSON with
// comments and trailing commas) file format as the teacher's root-level
// config.go, retargeted from ticket-tracker settings to pool construction
// parameters.
package poolconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tailscale/hujson"
)

var (
	errConfigInvalid     = errors.New("poolconfig: invalid config")
	errConfigFileNotFound = errors.New("poolconfig: config file not found")
	errConfigFileRead    = errors.New("poolconfig: could not read config file")
	errChunkSizeZero     = errors.New("poolconfig: chunk_size must not be explicitly 0")
	errChunkCountZero    = errors.New("poolconfig: chunk_count must not be explicitly 0")
)

// ConfigFileName is the default project config file name, looked for in
// the working directory.
const ConfigFileName = ".poolctl.json"

// Config holds cmd/poolctl's configuration: the pool dimensions to
// construct against, and where the default diagnostic sink writes its
// event log.
type Config struct {
	ChunkSize  int    `json:"chunk_size,omitempty"`  //nolint:tagliatelle // snake_case for config file
	ChunkCount int    `json:"chunk_count,omitempty"` //nolint:tagliatelle // snake_case for config file
	LogPath    string `json:"log_path,omitempty"`    //nolint:tagliatelle // snake_case for config file
}

// DefaultConfig returns poolctl's built-in defaults, used before any config
// file or CLI flag is applied.
func DefaultConfig() Config {
	return Config{
		ChunkSize:  64,
		ChunkCount: 1024,
	}
}

// Sources tracks which config files, if any, were loaded. Load returns it
// alongside the merged Config.
type Sources struct {
	Global  string
	Project string
}

// getGlobalConfigPath returns $XDG_CONFIG_HOME/poolctl/config.json if set,
// otherwise ~/.config/poolctl/config.json, or "" if neither can be
// determined.
func getGlobalConfigPath(env []string) string {
	for _, e := range env {
		if after, ok := strings.CutPrefix(e, "XDG_CONFIG_HOME="); ok {
			return filepath.Join(after, "poolctl", "config.json")
		}
	}

	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "poolctl", "config.json")
	}

	home, err := os.UserHomeDir()
	if err == nil {
		return filepath.Join(home, ".config", "poolctl", "config.json")
	}

	return ""
}

// Load loads configuration with the following precedence (highest wins):
//  1. Defaults
//  2. Global user config
//  3. Project config file (.poolctl.json in workDir, or the file named by
//     configPath if non-empty)
//  4. CLI overrides, applied by the caller's explicit "was this flag set"
//     flags since a zero value is indistinguishable from "not set" for
//     ChunkSize/ChunkCount.
func Load(workDir, configPath string, cliOverrides Config, hasChunkSize, hasChunkCount bool, env []string) (Config, Sources, error) {
	cfg := DefaultConfig()

	var sources Sources

	globalCfg, globalPath, err := loadGlobalConfig(env)
	if err != nil {
		return Config{}, Sources{}, err
	}

	sources.Global = globalPath
	cfg = mergeConfig(cfg, globalCfg)

	projectCfg, projectPath, err := loadProjectConfig(workDir, configPath)
	if err != nil {
		return Config{}, Sources{}, err
	}

	sources.Project = projectPath
	cfg = mergeConfig(cfg, projectCfg)

	if hasChunkSize {
		cfg.ChunkSize = cliOverrides.ChunkSize
	}

	if hasChunkCount {
		cfg.ChunkCount = cliOverrides.ChunkCount
	}

	if cliOverrides.LogPath != "" {
		cfg.LogPath = cliOverrides.LogPath
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, Sources{}, err
	}

	return cfg, sources, nil
}

func loadGlobalConfig(env []string) (Config, string, error) {
	path := getGlobalConfigPath(env)
	if path == "" {
		return Config{}, "", nil
	}

	cfg, explicitZero, loaded, err := loadConfigFile(path, false)
	if err != nil {
		return Config{}, "", err
	}

	if !loaded {
		return Config{}, "", nil
	}

	if err := rejectExplicitZero(path, explicitZero); err != nil {
		return Config{}, "", err
	}

	return cfg, path, nil
}

func loadProjectConfig(workDir, configPath string) (Config, string, error) {
	var cfgFile string

	var mustExist bool

	if configPath != "" {
		cfgFile = configPath
		if !filepath.IsAbs(cfgFile) {
			cfgFile = filepath.Join(workDir, cfgFile)
		}

		mustExist = true

		if _, err := os.Stat(cfgFile); err != nil {
			return Config{}, "", fmt.Errorf("%w: %s", errConfigFileNotFound, configPath)
		}
	} else {
		cfgFile = filepath.Join(workDir, ConfigFileName)
		mustExist = false
	}

	cfg, explicitZero, loaded, err := loadConfigFile(cfgFile, mustExist)
	if err != nil {
		return Config{}, "", err
	}

	if !loaded {
		return Config{}, "", nil
	}

	if err := rejectExplicitZero(cfgFile, explicitZero); err != nil {
		return Config{}, "", err
	}

	return cfg, cfgFile, nil
}

func loadConfigFile(path string, mustExist bool) (Config, map[string]bool, bool, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is intentionally user-controlled
	if err != nil {
		if os.IsNotExist(err) && !mustExist {
			return Config{}, nil, false, nil
		}

		if mustExist {
			return Config{}, nil, false, fmt.Errorf("%w: %s", errConfigFileRead, path)
		}

		return Config{}, nil, false, nil
	}

	cfg, explicitZero, err := parseConfig(data)
	if err != nil {
		return Config{}, nil, false, fmt.Errorf("%w %s: %w", errConfigInvalid, path, err)
	}

	return cfg, explicitZero, true, nil
}

func parseConfig(data []byte) (Config, map[string]bool, error) {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, nil, fmt.Errorf("invalid JSONC: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(standardized, &cfg); err != nil {
		return Config{}, nil, fmt.Errorf("invalid JSON: %w", err)
	}

	var raw map[string]any

	_ = json.Unmarshal(standardized, &raw)

	explicitZero := make(map[string]bool)

	for _, key := range []string{"chunk_size", "chunk_count"} {
		if val, exists := raw[key]; exists {
			if num, ok := val.(float64); ok && num == 0 {
				explicitZero[key] = true
			}
		}
	}

	return cfg, explicitZero, nil
}

func rejectExplicitZero(path string, explicitZero map[string]bool) error {
	if explicitZero["chunk_size"] {
		return fmt.Errorf("%w %s: %w", errConfigInvalid, path, errChunkSizeZero)
	}

	if explicitZero["chunk_count"] {
		return fmt.Errorf("%w %s: %w", errConfigInvalid, path, errChunkCountZero)
	}

	return nil
}

func mergeConfig(base, overlay Config) Config {
	if overlay.ChunkSize != 0 {
		base.ChunkSize = overlay.ChunkSize
	}

	if overlay.ChunkCount != 0 {
		base.ChunkCount = overlay.ChunkCount
	}

	if overlay.LogPath != "" {
		base.LogPath = overlay.LogPath
	}

	return base
}

func validateConfig(cfg Config) error {
	if cfg.ChunkSize <= 0 {
		return errChunkSizeZero
	}

	if cfg.ChunkCount <= 0 {
		return errChunkCountZero
	}

	return nil
}

// Format returns cfg as indented JSON using the config file's key names.
func Format(cfg Config) (string, error) {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to format config: %w", err)
	}

	return string(data), nil
}
