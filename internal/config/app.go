package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/sandevgo/dazi/internal/core"
	"github.com/sandevgo/dazi/pkg/log"
)

const (
	DefaultAPIBase    = "https://api.openai.com/v1"
	DefaultPromptFile = "persona.txt"
	DefaultMemoryFile = "memory.json"
	DefaultMaxHistory = 6
)

// AppConfig is filled from defaults, then config.json, then the environment
// (a .env file in the runtime directory and the process environment).
type AppConfig struct {
	RuntimePath string `json:"-"`

	APIBase string `json:"api_base" env:"DAZI_API_BASE"`
	APIKey  string `json:"api_key" env:"DAZI_API_KEY"`
	Model   string `json:"model" env:"DAZI_MODEL"`

	PromptFile string `json:"prompt_file" env:"DAZI_PROMPT_FILE"`
	MemoryFile string `json:"memory_file" env:"DAZI_MEMORY_FILE"`
	MaxHistory int    `json:"max_history" env:"DAZI_MAX_HISTORY"`

	// Path of the config file the values were read from, empty when none existed.
	Source string `json:"-"`
}

func NewDefaultConfig(runtimePath string) *AppConfig {
	return &AppConfig{
		RuntimePath: runtimePath,
		APIBase:     DefaultAPIBase,
		Model:       core.AutoModel,
		PromptFile:  DefaultPromptFile,
		MemoryFile:  DefaultMemoryFile,
		MaxHistory:  DefaultMaxHistory,
	}
}

// Load builds the configuration. configFile may be empty, in which case
// config.json in the runtime directory is used if it exists. environ is the
// process environment as returned by os.Environ.
func Load(ctx context.Context, configFile string, environ []string) (*AppConfig, error) {
	vars := env.ToMap(environ)
	cfg := NewDefaultConfig(runtimePath(vars[RuntimePathEnv]))

	explicit := configFile != ""
	if !explicit {
		configFile = cfg.GetConfigPath()
	}
	if err := cfg.readFile(configFile, explicit); err != nil {
		return nil, err
	}

	dotenv, err := readDotEnv(cfg.GetEnvPath())
	if err != nil {
		return nil, err
	}
	// process environment wins over .env
	for k, v := range vars {
		dotenv[k] = v
	}

	if err := env.ParseWithOptions(cfg, env.Options{Environment: dotenv}); err != nil {
		return nil, fmt.Errorf("%w: parse environment: %v", core.ErrConfiguration, err)
	}

	cfg.normalize()

	log.FromCtx(ctx).Debug().
		Str("runtime", cfg.RuntimePath).
		Str("source", cfg.Source).
		Str("api_base", cfg.APIBase).
		Str("model", cfg.Model).
		Int("max_history", cfg.MaxHistory).
		Msg("configuration loaded")

	return cfg, nil
}

func (c *AppConfig) readFile(path string, required bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return nil
		}
		return fmt.Errorf("%w: read config %s: %v", core.ErrConfiguration, path, err)
	}

	if err := json.Unmarshal(data, c); err != nil {
		return fmt.Errorf("%w: parse config %s: %v", core.ErrConfiguration, path, err)
	}
	c.Source = path
	return nil
}

func readDotEnv(path string) (map[string]string, error) {
	vars, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("%w: read %s: %v", core.ErrConfiguration, path, err)
	}
	return vars, nil
}

func (c *AppConfig) normalize() {
	c.APIBase = strings.TrimSpace(c.APIBase)
	c.APIKey = strings.TrimSpace(c.APIKey)
	c.Model = strings.TrimSpace(c.Model)
	if c.PromptFile == "" {
		c.PromptFile = DefaultPromptFile
	}
	if c.MemoryFile == "" {
		c.MemoryFile = DefaultMemoryFile
	}
}

// Validate reports settings the chat cannot start without.
func (c *AppConfig) Validate() error {
	var missing []string
	if c.APIBase == "" {
		missing = append(missing, "api_base")
	}
	if c.APIKey == "" {
		missing = append(missing, "api_key")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s not set; run `%s init` or edit %s",
			core.ErrConfiguration, strings.Join(missing, ", "), core.AppName,
			c.GetConfigPath())
	}
	if c.MaxHistory <= 0 {
		return fmt.Errorf("%w: max_history must be positive, got %d", core.ErrConfiguration, c.MaxHistory)
	}
	return nil
}

func (c *AppConfig) GetRuntimePath() string {
	return c.RuntimePath
}

func (c *AppConfig) GetAPIBase() string {
	return c.APIBase
}

func (c *AppConfig) GetAPIKey() string {
	return c.APIKey
}

func (c *AppConfig) GetModel() string {
	return c.Model
}

func (c *AppConfig) GetPromptPath() string {
	return c.resolve(c.PromptFile)
}

func (c *AppConfig) GetMemoryPath() string {
	return c.resolve(c.MemoryFile)
}

func (c *AppConfig) GetMaxHistory() int {
	return c.MaxHistory
}

func (c *AppConfig) GetConfigPath() string {
	return filepath.Join(c.RuntimePath, ConfigFileName)
}

func (c *AppConfig) GetEnvPath() string {
	return filepath.Join(c.RuntimePath, EnvFileName)
}

func (c *AppConfig) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.RuntimePath, path)
}
