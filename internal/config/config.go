package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ionut-t/nlsql/internal/constants"
	"github.com/ionut-t/nlsql/pkg/llm"
	"github.com/spf13/viper"
)

const rootDir = ".nlsql"
const configFileName = "config.toml"

const (
	EditorKey        = "editor"
	LLMProviderKey   = "llm_provider"
	LLMModelKey      = "llm_model"
	OllamaHostKey    = "ollama_host"
	OllamaPortKey    = "ollama_port"
	TemperatureKey   = "temperature"
	KeepAliveKey     = "keep_alive"
	ListenAddrKey    = "listen_addr"
	ColumnMappingKey = "column_mapping"
	LogLevelKey      = "log_level"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the resolved runtime configuration. It is read once at startup
// and not modified afterwards.
type Config struct {
	Provider      string
	Model         string
	OllamaHost    string
	OllamaPort    int
	Temperature   float64
	KeepAlive     time.Duration
	ListenAddr    string
	ColumnMapping string
	LogLevel      string
}

// fileDefaults are the values written to a freshly created config file.
var fileDefaults = map[string]any{
	LLMModelKey:    llm.DefaultModel,
	OllamaPortKey:  constants.OllamaDefaultPort,
	TemperatureKey: llm.DefaultTemperature,
	KeepAliveKey:   llm.DefaultKeepAlive.String(),
}

// envBindings map keys to the environment variables that override them.
// These keys are never written to the config file by nlsql itself.
var envBindings = map[string]string{
	OllamaHostKey:  "OLLAMA_HOST",
	LLMProviderKey: "NLSQL_LLM_PROVIDER",
	ListenAddrKey:  "NLSQL_LISTEN_ADDR",
	LogLevelKey:    "NLSQL_LOG_LEVEL",
}

// SetDefaults registers defaults and environment bindings on v.
func SetDefaults(v *viper.Viper) {
	for key, value := range fileDefaults {
		v.SetDefault(key, value)
	}

	v.SetDefault(LLMProviderKey, "ollama")
	v.SetDefault(OllamaHostKey, constants.OllamaDefaultHost)
	v.SetDefault(ListenAddrKey, constants.DefaultListenAddr)
	v.SetDefault(LogLevelKey, "info")

	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}
}

// Load resolves the configuration held by v.
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		Provider:      strings.ToLower(strings.TrimSpace(v.GetString(LLMProviderKey))),
		Model:         strings.TrimSpace(v.GetString(LLMModelKey)),
		OllamaHost:    strings.TrimSpace(v.GetString(OllamaHostKey)),
		OllamaPort:    v.GetInt(OllamaPortKey),
		Temperature:   v.GetFloat64(TemperatureKey),
		KeepAlive:     v.GetDuration(KeepAliveKey),
		ListenAddr:    v.GetString(ListenAddrKey),
		ColumnMapping: v.GetString(ColumnMappingKey),
		LogLevel:      v.GetString(LogLevelKey),
	}

	if cfg.Model == "" {
		return Config{}, fmt.Errorf("%w: %s must not be empty", ErrInvalidConfig, LLMModelKey)
	}

	if cfg.OllamaPort <= 0 || cfg.OllamaPort > 65535 {
		return Config{}, fmt.Errorf("%w: %s %d out of range", ErrInvalidConfig, OllamaPortKey, cfg.OllamaPort)
	}

	if cfg.Temperature < 0 || cfg.Temperature > 2 {
		return Config{}, fmt.Errorf("%w: %s %v out of range", ErrInvalidConfig, TemperatureKey, cfg.Temperature)
	}

	if cfg.KeepAlive <= 0 {
		return Config{}, fmt.Errorf("%w: %s must be a positive duration", ErrInvalidConfig, KeepAliveKey)
	}

	return cfg, nil
}

// Options returns the generation options derived from the configuration.
func (c Config) Options() llm.Options {
	return llm.Options{
		Model:       c.Model,
		Temperature: c.Temperature,
		KeepAlive:   c.KeepAlive,
	}
}

func getDefaultEditor() string {
	if editor := os.Getenv("EDITOR"); editor != "" {
		return editor
	}

	if os.Getenv("WINDIR") != "" {
		return "notepad"
	}

	return "vim"
}

func GetEditor() string {
	editor := viper.GetString(EditorKey)

	if editor == "" {
		return getDefaultEditor()
	}

	return editor
}

// InitialiseConfigFile makes sure ~/.nlsql/config.toml exists and is loaded
// into the global viper instance.
func InitialiseConfigFile() (string, error) {
	return initialiseConfigFile(viper.GetViper())
}

func initialiseConfigFile(v *viper.Viper) (string, error) {
	if configPath := v.ConfigFileUsed(); configPath != "" {
		return configPath, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	dir := filepath.Join(home, rootDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	configPath := filepath.Join(dir, configFileName)
	v.SetConfigFile(configPath)

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := SaveSettings(configPath, fileDefaults); err != nil {
			return "", err
		}

		fmt.Fprintln(os.Stderr, "Created config at", configPath)
	}

	if err := v.ReadInConfig(); err != nil {
		return "", fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	return configPath, nil
}

// SaveSettings merges settings into the config file at path. Only the keys
// already in the file and the given settings are written, so environment
// overrides never leak into the file.
func SaveSettings(path string, settings map[string]any) error {
	f := viper.New()
	f.SetConfigFile(path)

	if _, err := os.Stat(path); err == nil {
		if err := f.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	for key, value := range settings {
		f.Set(key, value)
	}

	if err := f.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}

	return nil
}

func GetConfigFilePath() string {
	return viper.ConfigFileUsed()
}
