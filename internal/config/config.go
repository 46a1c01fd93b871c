package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Ollama  OllamaConfig `yaml:"ollama" mapstructure:"ollama"`
	Chroma  ChromaConfig `yaml:"chroma" mapstructure:"chroma"`
	DataDir string       `yaml:"data_dir" mapstructure:"data_dir"`
	Search  SearchConfig `yaml:"search" mapstructure:"search"`
	LogFile string       `yaml:"log_file" mapstructure:"log_file"`
}

type OllamaConfig struct {
	BaseURL    string `yaml:"base_url" mapstructure:"base_url"`
	Model      string `yaml:"model" mapstructure:"model"`
	EmbedModel string `yaml:"embed_model" mapstructure:"embed_model"`
	// Timeout of 0 keeps the original behavior: a hung local model blocks
	// the menu loop until it answers or the connection drops.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

type ChromaConfig struct {
	BaseURL    string `yaml:"base_url" mapstructure:"base_url"`
	Collection string `yaml:"collection" mapstructure:"collection"`
}

type SearchConfig struct {
	TopK int `yaml:"top_k" mapstructure:"top_k"`
}

var envVarRe = regexp.MustCompile(`\$([A-Z_][A-Z0-9_]*)`)

func expandEnv(s string) string {
	return envVarRe.ReplaceAllStringFunc(s, func(match string) string {
		name := strings.TrimPrefix(match, "$")
		if val, ok := os.LookupEnv(name); ok {
			return val
		}
		return match
	})
}

func DefaultConfig() *Config {
	return &Config{
		Ollama: OllamaConfig{
			BaseURL:    "http://localhost:11434",
			Model:      "llama3.2",
			EmbedModel: "nomic-embed-text",
		},
		Chroma: ChromaConfig{
			BaseURL:    "http://localhost:8000",
			Collection: "learning-notes",
		},
		DataDir: defaultDataDir(),
		Search:  SearchConfig{TopK: 5},
	}
}

func defaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "companion")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "companion")
}

func configDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "companion")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "companion")
}

func Load() (*Config, error) {
	cfg := DefaultConfig()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Search paths
	viper.AddConfigPath(".")
	viper.AddConfigPath(configDir())

	// Environment variables
	viper.SetEnvPrefix("COMPANION")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Config file was found but another error produced
			return nil, err
		}
		// Config file not found; ignore and use defaults
	}

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, err
	}

	cfg.Ollama.BaseURL = expandEnv(cfg.Ollama.BaseURL)
	cfg.Chroma.BaseURL = expandEnv(cfg.Chroma.BaseURL)
	cfg.DataDir = expandEnv(cfg.DataDir)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config to the user config dir so it can be edited by hand.
func (c *Config) Save() error {
	dir := configDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "config.yaml"), data, 0o644)
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Ollama.BaseURL == "" {
		return fmt.Errorf("config: ollama.base_url is required")
	}
	if c.Ollama.Model == "" {
		return fmt.Errorf("config: ollama.model is required")
	}
	if c.Ollama.EmbedModel == "" {
		return fmt.Errorf("config: ollama.embed_model is required")
	}
	if c.Chroma.BaseURL == "" {
		return fmt.Errorf("config: chroma.base_url is required")
	}
	if c.Chroma.Collection == "" {
		c.Chroma.Collection = "learning-notes"
	}
	if c.DataDir == "" {
		return fmt.Errorf("config: data_dir is required")
	}
	if c.Search.TopK < 1 {
		c.Search.TopK = 5
	}
	return nil
}

// NotesFile is the flat-file note store path.
func (c *Config) NotesFile() string { return filepath.Join(c.DataDir, "notes.json") }

// SkillsFile is the persisted skill ledger path.
func (c *Config) SkillsFile() string { return filepath.Join(c.DataDir, "skills.json") }

// LogPath resolves the log file, defaulting into the data dir.
func (c *Config) LogPath() string {
	if c.LogFile != "" {
		return c.LogFile
	}
	return filepath.Join(c.DataDir, "companion.log")
}
