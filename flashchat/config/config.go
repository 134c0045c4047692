package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	URL        string `yaml:"url"`
	APIKey     string `yaml:"api_key"`
	ModelLabel string `yaml:"model_label"`
	UserName   string `yaml:"user_name"`
	Addr       string `yaml:"addr"`
	LogDir     string `yaml:"log_dir"`
}

// Defaults used when neither the config file nor the environment set a value.
var defaults = Config{
	ModelLabel: "2.5 Flash",
	UserName:   "Async",
	Addr:       ":8000",
	LogDir:     "./logs",
}

// LoadConfig reads .env (if present), the optional YAML file named by
// FLASHCHAT_CONFIG, then the environment. Later sources win.
func LoadConfig() (Config, error) {
	// a missing .env is fine, real deployments use the environment
	_ = godotenv.Load()

	cfg := defaults
	if path := os.Getenv("FLASHCHAT_CONFIG"); path != "" {
		fileCfg, err := LoadFile(path)
		if err != nil {
			return Config{}, err
		}
		cfg = merge(cfg, fileCfg)
	}

	return Config{
		URL:        getEnv(cfg.URL, "FLASHCHAT_URL", "VITE_URL"),
		APIKey:     getEnv(cfg.APIKey, "FLASHCHAT_API_KEY", "VITE_API_KEY"),
		ModelLabel: getEnv(cfg.ModelLabel, "FLASHCHAT_MODEL_LABEL"),
		UserName:   getEnv(cfg.UserName, "FLASHCHAT_USER_NAME"),
		Addr:       getEnv(cfg.Addr, "FLASHCHAT_ADDR"),
		LogDir:     getEnv(cfg.LogDir, "FLASHCHAT_LOG_DIR"),
	}, nil
}

// LoadFile parses a YAML config file. Fields left out stay empty.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

func merge(base, over Config) Config {
	pick := func(a, b string) string {
		if b != "" {
			return b
		}
		return a
	}
	return Config{
		URL:        pick(base.URL, over.URL),
		APIKey:     pick(base.APIKey, over.APIKey),
		ModelLabel: pick(base.ModelLabel, over.ModelLabel),
		UserName:   pick(base.UserName, over.UserName),
		Addr:       pick(base.Addr, over.Addr),
		LogDir:     pick(base.LogDir, over.LogDir),
	}
}

// getEnv returns the first non-empty variable among keys, or fallback.
func getEnv(fallback string, keys ...string) string {
	for _, key := range keys {
		if value := os.Getenv(key); value != "" {
			return value
		}
	}
	return fallback
}
