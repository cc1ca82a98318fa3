package config

import (
	"encoding/json"
	"os"
	"time"
)

type Config struct {
	Listen          string        `json:"listen"`
	DBPath          string        `json:"db_path"`
	OverlayPath     string        `json:"overlay_path"`
	ReadTimeout     time.Duration `json:"read_timeout"`
	WriteTimeout    time.Duration `json:"write_timeout"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout"`
	Log             LogConfig     `json:"log"`
	Source          LangConfig    `json:"source_language"`
	Target          LangConfig    `json:"target_language"`
}

type LogConfig struct {
	Level string `json:"level"`
}

type LangConfig struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	NativeName string `json:"native_name"`
}

func Default() Config {
	return Config{
		Listen:          "127.0.0.1:8080",
		DBPath:          "eng_ukr_dictionary.db",
		OverlayPath:     "dictionary.txt",
		ReadTimeout:     0,
		WriteTimeout:    30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		Log: LogConfig{
			Level: "info",
		},
		Source: LangConfig{Code: "EN", Name: "English", NativeName: "English"},
		Target: LangConfig{Code: "UK", Name: "Ukrainian", NativeName: "Українська"},
	}
}

// Load reads a JSON config from path. An empty path yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if cfg.Listen == "" {
		cfg.Listen = "127.0.0.1:8080"
	}
	if cfg.DBPath == "" {
		cfg.DBPath = "eng_ukr_dictionary.db"
	}
	if cfg.OverlayPath == "" {
		cfg.OverlayPath = "dictionary.txt"
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = 30 * time.Second
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
	if cfg.Source.Code == "" {
		cfg.Source = Default().Source
	}
	if cfg.Target.Code == "" {
		cfg.Target = Default().Target
	}
	return cfg, nil
}
