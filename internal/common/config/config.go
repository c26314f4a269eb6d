package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ============================================================
// Configuration
// ============================================================

type Config struct {
	Port         string `yaml:"port"`
	Environment  string `yaml:"environment"`
	ReadTimeout  int    `yaml:"read_timeout"`
	WriteTimeout int    `yaml:"write_timeout"`

	DBPath    string `yaml:"db_path"`
	ExportDir string `yaml:"export_dir"`

	LogLevel string `yaml:"log_level"`
	LogFile  string `yaml:"log_file"`

	Editor EditorConfig `yaml:"editor"`

	CORSOrigins []string `yaml:"cors_origins"`
}

// EditorConfig параметры сессий редактора.
type EditorConfig struct {
	HistoryLimit   int     `yaml:"history_limit"`
	RenderTickMS   int     `yaml:"render_tick_ms"`
	PixelsPerMeter float64 `yaml:"pixels_per_meter"`
	OriginX        float64 `yaml:"origin_x"`
	OriginY        float64 `yaml:"origin_y"`
}

func Default() *Config {
	return &Config{
		Port:         "3000",
		Environment:  "development",
		ReadTimeout:  10,
		WriteTimeout: 10,
		DBPath:       "data/db/planner.db",
		ExportDir:    "data/projects",
		LogLevel:     "info",
		Editor: EditorConfig{
			HistoryLimit:   100,
			RenderTickMS:   200,
			PixelsPerMeter: 50,
			OriginX:        400,
			OriginY:        400,
		},
		CORSOrigins: []string{"*"},
	}
}

// Load собирает конфигурацию: значения по умолчанию < YAML файл из CONFIG_FILE < переменные окружения.
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := LoadFile(cfg, path); err != nil {
			return nil, err
		}
	}

	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.Environment = getEnv("ENV", cfg.Environment)
	cfg.ReadTimeout = getEnvAsInt("READ_TIMEOUT", cfg.ReadTimeout)
	cfg.WriteTimeout = getEnvAsInt("WRITE_TIMEOUT", cfg.WriteTimeout)
	cfg.DBPath = getEnv("DB_PATH", cfg.DBPath)
	cfg.ExportDir = getEnv("EXPORT_DIR", cfg.ExportDir)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFile = getEnv("LOG_FILE", cfg.LogFile)
	cfg.Editor.HistoryLimit = getEnvAsInt("HISTORY_LIMIT", cfg.Editor.HistoryLimit)
	cfg.Editor.RenderTickMS = getEnvAsInt("RENDER_TICK_MS", cfg.Editor.RenderTickMS)
	cfg.Editor.PixelsPerMeter = getEnvAsFloat("PIXELS_PER_METER", cfg.Editor.PixelsPerMeter)
	cfg.Editor.OriginX = getEnvAsFloat("ORIGIN_X", cfg.Editor.OriginX)
	cfg.Editor.OriginY = getEnvAsFloat("ORIGIN_Y", cfg.Editor.OriginY)
	cfg.CORSOrigins = getEnvAsList("CORS_ORIGINS", cfg.CORSOrigins)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile накладывает YAML файл поверх cfg.
func LoadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Editor.PixelsPerMeter <= 0 {
		return fmt.Errorf("pixels_per_meter must be positive, got %v", c.Editor.PixelsPerMeter)
	}
	if c.Editor.HistoryLimit <= 0 {
		return fmt.Errorf("history_limit must be positive, got %d", c.Editor.HistoryLimit)
	}
	if c.Editor.RenderTickMS <= 0 {
		return fmt.Errorf("render_tick_ms must be positive, got %d", c.Editor.RenderTickMS)
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsFloat(key string, defaultVal float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvAsList(key string, defaultVal []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultVal
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultVal
	}
	return out
}
