package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// DbConfig represents the configuration settings for the database.
type DbConfig struct {
	Path string `json:"path"`
}

// ModelConfig selects the text-generation backend.
type ModelConfig struct {
	BaseURL string `json:"base_url"`
	Name    string `json:"name"`
	APIKey  string `json:"api_key"`
}

// ExportConfig configures where exports go and how speech is synthesized.
type ExportConfig struct {
	Dir       string `json:"dir"`
	SpeechURL string `json:"speech_url"`
	Language  string `json:"language"`
}

// Config represents the configuration settings of the application.
type Config struct {
	Pepper   string       `json:"pepper"`
	Port     int          `json:"port"`
	Database DbConfig     `json:"database"`
	Model    ModelConfig  `json:"model"`
	Export   ExportConfig `json:"export"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Port:     9090,
		Database: DbConfig{Path: "./database/studymentor.db"},
		Model: ModelConfig{
			BaseURL: "http://localhost:11434/v1",
			Name:    "tinyllama",
		},
		Export: ExportConfig{
			Dir:       "./exports",
			SpeechURL: "https://translate.google.com/translate_tts",
			Language:  "en",
		},
	}
}

// LoadConfig loads the configuration. Defaults are overlaid by the JSON file
// at path, then by a .env file and finally by STUDYMENTOR_* environment
// variables. Missing files are skipped.
func LoadConfig(path string) (Config, error) {
	c := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, &c); err != nil {
			return Config{}, fmt.Errorf("error unmarshalling %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return Config{}, fmt.Errorf("error reading %s: %w", path, err)
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("error loading .env: %w", err)
	}

	if err := c.applyEnv(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c *Config) applyEnv() error {
	strs := map[string]*string{
		"STUDYMENTOR_PEPPER":      &c.Pepper,
		"STUDYMENTOR_DB_PATH":     &c.Database.Path,
		"STUDYMENTOR_MODEL_URL":   &c.Model.BaseURL,
		"STUDYMENTOR_MODEL_NAME":  &c.Model.Name,
		"STUDYMENTOR_MODEL_KEY":   &c.Model.APIKey,
		"STUDYMENTOR_EXPORT_DIR":  &c.Export.Dir,
		"STUDYMENTOR_SPEECH_URL":  &c.Export.SpeechURL,
		"STUDYMENTOR_SPEECH_LANG": &c.Export.Language,
	}
	for key, dst := range strs {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}

	if v, ok := os.LookupEnv("STUDYMENTOR_PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("STUDYMENTOR_PORT: %w", err)
		}
		c.Port = port
	}
	return nil
}
