package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	API      APIConfig
	Supabase SupabaseConfig
	Audio    AudioConfig
}

type AppConfig struct {
	Environment     string
	LogFilePath     string
	DownloadDir     string
	CredentialsPath string
}

type APIConfig struct {
	BaseURL      string        `validate:"required,url"`
	ShortTimeout time.Duration `validate:"min=1s"`
	LongTimeout  time.Duration `validate:"min=1s,gtefield=ShortTimeout"`
	MaxRetries   int           `validate:"min=1,max=10"`
}

type SupabaseConfig struct {
	URL     string
	AnonKey string
}

type AudioConfig struct {
	// Some deployments route transcription through an alternate service;
	// the flag swaps the endpoint without touching call sites.
	UseAlternateTranscriber bool
	AlternateTranscribePath string
	Language                string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Environment:     getEnv("GO_ENV", "development"),
			LogFilePath:     getEnv("LOG_FILE_PATH", "litigium.log"),
			DownloadDir:     getEnv("DOWNLOAD_DIR", "."),
			CredentialsPath: getEnv("CREDENTIALS_PATH", ""),
		},
		API: APIConfig{
			BaseURL:      getEnv("API_BASE_URL", "http://localhost:8000"),
			ShortTimeout: getEnvAsDuration("API_SHORT_TIMEOUT", 45*time.Second),
			LongTimeout:  getEnvAsDuration("API_LONG_TIMEOUT", 180*time.Second),
			MaxRetries:   getEnvAsInt("API_MAX_RETRIES", 3),
		},
		Supabase: SupabaseConfig{
			URL:     getEnv("SUPABASE_URL", ""),
			AnonKey: getEnv("SUPABASE_ANON_KEY", ""),
		},
		Audio: AudioConfig{
			UseAlternateTranscriber: getEnvAsBool("AUDIO_USE_ALTERNATE_TRANSCRIBER", false),
			AlternateTranscribePath: getEnv("AUDIO_ALTERNATE_TRANSCRIBE_PATH", "/api/audio/transcribir-local"),
			Language:                getEnv("AUDIO_LANGUAGE", "es"),
		},
	}
}

// TranscribePath resolves the audio endpoint the clients should use. Empty
// means the API client default.
func (c *Config) TranscribePath() string {
	if c.Audio.UseAlternateTranscriber {
		return c.Audio.AlternateTranscribePath
	}
	return ""
}

// Validate checks the fields the app cannot run without. Identity provider
// settings are deliberately not here: their absence has its own dedicated
// error path.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c.API); err != nil {
		return fmt.Errorf("invalid API config: %w", err)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if strValue == "" {
		return fallback
	}
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	// Bare numbers are read as seconds.
	if secs, err := strconv.Atoi(strValue); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}
