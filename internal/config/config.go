package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Managed API key names settable through the env endpoints.
const (
	KeyOpenAI = "OPENAI_API_KEY"
	KeyImgBB  = "IMGBB_API_KEY"
	KeyMail   = "MAIL_API_KEY"
)

type Config struct {
	Port        string
	GinMode     string
	CORSOrigins []string

	// DataDir is the root of the flat-file store; EnvFile persists managed
	// API keys across restarts.
	DataDir string
	EnvFile string

	OpenAIBaseURL    string
	OpenAIModel      string
	ReplicateBaseURL string
	ReplicateModel   string
	ImgBBBaseURL     string
	BrevoBaseURL     string

	SenderName    string
	SenderEmail   string
	MaxUploadSize int64

	OTelEnabled  bool
	OTelEndpoint string
}

func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("error loading .env file: %v", err)
		}
	}

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		GinMode:     getEnv("GIN_MODE", "debug"),
		CORSOrigins: strings.Split(getEnv("CORS_ORIGINS", "http://localhost:3000,http://localhost:8080"), ","),

		DataDir: getEnv("DATA_DIR", "./data"),
		EnvFile: getEnv("ENV_FILE", ".env"),

		OpenAIBaseURL:    getEnv("OPENAI_API_URL", "https://api.openai.com"),
		OpenAIModel:      getEnv("OPENAI_MODEL", "gpt-4"),
		ReplicateBaseURL: getEnv("REPLICATE_API_URL", "https://api.replicate.com"),
		ReplicateModel:   getEnv("REPLICATE_MODEL", "google/nano-banana"),
		ImgBBBaseURL:     getEnv("IMGBB_API_URL", "https://api.imgbb.com"),
		BrevoBaseURL:     getEnv("BREVO_API_URL", "https://api.brevo.com"),

		SenderName:    getEnv("MAIL_SENDER_NAME", "Social Studio"),
		SenderEmail:   getEnv("MAIL_SENDER_EMAIL", ""),
		MaxUploadSize: getEnvInt64("MAX_UPLOAD_SIZE", 10485760), // 10MB

		OTelEnabled:  getEnvBool("OTEL_ENABLED", false),
		OTelEndpoint: getEnv("OTEL_EXPORTER_ENDPOINT", "localhost:4317"),
	}

	return cfg, nil
}

// SetManagedKeys persists the given keys into the env file and the process
// environment so running call paths pick them up immediately.
func (c *Config) SetManagedKeys(keys map[string]string) error {
	env, err := godotenv.Read(c.EnvFile)
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to read env file: %w", err)
		}
		env = map[string]string{}
	}
	for name, value := range keys {
		env[name] = value
		if err := os.Setenv(name, value); err != nil {
			return err
		}
	}
	if err := godotenv.Write(env, c.EnvFile); err != nil {
		return fmt.Errorf("failed to write env file: %w", err)
	}
	return nil
}

// ManagedKeys reads the persisted values of the managed API keys. Missing
// keys come back as empty strings.
func (c *Config) ManagedKeys() map[string]string {
	env, err := godotenv.Read(c.EnvFile)
	if err != nil {
		env = map[string]string{}
	}
	return map[string]string{
		KeyOpenAI: env[KeyOpenAI],
		KeyImgBB:  env[KeyImgBB],
		KeyMail:   env[KeyMail],
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
