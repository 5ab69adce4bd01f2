package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port    string
	Env     string // "development" or "production"; affects cookie Secure
	SiteURL string // public base URL used in published announcements
	Mongo   Mongo
	Session Session
	Twitter Twitter
	LLM     LLM
	Media   Media
}

type Mongo struct {
	URL      string
	Database string
}

type Session struct {
	Secret        string
	EncryptionKey string // seals linked-account tokens at rest
}

type Twitter struct {
	ClientID     string
	ClientSecret string
	CallbackURL  string
}

type LLM struct {
	BaseURL string
	APIKey  string
	Model   string
}

type Media struct {
	Dir     string
	BaseURL string
}

// Load reads configuration from the environment, after loading a .env file
// if one is present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:    getenv("PORT", "8000"),
		Env:     getenv("APP_ENV", "development"),
		SiteURL: getenv("SITE_URL", "http://localhost:8000"),
		Mongo: Mongo{
			URL:      getenv("MONGO_URL", "mongodb://127.0.0.1:27017"),
			Database: getenv("MONGO_DB", "blogify"),
		},
		Session: Session{
			Secret:        os.Getenv("SESSION_SECRET"),
			EncryptionKey: os.Getenv("TOKEN_ENCRYPTION_KEY"),
		},
		Twitter: Twitter{
			ClientID:     os.Getenv("TWITTER_CLIENT_ID"),
			ClientSecret: os.Getenv("TWITTER_CLIENT_SECRET"),
			CallbackURL:  os.Getenv("TWITTER_CALLBACK_URL"),
		},
		LLM: LLM{
			BaseURL: getenv("LLM_BASE_URL", "https://api.groq.com/openai/v1"),
			APIKey:  os.Getenv("LLM_API_KEY"),
			Model:   getenv("LLM_MODEL", "llama3-8b-8192"),
		},
		Media: Media{
			Dir:     getenv("MEDIA_DIR", "./uploads"),
			BaseURL: getenv("MEDIA_BASE_URL", "/uploads"),
		},
	}

	if cfg.Session.Secret == "" {
		return nil, fmt.Errorf("SESSION_SECRET is required")
	}
	if cfg.Session.EncryptionKey == "" {
		return nil, fmt.Errorf("TOKEN_ENCRYPTION_KEY is required")
	}

	return cfg, nil
}

func (c *Config) Production() bool {
	return c.Env == "production"
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
