package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Host           string
	Port           string
	DatabasePath   string
	CSRFSecret     string
	CookieDomain   string
	ProfileSyncURL string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	c := &Config{
		Host:           os.Getenv("HOST"),
		Port:           os.Getenv("PORT"),
		DatabasePath:   os.Getenv("DATABASE_PATH"),
		CSRFSecret:     os.Getenv("CSRF_SECRET"),
		CookieDomain:   os.Getenv("COOKIE_DOMAIN"),
		ProfileSyncURL: os.Getenv("PROFILE_SYNC_URL"),
	}

	if c.Host == "" {
		c.Host = "0.0.0.0"
	}
	if c.Port == "" {
		c.Port = "3000"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "./workspace.db"
	}
	if c.CSRFSecret == "" {
		return nil, fmt.Errorf("CSRF_SECRET is required")
	}

	return c, nil
}

func (c *Config) Addr() string {
	return c.Host + ":" + c.Port
}
