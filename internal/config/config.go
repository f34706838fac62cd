// Package config loads client settings from the environment, folding in a
// .env file for local development when one is present.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config carries the settings for both provider clients.
type Config struct {
	Bluesky BlueskyConfig
	Reddit  RedditConfig
	// Debug turns on per-page progress traces in both clients.
	Debug bool
}

// BlueskyConfig is the Bluesky account configuration.
type BlueskyConfig struct {
	Host       string
	Identifier string
	Password   string
}

// RedditConfig is the Reddit script-app configuration.
type RedditConfig struct {
	ClientID     string
	ClientSecret string
	Username     string
	Password     string
	UserAgent    string
	Subreddit    string
}

// Load reads settings from the environment. Values from a .env file never
// override variables already set in the real environment.
func Load() *Config {
	_ = godotenv.Load()
	return &Config{
		Bluesky: BlueskyConfig{
			Host:       getEnv("BLUESKY_HOST", "https://bsky.social"),
			Identifier: os.Getenv("BLUESKY_IDENTIFIER"),
			Password:   os.Getenv("BLUESKY_PASSWORD"),
		},
		Reddit: RedditConfig{
			ClientID:     os.Getenv("REDDIT_CLIENT_ID"),
			ClientSecret: os.Getenv("REDDIT_CLIENT_SECRET"),
			Username:     os.Getenv("REDDIT_USERNAME"),
			Password:     os.Getenv("REDDIT_PASSWORD"),
			UserAgent:    os.Getenv("REDDIT_USER_AGENT"),
			Subreddit:    os.Getenv("REDDIT_SUBREDDIT"),
		},
		Debug: getBoolEnv("DRIFTWOOD_DEBUG", false),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getBoolEnv(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
