package cli

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const envPrefix = "CLASSGOLD_"

// Config holds CLI configuration
type Config struct {
	ServerURL string
	Token     string
	TokenFile string
	Output    string
	Verbose   bool
}

// DefaultConfig returns a Config populated from the environment
func DefaultConfig() *Config {
	return &Config{
		ServerURL: envOr("SERVER", "http://localhost:8080"),
		Token:     os.Getenv(envPrefix + "TOKEN"),
		TokenFile: envOr("TOKEN_FILE", defaultTokenFile()),
		Output:    "text",
	}
}

// LoadToken reads the saved token unless one was given explicitly
func (c *Config) LoadToken() error {
	if c.Token != "" {
		return nil
	}

	data, err := os.ReadFile(c.TokenFile)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}

	c.Token = strings.TrimSpace(string(data))
	return nil
}

// SaveToken stores the session token for later commands
func (c *Config) SaveToken(token string) error {
	c.Token = token

	if err := os.MkdirAll(filepath.Dir(c.TokenFile), 0o700); err != nil {
		return err
	}

	return os.WriteFile(c.TokenFile, []byte(token), 0o600)
}

// ClearToken forgets the saved session token
func (c *Config) ClearToken() error {
	c.Token = ""

	err := os.Remove(c.TokenFile)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func defaultTokenFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".classgold", "token")
	}
	return filepath.Join(home, ".classgold", "token")
}

func envOr(key, fallback string) string {
	if val := os.Getenv(envPrefix + key); val != "" {
		return val
	}
	return fallback
}
