package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultBaseURL = "http://localhost:8080"
	defaultTimeout = 15 * time.Second
	appDir         = "dispatchctl"
)

// Profile is the dispatcher's local configuration.
type Profile struct {
	BaseURL         string        `yaml:"base_url"`
	CredentialsFile string        `yaml:"credentials_file"`
	Timeout         time.Duration `yaml:"timeout"`
	LogLevel        string        `yaml:"log_level"`
}

// DefaultProfile points at a local backend and keeps credentials next to
// the config file.
func DefaultProfile(configDir string) Profile {
	return Profile{
		BaseURL:         defaultBaseURL,
		CredentialsFile: filepath.Join(configDir, "credentials.yaml"),
		Timeout:         defaultTimeout,
		LogLevel:        "warn",
	}
}

// DefaultConfigPath returns the per-user profile location.
func DefaultConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(dir, appDir, "config.yaml"), nil
}

// LoadProfile reads the YAML profile at path over the defaults. A missing
// file yields the defaults. DISPATCHCTL_BASE_URL and
// DISPATCHCTL_CREDENTIALS override the file.
func LoadProfile(path string, getenv func(string) string) (Profile, error) {
	p := DefaultProfile(filepath.Dir(path))

	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return Profile{}, fmt.Errorf("read profile: %w", err)
	default:
		if err := yaml.Unmarshal(raw, &p); err != nil {
			return Profile{}, fmt.Errorf("parse profile %s: %w", path, err)
		}
	}

	if v := getenv("DISPATCHCTL_BASE_URL"); v != "" {
		p.BaseURL = v
	}
	if v := getenv("DISPATCHCTL_CREDENTIALS"); v != "" {
		p.CredentialsFile = v
	}
	return p, p.validate()
}

func (p Profile) validate() error {
	if !strings.HasPrefix(p.BaseURL, "http://") && !strings.HasPrefix(p.BaseURL, "https://") {
		return fmt.Errorf("base_url must be an http(s) URL, got %q", p.BaseURL)
	}
	if p.CredentialsFile == "" {
		return errors.New("credentials_file is required")
	}
	if p.Timeout <= 0 {
		return errors.New("timeout must be positive")
	}
	return nil
}

// Save writes the profile as YAML, creating the directory if needed.
func (p Profile) Save(path string) error {
	raw, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		return fmt.Errorf("write profile: %w", err)
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
