// Package config handles the .hamsterboard configuration file.
//
// The file lives in the user's home directory (or a custom path) and holds
// the player profile alongside the endpoint:
//
//	api_url: "https://counts.example.com/api"  - remote count store endpoint
//	hamster_name: "Biscuit"                    - the pet's display name
//	player_ig: "@alice"                        - canonical player handle
//	onboarding_done: true                      - first-run flow completed
//	data_dir: "/home/alice/.hamsterboard.d"    - local fallback store directory
//
// Environment variables (HMB_URL, HMB_NAME, HMB_IG, HMB_DATA_DIR) override
// the file; a .env file is loaded best-effort by the root command.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/hamsterboard/hmb/internal/identity"
)

// FileName is the name of the configuration file.
const FileName = ".hamsterboard"

// DataDirName is the default local store directory name.
const DataDirName = ".hamsterboard.d"

var urlPattern = regexp.MustCompile(`^https?://[^\s]+$`)

// customPath holds an optional custom config file path.
// When empty, Load() uses the default path under the home directory.
var customPath string

// SetPath sets a custom config file path for Load() and Save() to use.
// Pass an empty string to reset to the default path.
func SetPath(path string) {
	customPath = path
}

// GetPath returns the current config file path.
func GetPath() string {
	if customPath != "" {
		return customPath
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback: current directory
		return FileName
	}
	return filepath.Join(home, FileName)
}

// Config is the persisted client profile.
type Config struct {
	APIURL         string `yaml:"api_url" env:"HMB_URL"`
	HamsterName    string `yaml:"hamster_name" env:"HMB_NAME"`
	PlayerIG       string `yaml:"player_ig" env:"HMB_IG"`
	OnboardingDone bool   `yaml:"onboarding_done"`
	DataDir        string `yaml:"data_dir" env:"HMB_DATA_DIR"`
}

// ResolveDataDir returns the configured local store directory, defaulting
// to ~/.hamsterboard.d next to the config file.
func (c *Config) ResolveDataDir() string {
	if c.DataDir != "" {
		return c.DataDir
	}
	return filepath.Join(filepath.Dir(GetPath()), DataDirName)
}

// Load reads the configuration file and applies environment overrides.
// A missing file is not an error: it loads as a zero profile so `hmb init`
// can run before any file exists.
func Load() (*Config, error) {
	return LoadFrom(GetPath())
}

// LoadFrom reads a configuration file from a specific path and applies
// environment overrides.
func LoadFrom(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// Zero profile; env can still fill it in.
	default:
		return nil, err
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}

	if cfg.PlayerIG != "" {
		cfg.PlayerIG = identity.Normalize(cfg.PlayerIG)
	}
	return &cfg, nil
}

// Save writes the configuration to the config file.
func (c *Config) Save() error {
	path := GetPath()
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	header := "# Generated by: hmb init\n\n"
	content := header + string(data)

	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Validate checks that the profile is usable for remote operations.
func (c *Config) Validate() error {
	if c.APIURL == "" {
		return fmt.Errorf("api_url is required (set it with `hmb init --url` or HMB_URL)")
	}
	if !urlPattern.MatchString(c.APIURL) {
		return fmt.Errorf("api_url must be a valid HTTP(S) URL")
	}
	if c.PlayerIG == "" {
		return fmt.Errorf("player_ig is required (run `hmb init`)")
	}
	if !identity.IsValid(c.PlayerIG) {
		return fmt.Errorf("player_ig must be 1-30 letters, digits, dots, or underscores")
	}
	return nil
}
