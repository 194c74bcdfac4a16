// Package config loads gitea-mcp configuration from TOML files with
// environment-variable overrides.
package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/datapilot-canada/gitea-mcp/internal/common"
)

// Config holds all gitea-mcp configuration. It is constructed once at startup
// and passed by reference; nothing reads the environment after load.
type Config struct {
	Server  ServerConfig         `toml:"server"`
	Gitea   GiteaConfig          `toml:"gitea"`
	Logging common.LoggingConfig `toml:"logging"`
}

// ServerConfig holds MCP server settings.
type ServerConfig struct {
	Name string `toml:"name"`
	Port string `toml:"port"`
}

// GiteaConfig holds the upstream Gitea API settings.
type GiteaConfig struct {
	BaseURL  string `toml:"base_url"` // must carry an explicit http:// or https:// scheme
	Token    string `toml:"token"`    // access token, attached to every request
	CABundle string `toml:"ca_bundle"`
	Timeout  string `toml:"timeout"`
}

// GetTimeout parses and returns the request timeout duration.
func (c *GiteaConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

// NewDefaultConfig returns a Config with sensible defaults.
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Name: "gitea",
			Port: "8000",
		},
		Gitea: GiteaConfig{
			Timeout: "30s",
		},
		Logging: common.LoggingConfig{
			Level:      "info",
			Outputs:    []string{"console", "file"},
			FilePath:   "logs/gitea-mcp.log",
			MaxSizeMB:  100,
			MaxBackups: 3,
		},
	}
}

// Load loads configuration with priority: defaults -> file -> env.
// Missing files are skipped; a malformed file is an error. The returned
// config has been validated: an invalid base URL or missing credential is a
// startup error, never a per-call failure.
func Load(paths ...string) (*Config, error) {
	cfg := NewDefaultConfig()

	for _, path := range paths {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to config.
// GITEA_MCP_API_URL and GITEA_ACCESS_TOKEN match the names the server has
// always used; cmd/gitea-mcp loads a .env file before calling Load.
func applyEnvOverrides(cfg *Config) {
	if u := os.Getenv("GITEA_MCP_API_URL"); u != "" {
		cfg.Gitea.BaseURL = u
	}
	if tok := os.Getenv("GITEA_ACCESS_TOKEN"); tok != "" {
		cfg.Gitea.Token = tok
	}
	if ca := os.Getenv("GITEA_MCP_CA_BUNDLE"); ca != "" {
		cfg.Gitea.CABundle = ca
	}
	if port := os.Getenv("GITEA_MCP_PORT"); port != "" {
		cfg.Server.Port = port
	}
	if level := os.Getenv("GITEA_MCP_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}
}

// Validate checks the configuration is usable: base URL present with an
// explicit http/https scheme, credential present.
func (c *Config) Validate() error {
	if c.Gitea.BaseURL == "" {
		return fmt.Errorf("gitea base URL is required (set gitea.base_url or GITEA_MCP_API_URL)")
	}
	u, err := url.Parse(c.Gitea.BaseURL)
	if err != nil {
		return fmt.Errorf("gitea base URL %q is not a valid URL: %w", c.Gitea.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("gitea base URL %q must include an explicit http:// or https:// scheme", c.Gitea.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("gitea base URL %q has no host", c.Gitea.BaseURL)
	}
	if c.Gitea.Token == "" {
		return fmt.Errorf("gitea access token is required (set gitea.token or GITEA_ACCESS_TOKEN)")
	}
	return nil
}
