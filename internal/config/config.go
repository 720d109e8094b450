package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// DefaultPolicyPath is where a repository declares its access policy.
const DefaultPolicyPath = ".github/access-manager.yaml"

type Config struct {
	GitHub   GitHubConfig   `yaml:"github"`
	Verifier VerifierConfig `yaml:"verifier"`

	// Subjects is an optional allow-list of subject patterns checked
	// after verification. Empty means every verified subject is accepted.
	Subjects []string `yaml:"subjects"`

	Audit AuditConfig `yaml:"audit"`
	Admin AdminConfig `yaml:"admin"`
}

// GitHubConfig configures the credential-issuing GitHub App.
type GitHubConfig struct {
	// AppID is the GitHub App ID.
	AppID int64 `yaml:"app_id"`

	// PrivateKey is the GitHub App private key in PEM format.
	// Alternatively PrivateKeyFile points to a file containing it.
	PrivateKey     string `yaml:"private_key"`
	PrivateKeyFile string `yaml:"private_key_path"`

	// ServerURL is the GitHub Enterprise server URL.
	// For GitHub.com, this can be left empty.
	ServerURL string `yaml:"server"`

	// PolicyPath is the path of the access policy file within a
	// repository. Defaults to DefaultPolicyPath.
	PolicyPath string `yaml:"policy_path"`
}

func (c *GitHubConfig) Validate() error {
	if c.AppID == 0 {
		return fmt.Errorf("app_id is required")
	}
	if c.PrivateKey == "" && c.PrivateKeyFile == "" {
		return fmt.Errorf("private_key or private_key_path is required")
	}
	if c.PrivateKey != "" && c.PrivateKeyFile != "" {
		return fmt.Errorf("private_key and private_key_path are mutually exclusive")
	}
	return nil
}

// VerifierConfig configures the identity verifier.
type VerifierConfig struct {
	// Type selects the verifier implementation ("oidc" or "static").
	// Defaults to "oidc".
	Type string `yaml:"type"`

	// IssuerURL is the OIDC issuer. Defaults to the GitHub Actions
	// token issuer.
	IssuerURL string `yaml:"issuer_url"`

	// Audience is the expected "aud" claim of identity assertions.
	Audience string `yaml:"audience"`

	// Config captures remaining verifier-specific fields
	// (e.g. the static verifier's token map).
	Config map[string]any `yaml:",inline"`
}

const DefaultIssuerURL = "https://token.actions.githubusercontent.com"

func (c *VerifierConfig) Validate() error {
	switch c.Type {
	case "", "oidc":
		if c.Audience == "" {
			return fmt.Errorf("audience is required for the oidc verifier")
		}
	case "static":
		// token map is optional, an empty one fails every verification
	default:
		return fmt.Errorf("unknown verifier type %q", c.Type)
	}
	return nil
}

// AuditConfig holds configuration for auditing.
type AuditConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
	Type    string `yaml:"type"` // e.g., "file", "memory"
}

func (c *AuditConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	switch c.Type {
	case "memory":
	case "file":
		if c.Path == "" {
			return fmt.Errorf("path is required for the file auditor")
		}
	default:
		return fmt.Errorf("unknown audit type %q", c.Type)
	}
	return nil
}

// AdminConfig configures the admin API surface.
type AdminConfig struct {
	// SigningKey verifies admin session tokens (HMAC).
	// Leaving it empty disables the admin routes.
	SigningKey string `yaml:"signing_key"`
}

// Load reads and parses the configuration file at the given path.
// It returns a Config struct or an error if loading/parsing/validation fails.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config file: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.GitHub.PolicyPath == "" {
		c.GitHub.PolicyPath = DefaultPolicyPath
	}
	if c.Verifier.IssuerURL == "" {
		c.Verifier.IssuerURL = DefaultIssuerURL
	}
}

func (c *Config) Validate() error {
	if err := c.GitHub.Validate(); err != nil {
		return fmt.Errorf("github: %w", err)
	}
	if err := c.Verifier.Validate(); err != nil {
		return fmt.Errorf("verifier: %w", err)
	}
	if err := c.Audit.Validate(); err != nil {
		return fmt.Errorf("audit: %w", err)
	}
	return nil
}
