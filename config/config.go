package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"
)

// Environment variables recognised at startup.
const (
	EnvAPIKey        = "PRIMORDIA_API_KEY"
	EnvBackendURL    = "PRIMORDIA_API_BASE_URL"
	EnvProvider      = "PRIMORDIA_PROVIDER"
	EnvModel         = "PRIMORDIA_MODEL"
	EnvDataDir       = "PRIMORDIA_DATA_DIR"
	EnvDebug         = "PRIMORDIA_DEBUG"
	EnvSSHPassphrase = "PRIMORDIA_SSH_PASSPHRASE"
)

type SystemConfig struct {
	DataDirectory string `toml:"data_directory"`
}

type BackendConfig struct {
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

type ModelConfig struct {
	Provider string `toml:"provider"`
	Model    string `toml:"model"`
	BaseURL  string `toml:"base_url,omitempty"`
}

type AgentConfig struct {
	MaxToolRounds       int    `toml:"max_tool_rounds"`
	PollIntervalSeconds int    `toml:"poll_interval_seconds"`
	AllowStatusTool     bool   `toml:"allow_status_tool"`
	SystemPrompt        string `toml:"system_prompt,omitempty"`
}

type CredentialConfig struct {
	Method     string `toml:"method"`
	SSHKeyPath string `toml:"ssh_key_path,omitempty"`
}

type UserConfig struct {
	Backend     BackendConfig    `toml:"backend"`
	Model       ModelConfig      `toml:"model"`
	Agent       AgentConfig      `toml:"agent"`
	Credentials CredentialConfig `toml:"credentials"`
}

// Config is the resolved runtime configuration.
type Config struct {
	DataDirectory string

	BackendURL     string
	BackendTimeout time.Duration

	Provider     string
	ModelName    string
	ModelBaseURL string

	MaxToolRounds   int
	PollInterval    time.Duration
	AllowStatusTool bool
	SystemPrompt    string

	CredentialMethod SecurityMethod
	SSHKeyPath       string

	// SSHPassphrase unlocks an encrypted SSH key. It is never persisted;
	// it comes from the environment or the startup prompt.
	SSHPassphrase string
}

var Debug = false
var DebugLog *log.Logger

func (c *Config) DataDir() string {
	return ExpandPath(c.DataDirectory)
}

func (c *Config) applyUserConfig(u *UserConfig) {
	c.BackendURL = u.Backend.BaseURL
	if u.Backend.TimeoutSeconds > 0 {
		c.BackendTimeout = time.Duration(u.Backend.TimeoutSeconds) * time.Second
	}
	c.Provider = u.Model.Provider
	c.ModelName = u.Model.Model
	c.ModelBaseURL = u.Model.BaseURL
	c.MaxToolRounds = u.Agent.MaxToolRounds
	if u.Agent.PollIntervalSeconds > 0 {
		c.PollInterval = time.Duration(u.Agent.PollIntervalSeconds) * time.Second
	}
	c.AllowStatusTool = u.Agent.AllowStatusTool
	c.SystemPrompt = u.Agent.SystemPrompt
	if u.Credentials.Method != "" {
		c.CredentialMethod = SecurityMethod(u.Credentials.Method)
	}
	c.SSHKeyPath = ExpandPath(u.Credentials.SSHKeyPath)
}

func (c *Config) applyEnvOverrides() {
	if url := os.Getenv(EnvBackendURL); url != "" {
		c.BackendURL = url
	}
	if p := os.Getenv(EnvProvider); p != "" {
		c.Provider = p
	}
	if m := os.Getenv(EnvModel); m != "" {
		c.ModelName = m
	}
	if p := os.Getenv(EnvSSHPassphrase); p != "" {
		c.SSHPassphrase = p
	}
}

func CheckDebug() bool {
	debug := os.Getenv(EnvDebug)
	return debug == "true" || debug == "1"
}

func InitDebugLog(dataDir string) {
	if !CheckDebug() {
		return
	}

	Debug = true
	logPath := filepath.Join(dataDir, "debug.log")

	// 0600: the log can contain tool payloads
	f, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not open debug log at %s: %v\n", logPath, err)
		return
	}

	DebugLog = log.New(f, "", log.Ldate|log.Ltime|log.Lmicroseconds|log.Lshortfile)
	DebugLog.Printf("=== Debug logging started (%s=%s) ===", EnvDebug, os.Getenv(EnvDebug))
	DebugLog.Printf("Log path: %s", logPath)
}

// Load resolves the configuration from settings.toml, the user config in
// the data directory and environment overrides, in that order.
func Load() (*Config, error) {
	defaults := DefaultUserConfig()
	cfg := &Config{
		DataDirectory:    DefaultSystemConfig().DataDirectory,
		BackendTimeout:   60 * time.Second,
		PollInterval:     3 * time.Second,
		CredentialMethod: SecurityPlainText,
	}
	cfg.applyUserConfig(defaults)

	if dataDir := os.Getenv(EnvDataDir); dataDir != "" {
		cfg.DataDirectory = dataDir
	} else {
		systemCfg, err := LoadSystemConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to load system config: %w", err)
		}
		if systemCfg.DataDirectory != "" {
			cfg.DataDirectory = systemCfg.DataDirectory
		}
	}

	dataDir := cfg.DataDir()
	if err := EnsureDataDirPermissions(dataDir); err != nil {
		return nil, fmt.Errorf("failed to prepare data directory: %w", err)
	}

	userCfg, err := LoadUserConfig(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load user config: %w", err)
	}
	cfg.applyUserConfig(userCfg)
	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks values that cannot be defaulted.
func (c *Config) Validate() error {
	if c.BackendURL == "" {
		return fmt.Errorf("backend base_url is not set")
	}
	if c.MaxToolRounds < 0 {
		return fmt.Errorf("agent max_tool_rounds must be >= 0, got %d", c.MaxToolRounds)
	}
	switch c.CredentialMethod {
	case SecurityPlainText, SecuritySSHKey:
	default:
		return fmt.Errorf("unknown credential method: %s", c.CredentialMethod)
	}
	return nil
}

// RequiresAPIKey reports whether the configured model provider needs a
// credential. Local Ollama does not.
func (c *Config) RequiresAPIKey() bool {
	return c.Provider != "ollama"
}
