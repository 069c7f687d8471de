package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// SecurityMethod defines the credential storage method
type SecurityMethod string

const (
	SecurityPlainText SecurityMethod = "plaintext"
	SecuritySSHKey    SecurityMethod = "ssh_key"
)

// ErrNoCredential is returned when no model API key could be found.
var ErrNoCredential = errors.New("no model API key configured")

// CredentialStore holds the single model API key, either as a plain TOML
// file or encrypted with an SSH key.
type CredentialStore struct {
	method     SecurityMethod
	sshKeyPath string
	passphrase string
	apiKey     string
}

func NewCredentialStore(method SecurityMethod, sshKeyPath string) *CredentialStore {
	return &CredentialStore{
		method:     method,
		sshKeyPath: sshKeyPath,
	}
}

// SetPassphrase sets the passphrase for decrypting the SSH key
func (c *CredentialStore) SetPassphrase(passphrase string) {
	c.passphrase = passphrase
}

func (c *CredentialStore) APIKey() string {
	return c.apiKey
}

func (c *CredentialStore) SetAPIKey(key string) {
	c.apiKey = strings.TrimSpace(key)
}

// Load reads the stored key from disk. A missing file is not an error.
func (c *CredentialStore) Load(dataDir string) error {
	switch c.method {
	case SecurityPlainText:
		key, err := loadPlainText(dataDir)
		if err != nil {
			return err
		}
		c.apiKey = key
		return nil

	case SecuritySSHKey:
		key, err := c.loadSSHEncrypted(dataDir)
		if err != nil {
			return err
		}
		c.apiKey = key
		return nil

	default:
		return fmt.Errorf("unknown security method: %s", c.method)
	}
}

// Save writes the key to disk with 0600 permissions.
func (c *CredentialStore) Save(dataDir string) error {
	switch c.method {
	case SecurityPlainText:
		return savePlainText(dataDir, c.apiKey)

	case SecuritySSHKey:
		return c.saveSSHEncrypted(dataDir)

	default:
		return fmt.Errorf("unknown security method: %s", c.method)
	}
}

// ResolveAPIKey returns the model API key, preferring the environment over
// the credential store. Returns ErrNoCredential when neither has one.
func ResolveAPIKey(cfg *Config) (string, error) {
	if key := strings.TrimSpace(os.Getenv(EnvAPIKey)); key != "" {
		return key, nil
	}

	store := NewCredentialStore(cfg.CredentialMethod, cfg.SSHKeyPath)
	store.SetPassphrase(cfg.SSHPassphrase)
	if err := store.Load(cfg.DataDir()); err != nil {
		return "", fmt.Errorf("failed to load credentials: %w", err)
	}
	if store.APIKey() == "" {
		return "", ErrNoCredential
	}
	return store.APIKey(), nil
}

// NeedsSSHPassphrase reports whether the stored key can only be read after
// the user enters the SSH key passphrase.
func (c *Config) NeedsSSHPassphrase() bool {
	if c.CredentialMethod != SecuritySSHKey || c.SSHPassphrase != "" || !c.RequiresAPIKey() {
		return false
	}
	if strings.TrimSpace(os.Getenv(EnvAPIKey)) != "" {
		return false
	}
	if !FileExists(encryptedCredentialsPath(c.DataDir())) {
		return false
	}
	encrypted, err := IsSSHKeyEncrypted(c.SSHKeyPath)
	return err == nil && encrypted
}

func credentialsPath(dataDir string) string {
	return filepath.Join(dataDir, "credentials.toml")
}

func encryptedCredentialsPath(dataDir string) string {
	return filepath.Join(dataDir, "credentials.enc")
}

type credentialsFile struct {
	APIKey string `toml:"api_key"`
}

func loadPlainText(dataDir string) (string, error) {
	path := credentialsPath(dataDir)
	if !FileExists(path) {
		return "", nil
	}

	var cf credentialsFile
	if _, err := toml.DecodeFile(path, &cf); err != nil {
		return "", fmt.Errorf("failed to parse credentials file: %w", err)
	}

	return strings.TrimSpace(cf.APIKey), nil
}

func savePlainText(dataDir string, apiKey string) error {
	f, err := os.OpenFile(credentialsPath(dataDir), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create credentials file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(credentialsFile{APIKey: apiKey}); err != nil {
		return fmt.Errorf("failed to encode credentials: %w", err)
	}

	return nil
}

func (c *CredentialStore) encryptionManager() (*EncryptionManager, error) {
	if c.sshKeyPath == "" {
		return nil, fmt.Errorf("ssh_key credential method requires ssh_key_path")
	}
	em := NewEncryptionManager(c.sshKeyPath)
	em.SetPassphrase(c.passphrase)
	if err := em.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize encryption: %w", err)
	}
	return em, nil
}

func (c *CredentialStore) loadSSHEncrypted(dataDir string) (string, error) {
	path := encryptedCredentialsPath(dataDir)
	if !FileExists(path) {
		return "", nil
	}

	em, err := c.encryptionManager()
	if err != nil {
		return "", err
	}

	encryptedData, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read encrypted credentials: %w", err)
	}

	decrypted, err := em.Decrypt(encryptedData)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt credentials: %w", err)
	}

	return strings.TrimSpace(string(decrypted)), nil
}

func (c *CredentialStore) saveSSHEncrypted(dataDir string) error {
	em, err := c.encryptionManager()
	if err != nil {
		return err
	}

	encrypted, err := em.Encrypt([]byte(c.apiKey))
	if err != nil {
		return fmt.Errorf("failed to encrypt credentials: %w", err)
	}

	if err := os.WriteFile(encryptedCredentialsPath(dataDir), encrypted, 0600); err != nil {
		return fmt.Errorf("failed to write encrypted credentials: %w", err)
	}

	return nil
}
