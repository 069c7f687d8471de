package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const userConfigFile = "config.toml"

func userConfigPath(dataDir string) string {
	return filepath.Join(dataDir, userConfigFile)
}

// LoadSystemConfig reads settings.toml, writing the commented template on
// first run.
func LoadSystemConfig() (*SystemConfig, error) {
	cfg := DefaultSystemConfig()
	if err := decodeOrSeed(GetSettingsFilePath(), GenerateSystemConfigTemplate(), cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadUserConfig reads <dataDir>/config.toml over the defaults, writing the
// commented template on first run. Keys missing from the file keep their
// default values.
func LoadUserConfig(dataDir string) (*UserConfig, error) {
	cfg := DefaultUserConfig()
	if err := decodeOrSeed(userConfigPath(dataDir), GenerateUserConfigTemplate(), cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveUserConfig replaces config.toml atomically. The comments of the
// generated template are not preserved.
func SaveUserConfig(cfg *UserConfig, dataDir string) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode user config: %w", err)
	}
	return writePrivate(userConfigPath(dataDir), buf.Bytes())
}

func decodeOrSeed(path, template string, into any) error {
	if !FileExists(path) {
		return writePrivate(path, []byte(template))
	}
	if _, err := toml.DecodeFile(path, into); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// writePrivate writes data to path with 0600 permissions through a
// temporary file in the same directory.
func writePrivate(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := EnsureDir(dir); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return os.Rename(tmp.Name(), path)
}
