package apiclient

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Credentials is what a login leaves behind on disk for later commands.
type Credentials struct {
	BaseURL   string `yaml:"baseUrl,omitempty"`
	Token     string `yaml:"token"`
	TrainerID string `yaml:"trainerId"`
	Email     string `yaml:"email,omitempty"`
}

// LoadCredentials reads a credentials file. A missing file is reported
// with an error wrapping fs.ErrNotExist.
func LoadCredentials(path string) (Credentials, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Credentials{}, fmt.Errorf("read credentials: %w", err)
	}
	var c Credentials
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return Credentials{}, fmt.Errorf("parse credentials %s: %w", path, err)
	}
	return c, nil
}

// SaveCredentials writes c readable by the owner only.
func SaveCredentials(path string, c Credentials) error {
	raw, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create credentials dir: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}
	return nil
}

// RemoveCredentials deletes the file; a missing file is not an error.
func RemoveCredentials(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
