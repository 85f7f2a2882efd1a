package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/handit-ai/handit-cli/internal/models"
)

// LoadCredentials loads the cached bearer token, if any. A missing file is
// not an error; it returns (nil, nil).
func LoadCredentials() (*models.Credentials, error) {
	path, err := GlobalCredentialsFile()
	if err != nil {
		return nil, err
	}
	if !FileExists(path) {
		return nil, nil
	}
	var creds models.Credentials
	if err := LoadYAML(path, &creds); err != nil {
		return nil, err
	}
	return &creds, nil
}

// SaveCredentials writes the bearer token to ~/.handit/credentials.yaml.
// The file holds a live credential so it is created with mode 0600.
func SaveCredentials(creds *models.Credentials) error {
	if err := EnsureGlobalDir(); err != nil {
		return err
	}
	path, err := GlobalCredentialsFile()
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(creds)
	if err != nil {
		return fmt.Errorf("failed to marshal credentials: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write credentials: %w", err)
	}
	return nil
}

// DeleteCredentials removes the cached token. Deleting a token that was
// never saved is a no-op.
func DeleteCredentials() error {
	path, err := GlobalCredentialsFile()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
