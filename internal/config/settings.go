package config

import (
	"net/url"
	"strings"

	"github.com/handit-ai/handit-cli/internal/models"
)

// LoadSettings loads the global settings from ~/.handit/settings.yaml.
// If the file doesn't exist, returns default settings.
func LoadSettings() (*models.Settings, error) {
	path, err := GlobalSettingsFile()
	if err != nil {
		return nil, err
	}
	return LoadYAMLOrDefault(path, models.NewSettings)
}

// SaveSettings saves the global settings to ~/.handit/settings.yaml.
func SaveSettings(settings *models.Settings) error {
	path, err := GlobalSettingsFile()
	if err != nil {
		return err
	}
	return SaveYAML(path, settings)
}

// WebSocketURL returns the push-notification endpoint for the given
// settings. When ws_url is not set explicitly it is derived from the API
// base URL by swapping the scheme (https -> wss, http -> ws).
func WebSocketURL(s *models.Settings) string {
	if s.WSURL != "" {
		return s.WSURL
	}
	u, err := url.Parse(s.APIBaseURL)
	if err != nil || u.Host == "" {
		return strings.Replace(s.APIBaseURL, "http", "ws", 1)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = "/ws"
	return u.String()
}
