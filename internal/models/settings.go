package models

// Settings represents global application settings.
// This corresponds to ~/.handit/settings.yaml.
type Settings struct {
	Version    int    `yaml:"version"`
	APIBaseURL string `yaml:"api_base_url"`
	WSURL      string `yaml:"ws_url,omitempty"` // derived from api_base_url when empty
	DevMode    bool   `yaml:"dev_mode"`

	Workspace WorkspaceConfig `yaml:"workspace"`
}

// WorkspaceConfig holds defaults for workspace scanning.
type WorkspaceConfig struct {
	IncludeGlob string `yaml:"include_glob"`
	ExcludeGlob string `yaml:"exclude_glob"`
	ScanLimit   int    `yaml:"scan_limit"`
}

// DefaultAPIBaseURL is used when no settings file exists.
const DefaultAPIBaseURL = "https://api.handit.ai"

// NewSettings creates settings with default values.
func NewSettings() *Settings {
	return &Settings{
		Version:    1,
		APIBaseURL: DefaultAPIBaseURL,
		DevMode:    false,
		Workspace: WorkspaceConfig{
			IncludeGlob: "**/*",
			ExcludeGlob: "**/{node_modules,.git,dist,build,vendor}/**",
			ScanLimit:   200,
		},
	}
}

// Credentials is the cached bearer token written by `handit login`.
// This corresponds to ~/.handit/credentials.yaml (mode 0600).
type Credentials struct {
	Email string `yaml:"email"`
	Token string `yaml:"token"`
}
