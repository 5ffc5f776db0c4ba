package models

// ConsoleConfig is the root ims-config.yml structure. Every field is
// optional; environment variables take precedence over the file.
type ConsoleConfig struct {
	BaseURL     string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	PubSubURL   string `json:"pubsub_url,omitempty" yaml:"pubsub_url,omitempty"`
	PubSubToken string `json:"pubsub_token,omitempty" yaml:"pubsub_token,omitempty"`

	// Poll cadences in seconds; zero means the built-in default
	// (3s device status, 2s ready trays).
	StatusPollSeconds int `json:"status_poll_seconds,omitempty" yaml:"status_poll_seconds,omitempty"`
	TrayPollSeconds   int `json:"tray_poll_seconds,omitempty" yaml:"tray_poll_seconds,omitempty"`
}
