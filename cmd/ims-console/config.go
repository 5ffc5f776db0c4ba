// Package main provides configuration loading for the IMS console.
//
// Settings come from three places, lowest to highest precedence: built-in
// defaults, an optional ims-config.yml in the working directory, and
// environment variables (a local .env file is loaded first via godotenv).
package main

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	ims "github.com/Lovable-Leapmile/ims-robot-console"
	"github.com/Lovable-Leapmile/ims-robot-console/models"
	"github.com/Lovable-Leapmile/ims-robot-console/services"
	"github.com/Lovable-Leapmile/ims-robot-console/session"
)

const consoleConfigFilename = "ims-config.yml"

const (
	defaultStatusPollInterval = 3 * time.Second
	defaultTrayPollInterval   = 2 * time.Second
)

// App bundles everything the views share: the API client, the session
// store, and the polling cadences.
type App struct {
	Client  *ims.Client
	Session *session.Store
	Config  *models.ConsoleConfig

	ScaraDispatcher *services.ScaraDispatcher

	StatusPollInterval time.Duration
	TrayPollInterval   time.Duration
}

// LoadConsoleConfig reads ims-config.yml from the working directory. A
// missing file is not an error; it just means defaults.
func LoadConsoleConfig() (*models.ConsoleConfig, error) {
	data, err := os.ReadFile(consoleConfigFilename)
	if err != nil {
		if os.IsNotExist(err) {
			return &models.ConsoleConfig{}, nil
		}
		return nil, err
	}

	var config models.ConsoleConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	return &config, nil
}

// NewApp loads configuration, opens the persisted session, and builds the
// API client.
func NewApp() (*App, error) {
	// Load .env file
	godotenv.Load()

	config, err := LoadConsoleConfig()
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("IMS_BASE_URL"); v != "" {
		config.BaseURL = v
	}
	if v := os.Getenv("IMS_PUBSUB_URL"); v != "" {
		config.PubSubURL = v
	}
	if v := os.Getenv("IMS_PUBSUB_TOKEN"); v != "" {
		config.PubSubToken = v
	}

	store, err := session.Open(consoleDir())
	if err != nil {
		return nil, err
	}

	var opts []ims.ClientOption
	if config.BaseURL != "" {
		opts = append(opts, ims.WithBaseURL(config.BaseURL))
	}
	if config.PubSubURL != "" {
		opts = append(opts, ims.WithPubSubBaseURL(config.PubSubURL))
	}
	opts = append(opts,
		ims.WithPubSubToken(config.PubSubToken),
		ims.WithTokenSource(store),
	)

	client := ims.NewClient(opts...)

	app := &App{
		Client:             client,
		Session:            store,
		Config:             config,
		StatusPollInterval: defaultStatusPollInterval,
		TrayPollInterval:   defaultTrayPollInterval,
	}
	// The dispatcher's seen set must live for the whole process, so it
	// follows the app rather than any one client instance.
	app.ScaraDispatcher = services.NewScaraDispatcher(appPublisher{app: app})
	if config.StatusPollSeconds > 0 {
		app.StatusPollInterval = time.Duration(config.StatusPollSeconds) * time.Second
	}
	if config.TrayPollSeconds > 0 {
		app.TrayPollInterval = time.Duration(config.TrayPollSeconds) * time.Second
	}

	return app, nil
}

// SetBaseURL rebuilds the client against a different robot-manager base
// URL. The login screen exposes this so the demo can point at another
// backend without restarting.
func (a *App) SetBaseURL(baseURL string) {
	a.Config.BaseURL = baseURL

	var opts []ims.ClientOption
	if baseURL != "" {
		opts = append(opts, ims.WithBaseURL(baseURL))
	}
	if a.Config.PubSubURL != "" {
		opts = append(opts, ims.WithPubSubBaseURL(a.Config.PubSubURL))
	}
	opts = append(opts,
		ims.WithPubSubToken(a.Config.PubSubToken),
		ims.WithTokenSource(a.Session),
	)

	a.Client = ims.NewClient(opts...)
}

// appPublisher routes pick notifications through whatever client the app
// currently holds, so a base URL change at login does not strand the
// dispatcher on a stale client.
type appPublisher struct {
	app *App
}

func (p appPublisher) Publish(ctx context.Context, topic string, message models.DeviceMessage) error {
	return p.app.Client.PubSub.Publish(ctx, topic, message)
}

// consoleDir returns the per-user state directory (~/.ims)
func consoleDir() string {
	return filepath.Join(os.Getenv("HOME"), ".ims")
}
