package session

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/inkwell-dev/inkchat/inkchat/config"
	"github.com/inkwell-dev/inkchat/inkchat/db"
	"github.com/inkwell-dev/inkchat/inkchat/session/adapters"
)

// Factory creates and wires a Session from stored settings.
type Factory struct {
	settings config.Settings
	logger   zerolog.Logger
}

// NewFactory creates a session factory.
func NewFactory(settings config.Settings, logger zerolog.Logger) *Factory {
	return &Factory{settings: settings, logger: logger}
}

// CreateSession wires provider, notifier, tracer, and (when enabled) the
// transcript archive from configuration.
func (f *Factory) CreateSession() (*Session, error) {
	provider := adapters.NewOpenAIProvider(
		f.settings.API.BaseURL,
		f.settings.API.Key,
		time.Duration(f.settings.API.TimeoutSeconds)*time.Second,
	)
	notifier := adapters.NewZerologNotifier(f.logger)
	opts := []Option{
		WithLogger(f.logger),
		WithTracer(adapters.NewZerologTracer(f.logger)),
	}

	if f.settings.Archive.Enabled {
		conn, err := db.Connect(f.settings.Archive.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open transcript archive: %w", err)
		}
		opts = append(opts, WithStore(adapters.NewLibSQLTranscriptStore(conn)))
	}

	return New(f.settings, provider, notifier, opts...), nil
}
