package browser

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"wisepage/domain/interfaces"
	"wisepage/infrastructure/config"
	"wisepage/infrastructure/snapshot"
)

// Navigator is implemented by live sessions that can load a URL
type Navigator interface {
	Navigate(ctx context.Context, url string) error
}

var (
	_ Navigator = (*SeleniumSession)(nil)
	_ Navigator = (*PlaywrightSession)(nil)
	_ Navigator = (*RodSession)(nil)
)

// Open - starts the session selected by cfg.Backend
func Open(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (interfaces.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		session interfaces.Session
		err     error
	)
	switch cfg.Backend {
	case config.BackendSelenium:
		session, err = NewSeleniumSession(cfg, logger)
	case config.BackendPlaywright:
		session, err = NewPlaywrightSession(cfg, logger)
	case config.BackendRod:
		session, err = NewRodSession(cfg, logger)
	case config.BackendSnapshot:
		session, err = snapshot.Open(cfg.SnapshotFile, snapshot.WithLogger(logger))
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s session: %w", cfg.Backend, err)
	}
	return session, nil
}

// Navigate - loads url when the session supports it. Snapshots ignore an empty url
// and reject anything else.
func Navigate(ctx context.Context, session interfaces.Session, url string) error {
	if url == "" {
		return nil
	}
	nav, ok := session.(Navigator)
	if !ok {
		return fmt.Errorf("%s cannot navigate to %s", session, url)
	}
	return nav.Navigate(ctx, url)
}
