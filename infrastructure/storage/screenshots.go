package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"wisepage/domain/interfaces"
)

type screenshots struct {
	dir    string
	logger *logrus.Logger
}

// NewScreenshots - creates screenshot storage rooted at dir
func NewScreenshots(dir string, logger *logrus.Logger) interfaces.ScreenshotStore {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &screenshots{dir: dir, logger: logger}
}

// Save - captures the session and writes it as PNG. A fileName without an
// extension gets ".png"; relative names land under the storage directory.
func (s *screenshots) Save(ctx context.Context, session interfaces.Session, fileName string) (string, error) {
	if fileName == "" {
		return "", fmt.Errorf("screenshot file name is empty")
	}

	data, err := session.Screenshot(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to capture %s: %w", session, err)
	}

	path := fileName
	if filepath.Ext(path) == "" {
		path += ".png"
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.dir, path)
	}

	if err := writeFile(path, data); err != nil {
		return "", err
	}
	s.logger.Infof("Screenshot saved: %s (%d bytes)", path, len(data))
	return path, nil
}

// writeFile writes through a temp file in the same directory so a reader never
// sees a partial image.
func writeFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".shot-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Shooter takes screenshots of one session into a store
type Shooter struct {
	store   interfaces.ScreenshotStore
	session interfaces.Session
	saved   []string
}

var _ interfaces.ScreenShooter[*Shooter] = (*Shooter)(nil)

func NewShooter(store interfaces.ScreenshotStore, session interfaces.Session) *Shooter {
	return &Shooter{store: store, session: session}
}

// TakeScreenShot - saves a screenshot and returns s for chaining. A fileName
// without an extension gets ".png" appended.
func (s *Shooter) TakeScreenShot(ctx context.Context, fileName string) (*Shooter, error) {
	path, err := s.store.Save(ctx, s.session, fileName)
	if err != nil {
		return s, err
	}
	s.saved = append(s.saved, path)
	return s, nil
}

// Saved lists the written paths in the order they were taken
func (s *Shooter) Saved() []string {
	return append([]string(nil), s.saved...)
}
