package interfaces

import "context"

// ScreenshotStore persists screenshots taken from a session
type ScreenshotStore interface {
	// Save captures the session and writes it under fileName, returning the written path
	Save(ctx context.Context, session Session, fileName string) (string, error)
}
