package pagefactory

import (
	"context"
	"errors"
	"fmt"

	"wisepage/domain/entities"
	"wisepage/domain/interfaces"
)

// Bound is a page produced by Bind. A page built through its no-argument
// constructor is self-contained: it holds the session and gives it back through
// UnwrapSession.
type Bound[P any] struct {
	page          *P
	session       interfaces.Session
	selfContained bool
	shots         interfaces.ScreenshotStore
}

var _ interfaces.WrapsSession = (*Bound[struct{}])(nil)

var _ interfaces.ScreenShooter[*Bound[struct{}]] = (*Bound[struct{}])(nil)

// Get returns the bound page
func (b *Bound[P]) Get() *P {
	return b.page
}

// And returns b, for chained calls such as Bind(...).And().Get()
func (b *Bound[P]) And() *Bound[P] {
	return b
}

func (b *Bound[P]) SelfContained() bool {
	return b.selfContained
}

// UnwrapSession returns the session of a self-contained page
func (b *Bound[P]) UnwrapSession() (interfaces.Session, error) {
	if !b.selfContained {
		return nil, fmt.Errorf("page %T was built with a session constructor: %w", b.page, entities.ErrUnsupportedUnwrap)
	}
	return b.session, nil
}

// TakeScreenShot captures the session into fileName and returns b. A fileName
// without an extension is saved with ".png" appended.
func (b *Bound[P]) TakeScreenShot(ctx context.Context, fileName string) (*Bound[P], error) {
	if b.shots == nil {
		return b, errors.New("take screenshot: no screenshot store configured")
	}
	if _, err := b.shots.Save(ctx, b.session, fileName); err != nil {
		return b, fmt.Errorf("take screenshot %s: %w", fileName, err)
	}
	return b, nil
}

// Unwrap - recovers the session of a self-contained page.
// Pass the *Bound returned by Bind, not the *P it holds: the page struct itself
// does not carry the session. Anything else yields ErrUnsupportedUnwrap.
func Unwrap(page any) (interfaces.Session, error) {
	w, ok := page.(interfaces.WrapsSession)
	if !ok {
		return nil, fmt.Errorf("%T: %w", page, entities.ErrUnsupportedUnwrap)
	}
	return w.UnwrapSession()
}
