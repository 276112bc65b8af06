package interfaces

import (
	"context"
	"fmt"

	"wisepage/domain/entities"
)

// SearchContext is anything that can find elements scoped to itself.
// The session is the root scope; every element is a scope for nested queries.
type SearchContext interface {
	// FindElements returns every match in document order. No match is not an error.
	FindElements(ctx context.Context, by entities.Locator) ([]WebElement, error)
}

// WebElement defines the read-only operations available on a live element
type WebElement interface {
	SearchContext

	// TagName returns the lower-case tag name
	TagName(ctx context.Context) (string, error)

	// Text returns the element's visible text without leading or trailing whitespace
	Text(ctx context.Context) (string, error)

	// Attribute reads an attribute; ok is false when the attribute is absent
	Attribute(ctx context.Context, name string) (value string, ok bool, err error)
}

// FrameOwner is implemented by elements that can expose the document of an
// <iframe> or <frame> as a scope.
type FrameOwner interface {
	ContentScope(ctx context.Context) (SearchContext, error)
}

// Session defines the remote browser session a page is bound to
type Session interface {
	SearchContext
	fmt.Stringer

	// Screenshot captures the current viewport as PNG
	Screenshot(ctx context.Context) ([]byte, error)

	// Close releases the session
	Close() error
}

// WrapsSession is implemented by self-contained pages that hold their own session
type WrapsSession interface {
	UnwrapSession() (Session, error)
}

// ScreenShooter takes a screenshot and returns its receiver to allow chained calls
type ScreenShooter[T any] interface {
	TakeScreenShot(ctx context.Context, fileName string) (T, error)
}
