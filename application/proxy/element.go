// Package proxy holds the deferred values installed into page fields.
//
// A proxy never caches what it finds: every call re-runs its query against the
// owning scope, so a reference replaced in the DOM between two calls is picked up
// by the second one.
package proxy

import (
	"context"
	"fmt"

	"wisepage/domain/entities"
	"wisepage/domain/interfaces"
)

// Element is a deferred WebElement over (scope, locator, index).
// Constructing one performs no query.
type Element struct {
	scope interfaces.SearchContext
	by    entities.Locator
	index int
}

var (
	_ interfaces.WebElement = (*Element)(nil)
	_ interfaces.FrameOwner = (*Element)(nil)
)

// NewElement - creates a proxy resolving to the first element matching by within scope
func NewElement(scope interfaces.SearchContext, by entities.Locator) *Element {
	return &Element{scope: scope, by: by}
}

// NewIndexed - creates a proxy resolving to the index-th match of by within scope.
// Collections hand these out so every item is re-resolved on use.
func NewIndexed(scope interfaces.SearchContext, by entities.Locator, index int) *Element {
	return &Element{scope: scope, by: by, index: index}
}

func (e *Element) Locator() entities.Locator       { return e.by }
func (e *Element) Scope() interfaces.SearchContext { return e.scope }
func (e *Element) Index() int                      { return e.index }

// Resolve runs the query and returns the live element it currently points to
func (e *Element) Resolve(ctx context.Context) (interfaces.WebElement, error) {
	found, err := e.scope.FindElements(ctx, e.by)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", e.by, err)
	}
	if e.index >= len(found) {
		notFound := &entities.ElementNotFoundError{Locator: e.by, Scope: Describe(e.scope)}
		if e.index > 0 {
			return nil, fmt.Errorf("match #%d of %d: %w", e.index, len(found), notFound)
		}
		return nil, notFound
	}
	return found[e.index], nil
}

func (e *Element) FindElements(ctx context.Context, by entities.Locator) ([]interfaces.WebElement, error) {
	el, err := e.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	return el.FindElements(ctx, by)
}

func (e *Element) TagName(ctx context.Context) (string, error) {
	el, err := e.Resolve(ctx)
	if err != nil {
		return "", err
	}
	return el.TagName(ctx)
}

func (e *Element) Text(ctx context.Context) (string, error) {
	el, err := e.Resolve(ctx)
	if err != nil {
		return "", err
	}
	return el.Text(ctx)
}

func (e *Element) Attribute(ctx context.Context, name string) (string, bool, error) {
	el, err := e.Resolve(ctx)
	if err != nil {
		return "", false, err
	}
	return el.Attribute(ctx, name)
}

// ContentScope resolves the element and opens the document of the frame it hosts
func (e *Element) ContentScope(ctx context.Context) (interfaces.SearchContext, error) {
	el, err := e.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	owner, ok := el.(interfaces.FrameOwner)
	if !ok {
		return nil, fmt.Errorf("%s: backend element %T cannot host a frame", e, el)
	}
	return owner.ContentScope(ctx)
}

func (e *Element) String() string {
	if e.index > 0 {
		return fmt.Sprintf("%s[%d] within %s", e.by, e.index, Describe(e.scope))
	}
	return fmt.Sprintf("%s within %s", e.by, Describe(e.scope))
}

// Describe renders a scope identity for diagnostics
func Describe(scope interfaces.SearchContext) string {
	if scope == nil {
		return "<nil scope>"
	}
	if s, ok := scope.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", scope)
}
