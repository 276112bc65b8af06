// Package container wraps structural regions of a page (tables, lists, frames)
// and enforces their child-traversal rules.
//
// Every entity handed out by a container is backed by a deferred proxy, so it is
// re-resolved from the session root each time it is used. Nothing is snapshotted.
package container

import (
	"context"
	"fmt"

	"wisepage/application/proxy"
	"wisepage/domain/entities"
	"wisepage/domain/interfaces"
)

// Container is a scope-bearing structural region of the page
type Container interface {
	interfaces.SearchContext
	Root() interfaces.WebElement
}

// Base is the common part of every element-rooted container. It is itself a
// WebElement whose queries are confined to its root.
type Base struct {
	root interfaces.WebElement
}

var (
	_ Container             = (*Base)(nil)
	_ interfaces.WebElement = (*Base)(nil)
)

func NewBase(root interfaces.WebElement) *Base {
	return &Base{root: root}
}

func (b *Base) Root() interfaces.WebElement {
	return b.root
}

func (b *Base) FindElements(ctx context.Context, by entities.Locator) ([]interfaces.WebElement, error) {
	return b.root.FindElements(ctx, by)
}

// FindElement checks that a descendant matching by exists right now and returns a
// deferred proxy to it, scoped to this container
func (b *Base) FindElement(ctx context.Context, by entities.Locator) (interfaces.WebElement, error) {
	if err := mustFind(ctx, b, by); err != nil {
		return nil, err
	}
	return proxy.NewElement(b, by), nil
}

func (b *Base) TagName(ctx context.Context) (string, error) {
	return b.root.TagName(ctx)
}

func (b *Base) Text(ctx context.Context) (string, error) {
	return b.root.Text(ctx)
}

func (b *Base) Attribute(ctx context.Context, name string) (string, bool, error) {
	return b.root.Attribute(ctx, name)
}

func (b *Base) String() string {
	return fmt.Sprint(b.root)
}

func mustFind(ctx context.Context, scope interfaces.SearchContext, by entities.Locator) error {
	found, err := scope.FindElements(ctx, by)
	if err != nil {
		return err
	}
	if len(found) == 0 {
		return &entities.ElementNotFoundError{Locator: by, Scope: proxy.Describe(scope)}
	}
	return nil
}
