// Package resolver maps a declared field type to the deferred value installed for it.
package resolver

import (
	"reflect"

	"wisepage/application/container"
	"wisepage/application/proxy"
	"wisepage/domain/entities"
	"wisepage/domain/interfaces"
)

// Resolver is one resolution strategy. It never queries: Wrap only shapes the
// deferred element the chain hands it into the declared type.
type Resolver interface {
	CanHandle(t reflect.Type) bool
	Wrap(el interfaces.WebElement) any
}

type elementResolver struct{}

var webElementType = reflect.TypeFor[interfaces.WebElement]()

// Element - handles fields declared as interfaces.WebElement
func Element() Resolver {
	return elementResolver{}
}

func (elementResolver) CanHandle(t reflect.Type) bool     { return t == webElementType }
func (elementResolver) Wrap(el interfaces.WebElement) any { return el }

type containerResolver[T any] struct {
	wrap func(interfaces.WebElement) T
}

// Container - handles fields declared as T, building the value with wrap.
// Supporting a new container type means appending one of these to a chain.
func Container[T any](wrap func(interfaces.WebElement) T) Resolver {
	return containerResolver[T]{wrap: wrap}
}

func (r containerResolver[T]) CanHandle(t reflect.Type) bool {
	return t == reflect.TypeFor[T]()
}

func (r containerResolver[T]) Wrap(el interfaces.WebElement) any {
	return r.wrap(el)
}

// Chain is an ordered list of resolvers; the first one that can handle a type wins
type Chain []Resolver

// Default - element, table, list, frame and generic container resolvers
func Default() Chain {
	return Chain{
		Element(),
		Container(container.NewTable),
		Container(container.NewList),
		Container(container.NewFrame),
		Container(container.NewBase),
	}
}

// Append returns a new chain with rs tried after the existing resolvers
func (c Chain) Append(rs ...Resolver) Chain {
	out := make(Chain, 0, len(c)+len(rs))
	out = append(out, c...)
	return append(out, rs...)
}

// Lookup returns the first resolver willing to handle t
func (c Chain) Lookup(t reflect.Type) (Resolver, bool) {
	for _, r := range c {
		if r.CanHandle(t) {
			return r, true
		}
	}
	return nil, false
}

// Resolve returns a deferred value of type t bound to (scope, by).
// ok is false when no resolver handles t; that is not an error.
func (c Chain) Resolve(t reflect.Type, scope interfaces.SearchContext, by entities.Locator) (any, bool) {
	r, ok := c.Lookup(t)
	if !ok {
		return nil, false
	}
	return r.Wrap(proxy.NewElement(scope, by)), true
}

// ResolveAll returns a Lister producing one deferred value of type t per match of by.
// When no resolver handles t the Lister is nil, i.e. the empty sequence.
func (c Chain) ResolveAll(t reflect.Type, scope interfaces.SearchContext, by entities.Locator) proxy.Lister {
	r, ok := c.Lookup(t)
	if !ok {
		return nil
	}
	return proxy.Collect(scope, by, r.Wrap)
}
