package pagefactory

import (
	"context"
	"fmt"
	"reflect"

	"wisepage/application/proxy"
	"wisepage/domain/entities"
	"wisepage/domain/interfaces"
)

// Find locates a descendant of scope matching by and returns it as a T, e.g. a
// *container.Table nested in a cell. Presence is checked once; the returned value
// is deferred like any bound field.
func Find[T any](ctx context.Context, scope interfaces.SearchContext, by entities.Locator, opts ...Option) (T, error) {
	var zero T
	cfg := newConfig(opts)
	target := reflect.TypeFor[T]()

	r, ok := cfg.chain.Lookup(target)
	if !ok {
		return zero, fmt.Errorf("find %s: %w", target, entities.ErrNoResolver)
	}

	found, err := scope.FindElements(ctx, by)
	if err != nil {
		return zero, fmt.Errorf("find %s: %w", by, err)
	}
	if len(found) == 0 {
		return zero, &entities.ElementNotFoundError{Locator: by, Scope: proxy.Describe(scope)}
	}

	v, ok := r.Wrap(proxy.NewElement(scope, by)).(T)
	if !ok {
		return zero, fmt.Errorf("find %s: resolver produced another type: %w", target, entities.ErrNoResolver)
	}
	return v, nil
}
