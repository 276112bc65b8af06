package proxy

import (
	"context"
	"fmt"
	"reflect"

	"wisepage/domain/entities"
	"wisepage/domain/interfaces"
)

// Lister produces the current items of a collection. A nil Lister is empty.
type Lister func(ctx context.Context) ([]any, error)

// Collect - builds a Lister that queries scope on every call and hands out one
// indexed proxy per match, passed through wrap
func Collect(scope interfaces.SearchContext, by entities.Locator, wrap func(interfaces.WebElement) any) Lister {
	return func(ctx context.Context) ([]any, error) {
		found, err := scope.FindElements(ctx, by)
		if err != nil {
			return nil, fmt.Errorf("find all %s: %w", by, err)
		}
		items := make([]any, len(found))
		for i := range found {
			items[i] = wrap(NewIndexed(scope, by, i))
		}
		return items, nil
	}
}

// List is the declared type of collection fields. The zero List is the empty sequence.
type List[T any] struct {
	find Lister
}

func NewList[T any](find Lister) List[T] {
	return List[T]{find: find}
}

// All re-queries the collection and returns its items in document order
func (l List[T]) All(ctx context.Context) ([]T, error) {
	if l.find == nil {
		return []T{}, nil
	}
	items, err := l.find(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]T, 0, len(items))
	for i, item := range items {
		v, ok := item.(T)
		if !ok {
			return nil, fmt.Errorf("list item %d is %T, want %s", i, item, reflect.TypeFor[T]())
		}
		out = append(out, v)
	}
	return out, nil
}

func (l List[T]) Len(ctx context.Context) (int, error) {
	if l.find == nil {
		return 0, nil
	}
	items, err := l.find(ctx)
	if err != nil {
		return 0, err
	}
	return len(items), nil
}

// At returns the i-th item, or an IndexOutOfRangeError if the collection
// currently has no such item
func (l List[T]) At(ctx context.Context, i int) (T, error) {
	var zero T
	items, err := l.All(ctx)
	if err != nil {
		return zero, err
	}
	if i < 0 || i >= len(items) {
		return zero, &entities.IndexOutOfRangeError{Kind: "list", Index: i, Len: len(items)}
	}
	return items[i], nil
}
