package container

import (
	"context"
	"strings"

	"wisepage/application/proxy"
	"wisepage/domain/entities"
	"wisepage/domain/interfaces"
)

var itemChild = entities.ByXPath("./li")

// List wraps a <ul> or <ol> element
type List struct {
	Base
}

func NewList(root interfaces.WebElement) *List {
	return &List{Base: Base{root: root}}
}

// Ordered reports whether the list is an <ol>
func (l *List) Ordered(ctx context.Context) (bool, error) {
	tag, err := l.TagName(ctx)
	if err != nil {
		return false, err
	}
	return strings.EqualFold(tag, "ol"), nil
}

// Items returns the <li> elements that are direct children of this list
func (l *List) Items(ctx context.Context) ([]*Base, error) {
	found, err := l.FindElements(ctx, itemChild)
	if err != nil {
		return nil, err
	}
	items := make([]*Base, len(found))
	for i := range found {
		items[i] = NewBase(proxy.NewIndexed(l, itemChild, i))
	}
	return items, nil
}

func (l *List) Item(ctx context.Context, i int) (*Base, error) {
	found, err := l.FindElements(ctx, itemChild)
	if err != nil {
		return nil, err
	}
	if i < 0 || i >= len(found) {
		return nil, &entities.IndexOutOfRangeError{Kind: "item", Index: i, Len: len(found)}
	}
	return NewBase(proxy.NewIndexed(l, itemChild, i)), nil
}
