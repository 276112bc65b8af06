package snapshot

import (
	"fmt"

	"github.com/andybalholm/cascadia"
	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"wisepage/domain/entities"
	"wisepage/internal/selector"
)

// match evaluates by against the descendants of from. An id-or-name locator
// yields the id matches followed by the name matches.
func match(from *html.Node, by entities.Locator) ([]*html.Node, error) {
	sels, err := selector.Compile(by)
	if err != nil {
		return nil, err
	}
	var all []*html.Node
	for _, sel := range sels {
		nodes, err := query(from, sel)
		if err != nil {
			return nil, err
		}
		all = append(all, nodes...)
	}
	return all, nil
}

func query(from *html.Node, sel selector.Selector) ([]*html.Node, error) {
	switch sel.Kind {
	case selector.CSS:
		compiled, err := cascadia.Compile(sel.Expr)
		if err != nil {
			return nil, fmt.Errorf("invalid css selector %q: %w", sel.Expr, err)
		}
		return cascadia.QueryAll(from, compiled), nil
	default:
		nodes, err := htmlquery.QueryAll(from, sel.Expr)
		if err != nil {
			return nil, fmt.Errorf("invalid xpath %q: %w", sel.Expr, err)
		}
		return nodes, nil
	}
}
