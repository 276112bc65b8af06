// Package snapshot is an offline session over a parsed HTML document. It answers
// the same queries as a live browser, which makes it usable for saved pages and as
// a deterministic backend in tests.
package snapshot

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync/atomic"

	"github.com/antchfx/htmlquery"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/html"

	"wisepage/domain/entities"
	"wisepage/domain/interfaces"
)

// Document is a Session backed by an in-memory DOM tree
type Document struct {
	root    *html.Node
	name    string
	logger  *logrus.Logger
	queries *atomic.Int64
}

var _ interfaces.Session = (*Document)(nil)

type Option func(d *Document)

// WithName sets the name used in diagnostics
func WithName(name string) Option {
	return func(d *Document) { d.name = name }
}

func WithLogger(logger *logrus.Logger) Option {
	return func(d *Document) { d.logger = logger }
}

func newDocument(root *html.Node, opts []Option) *Document {
	d := &Document{
		root:    root,
		name:    "document",
		logger:  logrus.StandardLogger(),
		queries: new(atomic.Int64),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Parse - parses an HTML document from r
func Parse(r io.Reader, opts ...Option) (*Document, error) {
	root, err := htmlquery.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}
	return newDocument(root, opts), nil
}

func ParseString(s string, opts ...Option) (*Document, error) {
	return Parse(strings.NewReader(s), opts...)
}

// Open - loads and parses the HTML file at path
func Open(path string, opts ...Option) (*Document, error) {
	root, err := htmlquery.LoadDoc(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return newDocument(root, append([]Option{WithName(path)}, opts...)), nil
}

func (d *Document) FindElements(ctx context.Context, by entities.Locator) ([]interfaces.WebElement, error) {
	return d.find(ctx, d.root, by)
}

// Queries returns how many element queries have been answered, frames included
func (d *Document) Queries() int64 {
	return d.queries.Load()
}

func (d *Document) Screenshot(ctx context.Context) ([]byte, error) {
	return nil, fmt.Errorf("%s: %w", d, entities.ErrScreenshotUnsupported)
}

func (d *Document) Close() error {
	return nil
}

func (d *Document) String() string {
	return "snapshot(" + d.name + ")"
}

func (d *Document) find(ctx context.Context, from *html.Node, by entities.Locator) ([]interfaces.WebElement, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.queries.Add(1)

	nodes, err := match(from, by)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", d, err)
	}
	d.logger.Debugf("Snapshot query %s from %s matched %d", by, nodePath(from), len(nodes))

	found := make([]interfaces.WebElement, 0, len(nodes))
	for _, n := range nodes {
		if n.Type != html.ElementNode {
			continue
		}
		found = append(found, &Element{doc: d, node: n})
	}
	return found, nil
}

// frame opens the srcdoc of an iframe as a child document sharing the query counter
func (d *Document) frame(owner *html.Node, srcdoc string) (*Document, error) {
	root, err := htmlquery.Parse(strings.NewReader(srcdoc))
	if err != nil {
		return nil, fmt.Errorf("failed to parse frame document: %w", err)
	}
	return &Document{
		root:    root,
		name:    d.name + " > " + nodePath(owner),
		logger:  d.logger,
		queries: d.queries,
	}, nil
}
