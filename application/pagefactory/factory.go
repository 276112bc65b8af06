// Package pagefactory builds page objects and installs deferred proxies into their
// fields.
//
// Binding performs no query against the session. A bound field only talks to the
// browser when it is used, and it re-queries on every use.
package pagefactory

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"wisepage/application/proxy"
	"wisepage/application/resolver"
	"wisepage/domain/entities"
	"wisepage/domain/interfaces"
)

type config struct {
	chain  resolver.Chain
	logger *logrus.Logger
	shots  interfaces.ScreenshotStore
}

// Option configures a Bind, InitElements or Find call
type Option func(c *config)

// WithChain replaces the default resolver chain
func WithChain(chain resolver.Chain) Option {
	return func(c *config) { c.chain = chain }
}

func WithLogger(logger *logrus.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithScreenshots sets the store used by Bound.TakeScreenShot
func WithScreenshots(store interfaces.ScreenshotStore) Option {
	return func(c *config) { c.shots = store }
}

func newConfig(opts []Option) *config {
	c := &config{
		chain:  resolver.Default(),
		logger: logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Bind - instantiates the page described by schema and binds every field to session.
//
// The session constructor is preferred; the no-argument constructor is the
// fallback and yields a self-contained page. Any error leaves no page behind.
func Bind[P any](schema *Schema[P], session interfaces.Session, opts ...Option) (*Bound[P], error) {
	if session == nil {
		return nil, fmt.Errorf("bind %s: nil session", schema.name)
	}
	cfg := newConfig(opts)

	page, selfContained, err := instantiate(schema, session)
	if err != nil {
		return nil, err
	}
	if err := initElements(cfg, schema, session, page); err != nil {
		return nil, err
	}

	cfg.logger.Debugf("Bound page %s to %s (self-contained: %t)", schema.name, session, selfContained)
	return &Bound[P]{
		page:          page,
		session:       session,
		selfContained: selfContained,
		shots:         cfg.shots,
	}, nil
}

// InitElements binds the fields of an already built page to scope. scope may be the
// session or any element or container, which makes nested page components possible.
// On error the page must be discarded.
func InitElements[P any](schema *Schema[P], scope interfaces.SearchContext, page *P, opts ...Option) error {
	if page == nil {
		return &entities.ClassInstantiationError{Schema: schema.name, Err: errors.New("nil page")}
	}
	return initElements(newConfig(opts), schema, scope, page)
}

func instantiate[P any](schema *Schema[P], session interfaces.Session) (*P, bool, error) {
	var causes []error

	if schema.withSession != nil {
		page, err := construct(func() *P { return schema.withSession(session) })
		if err == nil {
			return page, false, nil
		}
		causes = append(causes, fmt.Errorf("session constructor: %w", err))
	}

	if schema.noArg != nil {
		page, err := construct(schema.noArg)
		if err == nil {
			return page, true, nil
		}
		causes = append(causes, fmt.Errorf("no-argument constructor: %w", err))
	}

	if len(causes) == 0 {
		causes = append(causes, errors.New("neither a session constructor nor a no-argument constructor is registered"))
	}
	return nil, false, &entities.ClassInstantiationError{Schema: schema.name, Err: errors.Join(causes...)}
}

func construct[P any](fn func() *P) (page *P, err error) {
	defer func() {
		if r := recover(); r != nil {
			page, err = nil, fmt.Errorf("panic: %v", r)
		}
	}()
	page = fn()
	if page == nil {
		return nil, errors.New("returned nil")
	}
	return page, nil
}

func initElements[P any](cfg *config, schema *Schema[P], scope interfaces.SearchContext, page *P) error {
	for _, f := range schema.fields {
		var value any

		if f.many {
			if r, ok := cfg.chain.Lookup(f.target); ok && !f.accepts(r.Wrap(proxy.NewElement(scope, f.by))) {
				return &entities.FieldBindingError{
					Schema: schema.name,
					Field:  f.name,
					Err:    fmt.Errorf("resolver for %s produces items of another type", f.target),
				}
			}
			value = cfg.chain.ResolveAll(f.target, scope, f.by)
		} else {
			v, ok := cfg.chain.Resolve(f.target, scope, f.by)
			if !ok {
				cfg.logger.Debugf("No resolver for %s.%s (%s), leaving it unbound", schema.name, f.name, f.target)
				continue
			}
			value = v
		}

		if err := install(f, page, value); err != nil {
			return &entities.FieldBindingError{Schema: schema.name, Field: f.name, Err: err}
		}
		cfg.logger.WithFields(logrus.Fields{
			"page":    schema.name,
			"field":   f.name,
			"locator": f.by.String(),
		}).Debug("Bound field")
	}
	return nil
}

func install[P any](f Field[P], page *P, value any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("setter panicked: %v", r)
		}
	}()
	return f.install(page, value)
}
