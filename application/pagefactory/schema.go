package pagefactory

import (
	"fmt"
	"reflect"

	"wisepage/application/proxy"
	"wisepage/domain/entities"
	"wisepage/domain/interfaces"
)

// Schema describes how to build a page of type P and which of its fields to bind.
// It is assembled once by NewSchema and never changes afterwards.
type Schema[P any] struct {
	name        string
	withSession func(interfaces.Session) *P
	noArg       func() *P

	own      []Field[P]
	embedded []Field[P]
	fields   []Field[P]
}

// SchemaOption configures a Schema. Field descriptors are options too.
type SchemaOption[P any] interface {
	apply(s *Schema[P])
}

type schemaOptionFunc[P any] func(s *Schema[P])

func (f schemaOptionFunc[P]) apply(s *Schema[P]) { f(s) }

// NewSchema - registers the page type P. An empty name defaults to the Go type name.
//
// Fields declared directly on the schema win over same-named fields pulled in
// through Embeds, whatever order the options are given in.
func NewSchema[P any](name string, opts ...SchemaOption[P]) *Schema[P] {
	s := &Schema[P]{name: name}
	if s.name == "" {
		s.name = reflect.TypeFor[P]().String()
	}
	for _, opt := range opts {
		opt.apply(s)
	}

	seen := make(map[string]bool, len(s.own)+len(s.embedded))
	for _, group := range [][]Field[P]{s.own, s.embedded} {
		for _, f := range group {
			if seen[f.name] {
				continue
			}
			seen[f.name] = true
			s.fields = append(s.fields, f)
		}
	}
	return s
}

func (s *Schema[P]) Name() string {
	return s.name
}

// Fields returns the flattened descriptors, most-derived first
func (s *Schema[P]) Fields() []Field[P] {
	out := make([]Field[P], len(s.fields))
	copy(out, s.fields)
	return out
}

// WithSessionConstructor - preferred constructor; the page keeps the session itself
func WithSessionConstructor[P any](fn func(interfaces.Session) *P) SchemaOption[P] {
	return schemaOptionFunc[P](func(s *Schema[P]) { s.withSession = fn })
}

// WithConstructor - fallback constructor; pages built this way are self-contained
// and give their session back through Unwrap
func WithConstructor[P any](fn func() *P) SchemaOption[P] {
	return schemaOptionFunc[P](func(s *Schema[P]) { s.noArg = fn })
}

// Zero registers new(P) as the no-argument constructor
func Zero[P any]() SchemaOption[P] {
	return WithConstructor(func() *P { return new(P) })
}

// Embeds pulls the fields of base into this schema. project returns the embedded
// B inside a P, usually &p.B.
func Embeds[P, B any](base *Schema[B], project func(*P) *B) SchemaOption[P] {
	return schemaOptionFunc[P](func(s *Schema[P]) {
		for _, bf := range base.fields {
			lifted := Field[P]{
				name:    bf.name,
				target:  bf.target,
				by:      bf.by,
				many:    bf.many,
				accepts: bf.accepts,
			}
			lifted.install = func(p *P, v any) error {
				b := project(p)
				if b == nil {
					return fmt.Errorf("embedded %s is nil", base.name)
				}
				return bf.install(b, v)
			}
			s.embedded = append(s.embedded, lifted)
		}
	})
}

// Field describes one bindable field of P: its name, declared type and locator
type Field[P any] struct {
	name    string
	target  reflect.Type
	by      entities.Locator
	many    bool
	accepts func(v any) bool
	install func(p *P, v any) error
}

func (f Field[P]) apply(s *Schema[P]) { s.own = append(s.own, f) }

func (f Field[P]) Name() string              { return f.name }
func (f Field[P]) Type() reflect.Type        { return f.target }
func (f Field[P]) Locator() entities.Locator { return f.by }
func (f Field[P]) Many() bool                { return f.many }

// FieldOption customizes a field descriptor
type FieldOption func(f *fieldConfig)

type fieldConfig struct {
	by entities.Locator
}

// FindBy overrides the default id-or-name lookup on the field name
func FindBy(by entities.Locator) FieldOption {
	return func(f *fieldConfig) { f.by = by }
}

func newFieldConfig(name string, opts []FieldOption) fieldConfig {
	cfg := fieldConfig{by: entities.ByIDOrName(name)}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// One declares a single-valued field of type T, installed with set
func One[P, T any](name string, set func(*P, T), opts ...FieldOption) Field[P] {
	cfg := newFieldConfig(name, opts)
	target := reflect.TypeFor[T]()
	return Field[P]{
		name:    name,
		target:  target,
		by:      cfg.by,
		accepts: func(v any) bool { _, ok := v.(T); return ok },
		install: func(p *P, v any) error {
			t, ok := v.(T)
			if !ok {
				return fmt.Errorf("resolved %T is not a %s", v, target)
			}
			set(p, t)
			return nil
		},
	}
}

// Many declares a collection field whose items are of type T
func Many[P, T any](name string, set func(*P, proxy.List[T]), opts ...FieldOption) Field[P] {
	cfg := newFieldConfig(name, opts)
	return Field[P]{
		name:    name,
		target:  reflect.TypeFor[T](),
		by:      cfg.by,
		many:    true,
		accepts: func(v any) bool { _, ok := v.(T); return ok },
		install: func(p *P, v any) error {
			find, ok := v.(proxy.Lister)
			if !ok {
				return fmt.Errorf("resolved %T is not a list", v)
			}
			set(p, proxy.NewList[T](find))
			return nil
		},
	}
}
