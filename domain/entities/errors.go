package entities

import (
	"errors"
	"fmt"
)

var (
	ErrClassInstantiationFailed = errors.New("class instantiation failed")
	ErrFieldBindingFailed       = errors.New("field binding failed")
	ErrElementNotFound          = errors.New("element not found")
	ErrIndexOutOfRange          = errors.New("index out of range")
	ErrUnsupportedUnwrap        = errors.New("page does not wrap a session")
	ErrScreenshotUnsupported    = errors.New("session cannot take screenshots")
	ErrNoResolver               = errors.New("no resolver handles type")
)

// ClassInstantiationError - schema could not be built by either constructor shape
type ClassInstantiationError struct {
	Schema string
	Err    error
}

func (e *ClassInstantiationError) Error() string {
	return fmt.Sprintf("cannot instantiate page %s: %v", e.Schema, e.Err)
}

func (e *ClassInstantiationError) Is(target error) bool { return target == ErrClassInstantiationFailed }
func (e *ClassInstantiationError) Unwrap() error        { return e.Err }

// FieldBindingError - a resolved value could not be installed into a field
type FieldBindingError struct {
	Schema string
	Field  string
	Err    error
}

func (e *FieldBindingError) Error() string {
	return fmt.Sprintf("cannot bind field %s.%s: %v", e.Schema, e.Field, e.Err)
}

func (e *FieldBindingError) Is(target error) bool { return target == ErrFieldBindingFailed }
func (e *FieldBindingError) Unwrap() error        { return e.Err }

// ElementNotFoundError is returned when a deferred single-element query matched nothing.
// Scope identifies the scope the query ran against.
type ElementNotFoundError struct {
	Locator Locator
	Scope   string
}

func (e *ElementNotFoundError) Error() string {
	return fmt.Sprintf("no element found %s within %s", e.Locator, e.Scope)
}

func (e *ElementNotFoundError) Is(target error) bool { return target == ErrElementNotFound }

// IndexOutOfRangeError - row/cell/item index beyond the count resolved at call time
type IndexOutOfRangeError struct {
	Kind  string
	Index int
	Len   int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("%s index %d out of range [0,%d)", e.Kind, e.Index, e.Len)
}

func (e *IndexOutOfRangeError) Is(target error) bool { return target == ErrIndexOutOfRange }
