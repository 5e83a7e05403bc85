// Package result provides a generic value-or-error container, used where a
// call site needs to pass a (value, error) pair through a channel or slice
// without losing the pairing.
package result

// Result holds either a value of type T or an error.
type Result[T any] struct {
	v   T
	err error
}

// New wraps an existing (value, error) pair.
func New[T any](v T, err error) Result[T] {
	return Result[T]{v: v, err: err}
}

// Ok wraps a successful value.
func Ok[T any](v T) Result[T] {
	return Result[T]{v: v}
}

// Err wraps an error with the zero value of T.
func Err[T any](err error) Result[T] {
	return Result[T]{err: err}
}

// Get returns the value and error together, Go-style.
func (r Result[T]) Get() (T, error) {
	return r.v, r.err
}

// Error returns the wrapped error, or nil.
func (r Result[T]) Error() error {
	return r.err
}

// Value returns the wrapped value. If the Result holds an error, this is the
// zero value of T; check Error() first.
func (r Result[T]) Value() T {
	return r.v
}

// IsOk reports whether the Result holds no error.
func (r Result[T]) IsOk() bool {
	return r.err == nil
}
