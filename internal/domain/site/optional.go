package site

// Optional holds a value that may be unavailable. Degraded lookups produce a
// None rather than an error so callers render a placeholder instead of failing.
type Optional[T any] struct {
	value T
	ok    bool
}

// Some wraps a resolved value.
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, ok: true}
}

// None returns an unavailable value.
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// Get returns the value and whether it was resolved.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.ok
}

// OK reports whether the value was resolved.
func (o Optional[T]) OK() bool {
	return o.ok
}

// OrElse returns the value, or fallback when unavailable.
func (o Optional[T]) OrElse(fallback T) T {
	if o.ok {
		return o.value
	}
	return fallback
}
