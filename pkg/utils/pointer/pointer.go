// Package pointer takes addresses of values, mostly to fill the
// optional pointer fields of API request bodies.
package pointer

// Ref returns a pointer to t. Handy for literals, like
// pointer.Ref(true) for a partial-update body.
func Ref[T any](t T) *T {
	return &t
}

// Deref is the inverse of Ref. It panics on nil.
func Deref[T any](ptr *T) T {
	return *ptr
}

// SafeDeref dereferences val, or returns the zero value when val is nil.
func SafeDeref[T any](val *T) T {
	if val == nil {
		return *new(T)
	}
	return *val
}
