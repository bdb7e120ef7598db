// Package pointer helps with optional fields.
package pointer

// Ref returns a pointer to a copy of v.
func Ref[T any](v T) *T {
	return &v
}

// SafeDeref returns the value p points to, or the zero value when p is nil.
func SafeDeref[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}
