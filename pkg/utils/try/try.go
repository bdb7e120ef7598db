// Package try shortens setup code in tests, where any error is fatal.
package try

// Fataler is *testing.T, *testing.B, *log.Logger and so on.
type Fataler interface {
	Fatal(...any)
}

// Result is a value with the error returned along with it.
type Result[T any] struct {
	value T
	err   error
}

// To captures results of a call returning (T, error).
func To[T any](value T, err error) Result[T] {
	return Result[T]{value: value, err: err}
}

// OrFatal returns the value, or stops the test with the error.
//
// When ftl has Helper() like *testing.T, it is called first so that the failure points to the caller.
func (r Result[T]) OrFatal(ftl Fataler) T {
	if r.err == nil {
		return r.value
	}
	if h, ok := ftl.(interface{ Helper() }); ok {
		h.Helper()
	}
	ftl.Fatal(r.err)
	return *new(T)
}

// OrDefault returns the value, or d on error.
func (r Result[T]) OrDefault(d T) T {
	if r.err != nil {
		return d
	}
	return r.value
}
