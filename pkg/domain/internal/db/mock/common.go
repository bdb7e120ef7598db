package mocks

// CallLog records arguments of each call to a mocked method.
type CallLog[T any] []T

func (l CallLog[T]) Times() uint {
	return uint(len(l))
}

// Last is the latest call. It panics when there are no calls.
func (l CallLog[T]) Last() T {
	return l[len(l)-1]
}
