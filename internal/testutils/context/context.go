// Package context provides contexts bound to a test.
package context

import (
	"context"
	"testing"
	"time"
)

// margin left before the test deadline for cleanups, such as dropping test databases.
const margin = 2 * time.Second

// For returns a context which is done when the test finishes,
// or shortly before the test deadline, whichever comes first.
func For(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	if deadline, ok := t.Deadline(); ok {
		dctx, dcancel := context.WithDeadline(ctx, deadline.Add(-margin))
		t.Cleanup(dcancel)
		return dctx
	}
	return ctx
}
