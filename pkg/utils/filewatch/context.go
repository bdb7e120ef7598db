// Package filewatch ties context lifetimes to files on disk.
package filewatch

import (
	"context"
	"errors"
	"fmt"

	"github.com/fsnotify/fsnotify"
)

// ErrModified is the cause of contexts cancelled by a change of a watched file.
var ErrModified = errors.New("watched file is modified")

// UntilModified returns a context cancelled when one of paths is written, created, removed or renamed.
//
// Watching a directory covers files in it. Changing only the permission of a file is not a modification.
//
// context.Cause of the returned context wraps ErrModified and names the file.
// If the watcher itself fails, the cause is the failure.
//
// The returned function stops watching. It should be called when the context is no longer needed.
func UntilModified(ctx context.Context, paths ...string) (context.Context, func(), error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, nil, err
	}
	for _, p := range paths {
		if err := w.Add(p); err != nil {
			w.Close()
			return nil, nil, fmt.Errorf("can not watch %s: %w", p, err)
		}
	}

	cctx, cancel := context.WithCancelCause(ctx)
	go func() {
		defer w.Close()
		for {
			select {
			case <-cctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Op == fsnotify.Chmod {
					continue
				}
				cancel(fmt.Errorf("%w: %s (%s)", ErrModified, ev.Name, ev.Op))
				return
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				cancel(err)
				return
			}
		}
	}()

	return cctx, func() { cancel(nil) }, nil
}
