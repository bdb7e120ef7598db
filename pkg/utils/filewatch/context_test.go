package filewatch_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fishmap/fishmap/pkg/utils/filewatch"
)

// waitDone waits ctx or a few seconds, and tells whether ctx is done.
func waitDone(ctx context.Context, timeout time.Duration) bool {
	select {
	case <-ctx.Done():
		return true
	case <-time.After(timeout):
		return false
	}
}

func TestUntilModified(t *testing.T) {
	type When struct {
		// watchDir watches the directory instead of the file.
		watchDir bool
		modify   func(t *testing.T, file string)
	}

	theory := func(when When, thenCancelled bool) func(*testing.T) {
		return func(t *testing.T) {
			dir := t.TempDir()
			file := filepath.Join(dir, "config.yaml")
			if err := os.WriteFile(file, []byte("port: 8080\n"), 0o644); err != nil {
				t.Fatal(err)
			}

			target := file
			if when.watchDir {
				target = dir
			}
			ctx, stop, err := filewatch.UntilModified(context.Background(), target)
			if err != nil {
				t.Fatal(err)
			}
			defer stop()

			if ctx.Err() != nil {
				t.Fatal("context is done before modification")
			}
			when.modify(t, file)

			timeout := 3 * time.Second
			if !thenCancelled {
				timeout = 300 * time.Millisecond
			}
			if got := waitDone(ctx, timeout); got != thenCancelled {
				t.Fatalf("cancelled: want %v, got %v", thenCancelled, got)
			}
			if thenCancelled && !errors.Is(context.Cause(ctx), filewatch.ErrModified) {
				t.Errorf("unexpected cause: %v", context.Cause(ctx))
			}
		}
	}

	write := func(t *testing.T, file string) {
		if err := os.WriteFile(file, []byte("port: 9090\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	remove := func(t *testing.T, file string) {
		if err := os.Remove(file); err != nil {
			t.Fatal(err)
		}
	}
	rename := func(t *testing.T, file string) {
		if err := os.Rename(file, file+".bak"); err != nil {
			t.Fatal(err)
		}
	}
	chmod := func(t *testing.T, file string) {
		if err := os.Chmod(file, 0o600); err != nil {
			t.Fatal(err)
		}
	}
	create := func(t *testing.T, file string) {
		if err := os.WriteFile(filepath.Join(filepath.Dir(file), "new.yaml"), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	t.Run("written file", theory(When{modify: write}, true))
	t.Run("removed file", theory(When{modify: remove}, true))
	t.Run("renamed file", theory(When{modify: rename}, true))
	t.Run("file created in watched directory", theory(When{watchDir: true, modify: create}, true))
	t.Run("permission change is ignored", theory(When{modify: chmod}, false))
}

func TestUntilModified_StopDoesNotCauseModification(t *testing.T) {
	ctx, stop, err := filewatch.UntilModified(context.Background(), t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	stop()
	<-ctx.Done()
	if errors.Is(context.Cause(ctx), filewatch.ErrModified) {
		t.Errorf("unexpected cause: %v", context.Cause(ctx))
	}
}

func TestUntilModified_MissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.yaml")
	if _, _, err := filewatch.UntilModified(context.Background(), missing); err == nil {
		t.Error("missing file is watched")
	}
}
