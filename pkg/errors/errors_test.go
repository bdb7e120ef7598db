package errors_test

import (
	"errors"
	"io"
	"runtime"
	"strings"
	"testing"

	xe "github.com/fishmap/fishmap/pkg/errors"
)

func failHere() error {
	return xe.New("test error")
}

func TestNew(t *testing.T) {
	err := failHere()
	msg := err.Error()
	_, thisFile, _, _ := runtime.Caller(0)

	if !strings.Contains(msg, "failHere") {
		t.Errorf("function name is missing: %s", msg)
	}
	if !strings.Contains(msg, thisFile) {
		t.Errorf("file name (%s) is missing: %s", thisFile, msg)
	}
}

func TestWrap(t *testing.T) {
	t.Run("it keeps the cause visible to errors.Is", func(t *testing.T) {
		err := xe.Wrap(xe.Errorf("reading: %w", io.ErrUnexpectedEOF))
		if !errors.Is(err, io.ErrUnexpectedEOF) {
			t.Errorf("cause is lost: %v", err)
		}
	})

	t.Run("it passes nil through", func(t *testing.T) {
		if err := xe.Wrap(nil); err != nil {
			t.Errorf("Wrap(nil) = %v", err)
		}
		if err := xe.WrapWithNote("note", nil); err != nil {
			t.Errorf("WrapWithNote(nil) = %v", err)
		}
	})

	t.Run("it shows the note", func(t *testing.T) {
		err := xe.WrapWithNote("loading user", io.EOF)
		if !strings.Contains(err.Error(), "(loading user)") {
			t.Errorf("note is missing: %s", err.Error())
		}
		var ewc *xe.ErrWithCaller
		if !errors.As(err, &ewc) {
			t.Fatalf("not an ErrWithCaller: %T", err)
		}
		if ewc.Line() <= 0 {
			t.Errorf("unexpected line: %d", ewc.Line())
		}
	})
}
