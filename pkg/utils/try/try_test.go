package try_test

import (
	"errors"
	"testing"

	"github.com/fishmap/fishmap/pkg/utils/try"
)

type fataler struct {
	fatal  [][]any
	helper int
}

func (f *fataler) Fatal(args ...any) {
	f.fatal = append(f.fatal, args)
}

func (f *fataler) Helper() {
	f.helper += 1
}

func TestTry(t *testing.T) {
	t.Run("ok value is returned without calling Fatal", func(t *testing.T) {
		f := &fataler{}
		if got := try.To(42, nil).OrFatal(f); got != 42 {
			t.Errorf("got %d", got)
		}
		if len(f.fatal) != 0 {
			t.Errorf("Fatal is called: %v", f.fatal)
		}
		if got := try.To(42, nil).OrDefault(1); got != 42 {
			t.Errorf("OrDefault: got %d", got)
		}
	})

	t.Run("error calls Helper and Fatal", func(t *testing.T) {
		f := &fataler{}
		cause := errors.New("fake")
		if got := try.To(42, cause).OrFatal(f); got != 0 {
			t.Errorf("got %d", got)
		}
		if len(f.fatal) != 1 || f.fatal[0][0] != cause {
			t.Errorf("unexpected Fatal calls: %v", f.fatal)
		}
		if f.helper != 1 {
			t.Errorf("Helper is called %d times", f.helper)
		}
		if got := try.To(42, cause).OrDefault(1); got != 1 {
			t.Errorf("OrDefault: got %d", got)
		}
	})
}
