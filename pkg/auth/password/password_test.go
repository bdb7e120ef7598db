package password_test

import (
	"errors"
	"testing"

	"github.com/fishmap/fishmap/pkg/auth/password"
	"github.com/fishmap/fishmap/pkg/utils/try"
)

func TestHashAndCompare(t *testing.T) {
	hash := try.To(password.Hash("rahasia123")).OrFatal(t)
	if hash == "rahasia123" {
		t.Fatal("password is not hashed")
	}

	if err := password.Compare(hash, "rahasia123"); err != nil {
		t.Errorf("right password: %v", err)
	}
	if err := password.Compare(hash, "rahasia124"); !errors.Is(err, password.ErrMismatch) {
		t.Errorf("wrong password: %v", err)
	}
	if err := password.Compare("not a hash", "rahasia123"); err == nil || errors.Is(err, password.ErrMismatch) {
		t.Errorf("broken hash: %v", err)
	}
}
