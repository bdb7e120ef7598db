package postgres

import (
	"errors"
	"fmt"

	domerr "github.com/fishmap/fishmap/pkg/domain/errors"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"
)

// requested data is missing.
type Missing struct {
	Table    string
	Identity string
}

var _ error = Missing{}

func (m Missing) Error() string {
	return fmt.Sprintf("%s is not found in %s", m.Identity, m.Table)
}

func (m Missing) Unwrap() error {
	return domerr.ErrMissing
}

// a unique key of the table is already taken.
type Conflict struct {
	Table string

	// column name violating uniqueness, if known
	Field string
}

var _ error = Conflict{}

func (c Conflict) Error() string {
	if c.Field == "" {
		return fmt.Sprintf("conflict in %s", c.Table)
	}
	return fmt.Sprintf("%s is already used in %s", c.Field, c.Table)
}

func (c Conflict) ConflictingField() string {
	return c.Field
}

func (c Conflict) Unwrap() error {
	return domerr.ErrConflict
}

// state transition is rejected because the row is not in the expected state.
type InvalidState struct {
	Table    string
	Identity string
	Expected string
	Actual   string
}

var _ error = InvalidState{}

func (s InvalidState) Error() string {
	return fmt.Sprintf(
		"%s in %s is %s (expected: %s)", s.Identity, s.Table, s.Actual, s.Expected,
	)
}

func (s InvalidState) Unwrap() error {
	return domerr.ErrInvalidState
}

// AsConflict converts a unique violation into Conflict.
//
// fields maps constraint names to column names.
// Other errors are returned as they are.
func AsConflict(err error, table string, fields map[string]string) error {
	var pgerr *pgconn.PgError
	if !errors.As(err, &pgerr) || pgerr.Code != pgerrcode.UniqueViolation {
		return err
	}
	return Conflict{Table: table, Field: fields[pgerr.ConstraintName]}
}
