package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrDuplicate marks a write rejected by a unique index. Validation-time
// uniqueness checks run first, but a concurrent writer can still win the
// race; the index is the final arbiter and this is how its verdict
// surfaces.
var ErrDuplicate = errors.New("duplicate record")

var ErrNotFound = gorm.ErrRecordNotFound

// translate maps Postgres unique violations (SQLSTATE 23505) onto
// ErrDuplicate and passes everything else through.
func translate(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicate
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	return err
}
