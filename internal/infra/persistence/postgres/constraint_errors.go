package postgres

import (
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type constraint int

const (
	noConstraint constraint = iota
	uniqueConstraint
	foreignKeyConstraint
	notNullConstraint
)

// PostgreSQL SQLSTATE codes, class 23 (integrity constraint violation).
const (
	pgNotNullViolation    = "23502"
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
)

// violated reports which integrity constraint err broke. GORM's translated
// sentinels are checked first, then the raw driver errors.
func violated(err error) constraint {
	switch {
	case err == nil:
		return noConstraint
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return uniqueConstraint
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return foreignKeyConstraint
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return uniqueConstraint
		case pgForeignKeyViolation:
			return foreignKeyConstraint
		case pgNotNullViolation:
			return notNullConstraint
		}
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		switch liteErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return uniqueConstraint
		case sqlite3.ErrConstraintForeignKey:
			return foreignKeyConstraint
		case sqlite3.ErrConstraintNotNull:
			return notNullConstraint
		}
	}

	return noConstraint
}
