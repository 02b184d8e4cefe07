package postgres

import (
	"database/sql"

	crerr "github.com/cockroachdb/errors"
	"github.com/lib/pq"
)

// Postgres SQLSTATE classes the repositories care about.
var (
	ErrUniqueViolation     = crerr.New("unique violation")
	ErrForeignKeyViolation = crerr.New("foreign key violation")
	ErrCheckViolation      = crerr.New("check violation")
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
)

func isNotFound(err error) bool {
	return crerr.Is(err, sql.ErrNoRows)
}

// classify marks constraint failures so callers can tell them apart from
// connectivity errors. Unknown errors pass through unchanged.
func classify(err error) error {
	if err == nil {
		return nil
	}

	var pqErr *pq.Error
	if !crerr.As(err, &pqErr) {
		return err
	}

	switch string(pqErr.Code) {
	case codeUniqueViolation:
		return crerr.Mark(err, ErrUniqueViolation)
	case codeForeignKeyViolation:
		return crerr.Mark(err, ErrForeignKeyViolation)
	case codeCheckViolation:
		return crerr.Mark(err, ErrCheckViolation)
	default:
		return err
	}
}

func optionalString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

func stringValue(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
