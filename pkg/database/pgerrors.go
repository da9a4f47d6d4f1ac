package database

import (
	"errors"

	"github.com/lib/pq"
)

// Postgres SQLSTATE codes the services translate into domain errors.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
	codeStringTooLong       = "22001"
)

// IsUniqueViolation reports whether err carries a unique_violation from Postgres.
func IsUniqueViolation(err error) bool {
	return hasCode(err, codeUniqueViolation)
}

// IsForeignKeyViolation reports whether err carries a foreign_key_violation.
func IsForeignKeyViolation(err error) bool {
	return hasCode(err, codeForeignKeyViolation)
}

// IsCheckViolation reports whether err carries a check_violation.
func IsCheckViolation(err error) bool {
	return hasCode(err, codeCheckViolation)
}

// IsStringTooLong reports whether a value overflowed a VARCHAR column.
func IsStringTooLong(err error) bool {
	return hasCode(err, codeStringTooLong)
}

// ConstraintName returns the violated constraint, if any.
func ConstraintName(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Constraint
	}
	return ""
}

func hasCode(err error, code string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == code
	}
	return false
}
