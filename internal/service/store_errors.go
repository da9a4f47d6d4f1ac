package service

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/noah-isme/student-records-api/pkg/database"
	appErrors "github.com/noah-isme/student-records-api/pkg/errors"
)

// storeError translates a repository error for entity into a typed error.
// action is the verb used in the internal error message ("create", "load").
func storeError(err error, entity, action string) error {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return appErrors.Clone(appErrors.ErrNotFound, entity+" not found")
	case database.IsUniqueViolation(err):
		msg := entity + " already exists"
		if name := database.ConstraintName(err); name != "" {
			msg = fmt.Sprintf("%s violates %s", entity, name)
		}
		return appErrors.CloneWrap(appErrors.ErrUniqueViolation, err, msg)
	case database.IsForeignKeyViolation(err):
		return appErrors.CloneWrap(appErrors.ErrConflict, err, entity+" references or is referenced by another record")
	case database.IsCheckViolation(err), database.IsStringTooLong(err):
		return appErrors.CloneWrap(appErrors.ErrValidation, err, "invalid "+entity+" values")
	default:
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, fmt.Sprintf("failed to %s %s", action, entity))
	}
}

func validationError(err error, entity string) error {
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid "+entity+" payload")
}
