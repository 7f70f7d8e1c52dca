package service

import (
	"errors"

	"gorm.io/gorm"

	"github.com/billy93/E-Learning-sub000/pkg/apperror"
)

// storeError maps an entity store failure onto the application error kinds.
// Missing records become NotFound; anything else is surfaced as Internal with
// the store error kept as the cause.
func storeError(err error, resource string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NotFound(resource)
	}
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		return err
	}
	return apperror.Internal(err, "failed to load "+resource)
}

// notFound is returned when a viewer lacks the link to a record, so its
// existence is not revealed.
func notFound(resource string) error {
	return apperror.NotFound(resource)
}
