package service

import (
	"errors"

	apperrors "github.com/qconnect/clinic-api/internal/errors"
	"gorm.io/gorm"
)

// mapNotFound translates gorm's record miss into the given domain error and
// wraps anything else as internal. Repositories return storage errors raw;
// the service layer decides what they mean for the caller.
func mapNotFound(err error, notFound *apperrors.DomainError) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	var domainErr *apperrors.DomainError
	if errors.As(err, &domainErr) {
		return err
	}
	return apperrors.WrapError(apperrors.ErrInternal, err)
}
