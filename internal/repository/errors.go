package repository

import (
	"errors"

	"github.com/anthonykurieh/voice-facilitator/internal/domain"

	"gorm.io/gorm"
)

var ErrNotFound = gorm.ErrRecordNotFound

// wrapStoreErr converts unexpected database failures into
// domain.StoreUnavailableError while letting typed scheduling errors and
// not-found results pass through untouched.
func wrapStoreErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var (
		closed   *domain.ClosedDayError
		conflict *domain.SlotConflictError
		invalid  *domain.InvalidInputError
	)
	if errors.As(err, &closed) || errors.As(err, &conflict) || errors.As(err, &invalid) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return &domain.StoreUnavailableError{Op: op, Err: err}
}
