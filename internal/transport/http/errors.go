package http

import (
	"errors"

	apperrors "brickstats/internal/errors"
	"brickstats/internal/operations"
	"brickstats/internal/services"
)

// mapServiceError translates service and pipeline errors into API errors.
// Pipeline failures caused by an AppError keep that error so the handler can
// map its type.
func mapServiceError(err error) error {
	switch {
	case errors.Is(err, services.ErrNoStatistics):
		return apperrors.ErrMergedNotFound
	case errors.Is(err, services.ErrOperationRunning):
		return apperrors.ErrOperationRunning
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return err
	}

	var opErr *operations.OperationError
	if errors.As(err, &opErr) {
		return apperrors.ErrOperationExecution(err)
	}
	return err
}
