package services

import (
	"context"
	"database/sql/driver"
	"errors"
	"net"

	apperrors "fintrack/internal/errors"
)

// storeError maps a raw store error to the API taxonomy. Timeouts and
// connection failures become retryable 503s; everything else is an
// internal error carrying the cause for the logs.
func storeError(err error) *apperrors.AppError {
	if errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, driver.ErrBadConn) {
		return apperrors.Wrap(apperrors.ErrUnavailable, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return apperrors.Wrap(apperrors.ErrUnavailable, err)
	}

	return apperrors.Wrap(apperrors.ErrInternalServer, err)
}
