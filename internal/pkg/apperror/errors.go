package apperror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrOutOfStock        = errors.New("out of stock")
	ErrInvalidDateRange  = errors.New("invalid date range")
	ErrAlreadyReturned   = errors.New("borrowing already returned")
	ErrForbidden         = errors.New("forbidden")
	ErrNotFound          = errors.New("not found")
	ErrExternalProcessor = errors.New("payment processor error")
	ErrValidation        = errors.New("validation error")
	ErrConflict          = errors.New("conflict")
	ErrUnauthorized      = errors.New("unauthorized")

	// ErrNotificationDelivery is only ever logged.
	ErrNotificationDelivery = errors.New("notification delivery failed")
)

func NotFound(what string, id interface{}) error {
	return fmt.Errorf("%w: %s %v", ErrNotFound, what, id)
}

func Validation(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// HTTPStatus maps a domain error onto the response status code.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrOutOfStock),
		errors.Is(err, ErrInvalidDateRange),
		errors.Is(err, ErrAlreadyReturned),
		errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrExternalProcessor):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// TranslateDBError turns a postgres unique violation into ErrConflict and
// leaves every other error untouched.
func TranslateDBError(err error, what string) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return fmt.Errorf("%w: %s already exists", ErrConflict, what)
	}
	return err
}
