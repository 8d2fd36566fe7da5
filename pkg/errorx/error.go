package errorx

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

type Error struct {
	Code    Code
	Message string
}

func (e Error) Error() string {
	return e.Message
}

func New(code Code, format string, a ...any) Error {
	return Error{Code: code, Message: fmt.Sprintf(format, a...)}
}

// Is reports whether err is an Error with the given code.
func Is(err error, code Code) bool {
	var errx Error
	if errors.As(err, &errx) {
		return errx.Code == code
	}

	return false
}

// IsRetryable returns true if the operation failing with err may succeed when
// it is retried without any change from the caller.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var errx Error
	if errors.As(err, &errx) {
		return errx.Code == Unavailable
	}

	return isTransient(err)
}

// Classify converts a raw storage error into an Error. Transient failures
// become Unavailable, anything else becomes Internal.
func Classify(err error) Error {
	var errx Error
	if errors.As(err, &errx) {
		return errx
	}

	if isTransient(err) {
		return Error{Code: Unavailable, Message: "Service is temporarily unavailable"}
	}

	return Unknown
}

func isTransient(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, mysql.ErrInvalidConn) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case 1205, 1213: // lock wait timeout, deadlock
			return true
		}
	}

	return errors.Is(err, gorm.ErrInvalidDB)
}

func HTTPStatus(err error) int {
	var errx Error
	if !errors.As(err, &errx) {
		return http.StatusInternalServerError
	}

	switch errx.Code {
	case BadRequest:
		return http.StatusBadRequest
	case Unauthenticated:
		return http.StatusUnauthorized
	case PermissionDenied:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	case AlreadyExists:
		return http.StatusConflict
	case TooManyRequests:
		return http.StatusTooManyRequests
	case Unavailable:
		return http.StatusServiceUnavailable
	case NotImplemented:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
