package errorx

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New(BadRequest, "Exceed the maximum of limit (%d)", 50)
	require.Equal(t, "Exceed the maximum of limit (50)", err.Error())
	require.True(t, Is(err, BadRequest))
	require.True(t, Is(fmt.Errorf("wrapped: %w", err), BadRequest))
	require.False(t, Is(err, NotFound))
}

func TestIsRetryable(t *testing.T) {
	require.False(t, IsRetryable(nil))
	require.True(t, IsRetryable(New(Unavailable, "busy")))
	require.False(t, IsRetryable(New(BadRequest, "bad")))
	require.True(t, IsRetryable(context.DeadlineExceeded))
	require.True(t, IsRetryable(&mysql.MySQLError{Number: 1213, Message: "deadlock"}))
	require.False(t, IsRetryable(&mysql.MySQLError{Number: 1062, Message: "duplicate"}))
	require.False(t, IsRetryable(errors.New("syntax error")))
}

func TestClassify(t *testing.T) {
	require.Equal(t, Unavailable, Classify(context.DeadlineExceeded).Code)
	require.Equal(t, Internal, Classify(errors.New("boom")).Code)
	require.Equal(t, NotFound, Classify(New(NotFound, "Not found challenge")).Code)
}

func TestHTTPStatus(t *testing.T) {
	require.Equal(t, http.StatusBadRequest, HTTPStatus(New(BadRequest, "")))
	require.Equal(t, http.StatusForbidden, HTTPStatus(New(PermissionDenied, "")))
	require.Equal(t, http.StatusNotFound, HTTPStatus(New(NotFound, "")))
	require.Equal(t, http.StatusServiceUnavailable, HTTPStatus(New(Unavailable, "")))
	require.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("raw")))
}
