package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/stakefit/backend/pkg/errorx"
	"github.com/stakefit/backend/pkg/xcontext"
)

type response struct {
	Code  int64  `json:"code"`
	Error string `json:"error,omitempty"`
	Data  any    `json:"data,omitempty"`
}

func newResponse(data any) response {
	return response{
		Code: 0,
		Data: data,
	}
}

func newErrorResponse(err error) response {
	errx := errorx.Error{}
	if errors.As(err, &errx) {
		return response{
			Code:  int64(errx.Code),
			Error: errx.Message,
		}
	}

	return response{
		Code:  int64(errorx.Unknown.Code),
		Error: errorx.Unknown.Message,
	}
}

func writeResponse(ctx context.Context, w http.ResponseWriter, data any) int {
	if err := WriteJson(w, http.StatusOK, newResponse(data)); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot write the response: %v", err)
	}

	return http.StatusOK
}

func writeError(ctx context.Context, w http.ResponseWriter, err error) int {
	status := errorx.HTTPStatus(err)
	if err := WriteJson(w, status, newErrorResponse(err)); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot write the response: %v", err)
	}

	return status
}

func WriteJson(w http.ResponseWriter, status int, resp any) error {
	b, err := json.Marshal(resp)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(b); err != nil {
		return err
	}

	return nil
}
