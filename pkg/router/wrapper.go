package router

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/sethvargo/go-retry"
	"github.com/stakefit/backend/pkg/errorx"
	"github.com/stakefit/backend/pkg/xcontext"
)

// requestContext takes the cancellation of the http request and the values of
// both the request and the router base context.
type requestContext struct {
	context.Context
	base context.Context
}

func (c requestContext) Value(key any) any {
	if v := c.Context.Value(key); v != nil {
		return v
	}

	return c.base.Value(key)
}

func wrap[Request, Response any](
	r *Router, method string, handler HandlerFunc[Request, Response],
) http.Handler {
	befores, afters, closers := r.befores, r.afters, r.closers

	return http.HandlerFunc(func(w http.ResponseWriter, httpReq *http.Request) {
		var ctx context.Context = requestContext{Context: httpReq.Context(), base: r.baseCtx}
		opts := *r.options
		if opts.Timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
			defer cancel()
		}

		ctx = xcontext.WithHTTPRequest(ctx, httpReq)
		ctx = xcontext.WithHTTPWriter(ctx, w)

		status := 0
		ctx = xcontext.WithResponseStatus(ctx, &status)

		var err error
		var resp any
		for _, m := range befores {
			if ctx, err = runMiddleware(ctx, m); err != nil {
				break
			}
		}

		if err == nil {
			var req Request
			if err = parseRequest(method, httpReq, &req); err == nil {
				var out *Response
				out, err = callHandler(ctx, method, opts, handler, &req)
				if err == nil {
					resp = out
				}
			}
		}

		if err == nil {
			ctx = xcontext.WithResponse(ctx, resp)
			for _, m := range afters {
				if ctx, err = runMiddleware(ctx, m); err != nil {
					break
				}
			}
		}

		if err != nil {
			ctx = xcontext.WithError(ctx, err)
			status = writeError(ctx, w, err)
		} else {
			status = writeResponse(ctx, w, resp)
		}

		for _, c := range closers {
			c(ctx)
		}
	})
}

const defaultRetryBackoff = 50 * time.Millisecond

// callHandler retries GET handlers failing with a retryable error. Other
// methods are called once since they may not be idempotent.
func callHandler[Request, Response any](
	ctx context.Context, method string, opts Options,
	handler HandlerFunc[Request, Response], req *Request,
) (*Response, error) {
	if method != http.MethodGet || opts.Retries == 0 {
		return handler(ctx, req)
	}

	base := opts.RetryBackoff
	if base <= 0 {
		base = defaultRetryBackoff
	}

	var resp *Response
	backoff := retry.WithMaxRetries(opts.Retries, retry.NewExponential(base))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		var err error
		resp, err = handler(ctx, req)
		if errorx.IsRetryable(err) {
			return retry.RetryableError(err)
		}

		return err
	})
	if err != nil {
		return nil, errorx.Classify(err)
	}

	return resp, nil
}

func runMiddleware(ctx context.Context, m MiddlewareFunc) (context.Context, error) {
	newCtx, err := m(ctx)
	if err != nil {
		return ctx, err
	}

	if newCtx == nil {
		return ctx, nil
	}

	return newCtx, nil
}

func parseRequest(method string, r *http.Request, req any) error {
	switch method {
	case http.MethodGet:
		return decodeQuery(r, req)

	case http.MethodPost:
		if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
			// Multipart handlers read the form from the http request themselves.
			return nil
		}

		err := json.NewDecoder(r.Body).Decode(req)
		if err != nil && !errors.Is(err, io.EOF) {
			return errorx.New(errorx.BadRequest, "Invalid json body: %v", err)
		}

		return nil
	}

	return errorx.New(errorx.BadRequest, "Unsupported method %s", method)
}

func decodeQuery(r *http.Request, req any) error {
	input := map[string]any{}
	for key, values := range r.URL.Query() {
		if len(values) == 1 {
			input[key] = values[0]
		} else {
			input[key] = values
		}
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           req,
	})
	if err != nil {
		return errorx.New(errorx.Internal, "Cannot create decoder: %v", err)
	}

	if err := decoder.Decode(input); err != nil {
		return errorx.New(errorx.BadRequest, "Invalid query: %v", err)
	}

	return nil
}
