package xcontext

import "context"

func WithResponse(ctx context.Context, resp any) context.Context {
	return context.WithValue(ctx, responseKey{}, resp)
}

func Response(ctx context.Context) any {
	return ctx.Value(responseKey{})
}

func WithError(ctx context.Context, err error) context.Context {
	return context.WithValue(ctx, errorKey{}, err)
}

func Error(ctx context.Context) error {
	err, _ := ctx.Value(errorKey{}).(error)
	return err
}

// WithResponseStatus keeps the http status written to client, so the closers
// which run after the response is sent can observe it.
func WithResponseStatus(ctx context.Context, status *int) context.Context {
	return context.WithValue(ctx, responseStatusKey{}, status)
}

func ResponseStatus(ctx context.Context) int {
	status, ok := ctx.Value(responseStatusKey{}).(*int)
	if !ok || status == nil {
		return 0
	}

	return *status
}
