package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

type HandlerFunc[Request, Response any] func(ctx context.Context, req *Request) (*Response, error)

// MiddlewareFunc runs before (or after) the handler. It may enrich the
// context, returning an error stops the chain and responds the error.
type MiddlewareFunc func(ctx context.Context) (context.Context, error)

// CloserFunc always runs after the response has been written.
type CloserFunc func(ctx context.Context)

// Options are shared by a router and all of its branches.
type Options struct {
	// Timeout bounds every request context, zero means no deadline.
	Timeout time.Duration

	// GET handlers failing with a retryable error are called again at most
	// Retries times, waiting RetryBackoff, 2*RetryBackoff... in between.
	Retries      uint64
	RetryBackoff time.Duration
}

type Router struct {
	mux     *mux.Router
	baseCtx context.Context
	options *Options

	befores []MiddlewareFunc
	afters  []MiddlewareFunc
	closers []CloserFunc
}

// New creates a root router. Values stored in ctx (configurations, logger,
// database...) are visible to every request context.
func New(ctx context.Context) *Router {
	return &Router{
		mux:     mux.NewRouter(),
		baseCtx: ctx,
		options: &Options{},
	}
}

// Branch returns a child router sharing the same mux. Middlewares added to
// the child are not applied on the parent.
func (r *Router) Branch() *Router {
	return &Router{
		mux:     r.mux,
		baseCtx: r.baseCtx,
		options: r.options,
		befores: append([]MiddlewareFunc(nil), r.befores...),
		afters:  append([]MiddlewareFunc(nil), r.afters...),
		closers: append([]CloserFunc(nil), r.closers...),
	}
}

func (r *Router) SetOptions(opts Options) {
	*r.options = opts
}

func (r *Router) Before(m MiddlewareFunc) {
	r.befores = append(r.befores, m)
}

func (r *Router) After(m MiddlewareFunc) {
	r.afters = append(r.afters, m)
}

func (r *Router) AddCloser(c CloserFunc) {
	r.closers = append(r.closers, c)
}

// Handle registers a raw http handler, e.g. the metrics endpoint.
func (r *Router) Handle(method, pattern string, h http.Handler) {
	r.mux.Handle(pattern, h).Methods(method)
}

func (r *Router) Handler() http.Handler {
	return r.mux
}

func GET[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.mux.Handle(pattern, wrap(r, http.MethodGet, handler)).Methods(http.MethodGet)
}

func POST[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.mux.Handle(pattern, wrap(r, http.MethodPost, handler)).Methods(http.MethodPost)
}
