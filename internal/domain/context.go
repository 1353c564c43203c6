package domain

import (
	"context"
	"sync"
)

type issueNotifierKey struct{}

type requestIDKey struct{}

// WithIssueNotifier returns a context carrying fn. Transports call
// NotifyIssued once the request has been written, which lets the caller
// release the next request in line. fn runs at most once.
func WithIssueNotifier(ctx context.Context, fn func()) context.Context {
	var once sync.Once
	return context.WithValue(ctx, issueNotifierKey{}, func() { once.Do(fn) })
}

// NotifyIssued fires the notifier attached to ctx, if any
func NotifyIssued(ctx context.Context) {
	if fn, ok := ctx.Value(issueNotifierKey{}).(func()); ok {
		fn()
	}
}

// WithRequestID attaches the id sent as X-Request-Id for a search
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext returns the id set by WithRequestID
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
