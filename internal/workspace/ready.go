package workspace

import "context"

type readyKey struct{}

// ContextWithReady attaches a readiness callback to ctx. A long-running
// command invokes it once its steady state is reached (initial build done,
// server listening); dependents are released at that point instead of at
// command return.
func ContextWithReady(ctx context.Context, notify func()) context.Context {
	return context.WithValue(ctx, readyKey{}, notify)
}

// NotifyReady signals that the command running under ctx has reached its
// steady state. It is a no-op when no callback is attached, and safe to call
// more than once.
func NotifyReady(ctx context.Context) {
	if notify, ok := ctx.Value(readyKey{}).(func()); ok {
		notify()
	}
}
