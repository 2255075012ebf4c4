package telemetry

import (
	"context"
	"time"
)

// NewDetachedContext produces a new context that has a separate cancellation mechanism from its parent. This should be
// used for fire-and-forget work started from a request, such as kill notifications, that must outlive the request
// while keeping its logger and trace.
func NewDetachedContext(parent context.Context) context.Context {
	return detachedContext{parent: parent}
}

var _ context.Context = detachedContext{}

type detachedContext struct {
	parent context.Context
}

func (d detachedContext) Deadline() (deadline time.Time, ok bool) {
	return time.Time{}, false
}

func (d detachedContext) Done() <-chan struct{} {
	return nil
}

func (d detachedContext) Err() error {
	return nil
}

func (d detachedContext) Value(key any) any {
	return d.parent.Value(key)
}
