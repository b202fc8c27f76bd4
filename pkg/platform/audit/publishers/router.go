// Package publishers routes audit events to the publisher for their
// category.
package publishers

import (
	"context"

	audit "cprcheck/pkg/platform/audit"
)

// Emitter is satisfied by every publisher under this directory.
type Emitter interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Router sends compliance events to one publisher and everything else to
// another.
type Router struct {
	compliance Emitter
	operations Emitter
}

func NewRouter(compliance, operations Emitter) *Router {
	return &Router{compliance: compliance, operations: operations}
}

func (r *Router) Emit(ctx context.Context, event audit.Event) error {
	if event.Action.Category() == audit.CategoryCompliance {
		return r.compliance.Emit(ctx, event)
	}
	return r.operations.Emit(ctx, event)
}
