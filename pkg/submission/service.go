package submission

import (
	"context"

	"github.com/goliatone/go-onboarding/pkg/model"
)

// Service delivers a registration snapshot. Submit blocks until the backend
// accepts or rejects the snapshot; callers provide the asynchrony.
type Service interface {
	Submit(ctx context.Context, snapshot model.Snapshot) error
}

// Func adapts a plain function into a Service.
type Func func(ctx context.Context, snapshot model.Snapshot) error

// Submit calls f.
func (f Func) Submit(ctx context.Context, snapshot model.Snapshot) error {
	return f(ctx, snapshot)
}

// Middleware decorates a Service.
type Middleware func(Service) Service

// Chain wraps service with middlewares. The first middleware is the
// outermost, so Chain(s, a, b) runs a, then b, then s.
func Chain(service Service, middlewares ...Middleware) Service {
	for i := len(middlewares) - 1; i >= 0; i-- {
		if middlewares[i] == nil {
			continue
		}
		service = middlewares[i](service)
	}
	return service
}
