package mock

import (
	"context"

	"github.com/getmockd/mockgate/pkg/model"
)

// Factory produces the per-request function of a Factory handler. It is the
// place to capture shared state, such as a channel the test driver uses to
// release requests in a chosen order.
type Factory func() Func

// FactoryHandler runs the function produced by its factory. The factory is
// invoked exactly once, when the handler is constructed.
type FactoryHandler struct {
	fn Func
}

// NewFactory invokes factory and wraps the function it returns.
func NewFactory(factory Factory) *FactoryHandler {
	return &FactoryHandler{fn: factory()}
}

// Attempt implements Handler.
func (f *FactoryHandler) Attempt(ctx context.Context, req model.Request) (model.Body, bool) {
	return f.fn(ctx, req.Clone())
}

// Kind implements Kinder.
func (f *FactoryHandler) Kind() string { return "factory" }
