package mock

import (
	"context"

	"github.com/getmockd/mockgate/pkg/model"
)

// Closure is a handler that delegates every attempt to a user function.
type Closure struct {
	fn Func
}

// NewClosure wraps fn. The function receives its own copy of each request.
func NewClosure(fn Func) *Closure {
	return &Closure{fn: fn}
}

// Attempt implements Handler.
func (c *Closure) Attempt(ctx context.Context, req model.Request) (model.Body, bool) {
	return c.fn(ctx, req.Clone())
}

// Kind implements Kinder.
func (c *Closure) Kind() string { return "closure" }

// Respond returns a closure that answers every request with body.
func Respond(body model.Body) *Closure {
	return NewClosure(func(context.Context, model.Request) (model.Body, bool) {
		return body, true
	})
}

// Route returns a closure that answers requests with the given method and
// path, and declines everything else.
func Route(method model.Method, path string, body model.Body) *Closure {
	return NewClosure(func(_ context.Context, req model.Request) (model.Body, bool) {
		if req.Method != method || req.Path != path {
			return model.Body{}, false
		}
		return body, true
	})
}
