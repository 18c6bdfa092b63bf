// Package engine provides the mock server: an ordered handler registry and
// the HTTP shell that feeds it.
//
// # Architecture
//
//	inbound HTTP ──▶ Handler (wire → model.Request)
//	                   │
//	                   ▼
//	                Registry.Dispatch ──▶ h1.Attempt ──▶ h2.Attempt ──▶ ...
//	                   │                  (first answer wins)
//	                   ▼
//	               200 + body  |  404 when every handler declines
//
// Handlers are tried in registration order. Each dispatch works on a
// snapshot of the handler list taken when it starts, so registering or
// removing handlers never affects an in-flight request and a slow handler
// never blocks other requests or registrations.
//
// # Basic Usage
//
//	srv, err := engine.Start(ctx)
//	if err != nil {
//	    return err
//	}
//	defer srv.Shutdown(context.Background())
//
//	srv.Register(mock.Route(model.MethodGet, "/health", model.Text("ok")))
//	resp, err := http.Get(srv.URL("/health"))
//
// Shutdown stops accepting connections and waits for in-flight dispatches
// to finish. Cancelling the context passed to Start has the same effect.
package engine
