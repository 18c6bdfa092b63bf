// Package testing provides helpers for using mockgate in Go tests.
//
// # Basic Usage
//
//	func TestTodos(t *testing.T) {
//	    srv := mgtesting.New(t)
//	    srv.Route(model.MethodGet, "/todos/1", model.JSON(map[string]any{"id": 1}))
//
//	    resp, err := http.Get(srv.URL("/todos/1"))
//	    // ...
//	    srv.AssertCalled(t, model.MethodGet, "/todos/{id}")
//	}
//
// # Record and Replay
//
// Point a gateway at the real service once to record its answers:
//
//	srv := mgtesting.New(t)
//	srv.Gateway("/api", "https://jsonplaceholder.typicode.com", "testdata/todos.json")
//
// The file is written when the test finishes. Later runs replay it without
// touching the network:
//
//	srv := mgtesting.New(t)
//	srv.Replay("testdata/todos.json")
//
// Registering the replay before the gateway serves recorded answers and
// records only what is missing.
//
// # Ordering Concurrent Requests
//
// Requests are served concurrently with no ordering between them. A factory
// handler can capture channels from the test and hold each request until
// the test releases it:
//
//	release := map[string]chan struct{}{"/one": make(chan struct{}), "/two": make(chan struct{})}
//	srv.Register(mock.NewFactory(func() mock.Func {
//	    return func(ctx context.Context, req model.Request) (model.Body, bool) {
//	        <-release[req.Path]
//	        return model.Text(req.Path), true
//	    }
//	}))
package testing
