// Package async runs functions in background goroutines and exposes their
// outcome as futures.
//
//	future := async.Exec(ctx, incident, sink.Deliver)
//
//	// Later, or never for fire-and-forget work:
//	select {
//	case <-future.Done():
//		return future.Await()
//	case <-ctx.Done():
//	}
//
// ExecAll waits for a batch of futures and reports the first error in
// argument order.
//
// Panics inside the function are recovered and surface as errors wrapping
// ErrPanic, so a misbehaving callback cannot take the process down.
package async
