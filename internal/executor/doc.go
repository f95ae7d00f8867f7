// Package executor runs growth tasks on a fixed pool of worker goroutines.
//
// # How It Works
//
// A single producer submits tasks into a bounded FIFO queue; Submit blocks
// while the queue is full. Each worker polls the queue with a timeout, grows
// the ridge for every task it receives and sends the outcome to a results
// channel. One aggregator goroutine owns the collected results and calls the
// registered listeners, so listeners never run concurrently.
//
// Shutdown is cooperative. Finish raises a flag on the pool; a worker leaves
// its loop only when the flag is set and the queue is empty at that instant.
// Wait blocks until every worker has left (a count-down latch) and returns
// the collected results.
//
// A task that fails is reported and dropped, never retried. A task that is
// already running is never cancelled. Tasks still queued once the context is
// done are reported as failed, so every submitted task yields exactly one
// result.
package executor
