package driving

import "context"

// Scheduler periodically syncs sources that are due for their
// configured frequency.
type Scheduler interface {
	// Start begins the tick loops.
	// Blocks until the context is cancelled or Stop is called.
	Start(ctx context.Context) error

	// Stop gracefully stops the scheduler, waiting for in-flight
	// syncs to finish.
	Stop() error
}
