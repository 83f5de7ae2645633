// Package workers runs the background jobs of the pixel studio next to the
// HTTP server.
//
// It defines the Worker interface and a Workers aggregate that runs every
// registered worker until the shared context is cancelled.
package workers

import "context"

// Worker is a long-running background job.
//
// Run must block until ctx is cancelled and must not return early on
// transient failures.
type Worker interface {
	Run(ctx context.Context)
}

// SubscriptionExpirer downgrades lapsed paid plans.
type SubscriptionExpirer interface {
	ExpireSubscriptions(ctx context.Context) (int64, error)
}
