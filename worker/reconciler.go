// Package worker runs the periodic summary reconciliation pass.
package worker

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Reconciler is anything that can rebuild every summary from source reviews.
type Reconciler interface {
	ReconcileAll(ctx context.Context) error
}

// RunReconciler reruns the full reconciliation on each tick until the context
// is cancelled. The two-step mutation flows can leave a summary behind its
// reviews when a delta step fails; this loop is the corrective pass.
func RunReconciler(ctx context.Context, reconciler Reconciler, interval time.Duration, log *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Info("reconcile worker started", zap.Duration("interval", interval))

	for {
		select {
		case <-ctx.Done():
			log.Info("reconcile worker stopped")
			return
		case <-ticker.C:
			if err := reconciler.ReconcileAll(ctx); err != nil {
				log.Error("reconcile pass failed", zap.Error(err))
			}
		}
	}
}
