package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/hamidadj13/syncvote-api/internal/observability"
	"github.com/hamidadj13/syncvote-api/internal/service"
)

// CounterReconciler recomputes the like and dislike counters from the votes.
type CounterReconciler interface {
	ReconcileCounters(ctx context.Context) (service.ReconcileResult, error)
}

// Reconcile runs one reconciliation pass and records its outcome.
func Reconcile(ctx context.Context, logger *slog.Logger, r CounterReconciler) (service.ReconcileResult, error) {
	start := time.Now()
	result, err := r.ReconcileCounters(ctx)
	if err != nil {
		observability.ReconcileRuns.WithLabelValues("error").Inc()
		logger.ErrorContext(ctx, "vote counter reconciliation failed",
			"checked", result.Checked, "repaired", result.Repaired, "skipped", result.Skipped, "error", err)
		return result, err
	}

	observability.ReconcileRuns.WithLabelValues("ok").Inc()
	observability.ReconciledTargets.Add(float64(result.Repaired))
	logger.InfoContext(ctx, "vote counters reconciled",
		"checked", result.Checked, "repaired", result.Repaired, "skipped", result.Skipped,
		"duration", time.Since(start))
	return result, nil
}

// ScheduleReconcile registers a reconciliation run on spec. Each run is
// bounded by timeout.
func ScheduleReconcile(s *Scheduler, spec string, timeout time.Duration, logger *slog.Logger, r CounterReconciler) (int, error) {
	return s.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		_, _ = Reconcile(ctx, logger, r)
	})
}
