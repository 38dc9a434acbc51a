package jobqueue

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2/log"

	"github.com/maksab-hq/maksab-admin/internal/pkg/subscription"
)

// SweepRunner runs one expiry pass over all organizations.
type SweepRunner interface {
	Sweep(ctx context.Context) (subscription.SweepResult, error)
}

// processSubscriptionSweepJob runs the subscription expiry sweep.
func (q *Queue) processSubscriptionSweepJob(ctx context.Context, job *Job) error {
	if q.sweepRunner == nil {
		return fmt.Errorf("no sweep runner configured")
	}

	payload, err := SubscriptionSweepJobPayloadFromMap(job.Payload)
	if err != nil {
		return fmt.Errorf("invalid sweep payload: %w", err)
	}

	result, err := q.sweepRunner.Sweep(ctx)
	if err != nil {
		return fmt.Errorf("subscription sweep failed: %w", err)
	}

	log.Infof("[JobQueue] Sweep (%s) scanned %d organizations, downgraded %d, %d failed",
		payload.Trigger, result.Scanned, result.Downgraded, result.Failed)
	return nil
}
