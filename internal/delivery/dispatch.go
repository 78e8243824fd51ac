package delivery

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"log/slog"

	"github.com/jobdeck/jobdeck/internal/jobs"
	"github.com/jobdeck/jobdeck/pkg/models"
)

// DispatchJobType is the background job type for outbound delivery dispatch.
const DispatchJobType = "delivery.dispatch"

// DispatchPayload is the payload of a delivery.dispatch background job.
type DispatchPayload struct {
	DeliveryID int64 `json:"delivery_id"`
}

// Store is the slice of the delivery repository the dispatcher needs.
type Store interface {
	GetDeliveryByID(ctx context.Context, id int64) (*models.Delivery, error)
	UpdateDeliveryStatus(ctx context.Context, id int64, status string, at time.Time) error
}

// DispatchHandler returns a background-job handler that advances one delivery
// one step along the pending/sent/delivered chain, simulating the outbound mail
// round-trip. Later transitions (viewed, replied, ...) come from recruiter
// actions, never from the dispatcher.
func DispatchHandler(store Store, logger *slog.Logger) jobs.Handler {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	return func(ctx context.Context, j *jobs.Job) error {
		var payload DispatchPayload
		if err := json.Unmarshal(j.Payload, &payload); err != nil {
			return fmt.Errorf("decode dispatch payload: %w", err)
		}

		d, err := store.GetDeliveryByID(ctx, payload.DeliveryID)
		if err != nil {
			return fmt.Errorf("load delivery %d: %w", payload.DeliveryID, err)
		}
		if d == nil {
			logger.Warn("dispatch for unknown delivery", "delivery_id", payload.DeliveryID)
			return nil
		}

		var next Status
		switch Status(d.Status) {
		case StatusPending:
			next = StatusSent
		case StatusSent:
			next = StatusDelivered
		default:
			// already past the dispatcher's stages
			return nil
		}

		if err := store.UpdateDeliveryStatus(ctx, d.ID, string(next), time.Now()); err != nil {
			return fmt.Errorf("advance delivery %d to %s: %w", d.ID, next, err)
		}
		logger.Info("delivery advanced", "delivery_id", d.ID, "status", next)

		return nil
	}
}
