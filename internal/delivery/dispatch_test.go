package delivery

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/jobdeck/jobdeck/internal/jobs"
	"github.com/jobdeck/jobdeck/pkg/models"
)

type memStore struct {
	deliveries map[int64]*models.Delivery
}

func (m *memStore) GetDeliveryByID(ctx context.Context, id int64) (*models.Delivery, error) {
	return m.deliveries[id], nil
}

func (m *memStore) UpdateDeliveryStatus(ctx context.Context, id int64, status string, at time.Time) error {
	m.deliveries[id].Status = status
	return nil
}

func dispatchJob(t *testing.T, deliveryID int64) *jobs.Job {
	t.Helper()
	b, err := json.Marshal(DispatchPayload{DeliveryID: deliveryID})
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return &jobs.Job{Type: DispatchJobType, Payload: b}
}

func TestDispatchHandler_AdvancesOneStep(t *testing.T) {
	store := &memStore{deliveries: map[int64]*models.Delivery{
		1: {ID: 1, Status: "pending"},
	}}
	h := DispatchHandler(store, nil)
	ctx := context.Background()

	if err := h(ctx, dispatchJob(t, 1)); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if store.deliveries[1].Status != "sent" {
		t.Fatalf("expected sent, got %q", store.deliveries[1].Status)
	}

	if err := h(ctx, dispatchJob(t, 1)); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if store.deliveries[1].Status != "delivered" {
		t.Fatalf("expected delivered, got %q", store.deliveries[1].Status)
	}

	// past the dispatcher's stages nothing changes
	if err := h(ctx, dispatchJob(t, 1)); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if store.deliveries[1].Status != "delivered" {
		t.Fatalf("dispatcher must not advance past delivered, got %q", store.deliveries[1].Status)
	}
}

func TestDispatchHandler_UnknownDeliveryIsNoop(t *testing.T) {
	store := &memStore{deliveries: map[int64]*models.Delivery{}}
	h := DispatchHandler(store, nil)

	if err := h(context.Background(), dispatchJob(t, 99)); err != nil {
		t.Fatalf("unknown delivery should not fail the job: %v", err)
	}
}

func TestDispatchHandler_BadPayload(t *testing.T) {
	store := &memStore{deliveries: map[int64]*models.Delivery{}}
	h := DispatchHandler(store, nil)

	j := &jobs.Job{Type: DispatchJobType, Payload: []byte("not json")}
	if err := h(context.Background(), j); err == nil {
		t.Fatalf("expected error for malformed payload")
	}
}
