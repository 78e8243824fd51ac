package api

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/jobdeck/jobdeck/internal/delivery"
	"github.com/jobdeck/jobdeck/internal/jobs"
	"github.com/jobdeck/jobdeck/internal/repository/rediscache"
	"github.com/jobdeck/jobdeck/pkg/models"
	"github.com/jobdeck/jobdeck/pkg/repository"
)

// Enqueuer feeds the background job queue. Nil disables async dispatch.
type Enqueuer interface {
	Enqueue(ctx context.Context, j *jobs.Job) (int64, error)
}

type DeliveriesHandler struct {
	deliveryRepo repository.DeliveryRepo
	resumeRepo   repository.ResumeRepo
	postingRepo  repository.PostingRepo
	cartRepo     repository.CartRepo
	cache        *rediscache.CartCountCache
	queue        Enqueuer
	reportingLoc *time.Location
}

func NewDeliveriesHandler(
	dr repository.DeliveryRepo,
	rr repository.ResumeRepo,
	pr repository.PostingRepo,
	cr repository.CartRepo,
	cache *rediscache.CartCountCache,
	queue Enqueuer,
	reportingLoc *time.Location,
) *DeliveriesHandler {
	if reportingLoc == nil {
		reportingLoc = time.UTC
	}
	return &DeliveriesHandler{
		deliveryRepo: dr,
		resumeRepo:   rr,
		postingRepo:  pr,
		cartRepo:     cr,
		cache:        cache,
		queue:        queue,
		reportingLoc: reportingLoc,
	}
}

// PrepareBatch accepts a batch request covering every job in the caller's
// cart. The whole batch is atomic: one batch row plus one pending delivery
// per job, or nothing.
func (h *DeliveriesHandler) PrepareBatch(w http.ResponseWriter, r *http.Request) {
	var req delivery.BatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}
	if uid := userID(r); uid > 0 {
		req.UserID = uid
	}
	if req.ResumeID == "" {
		writeError(w, "resume_id is required", http.StatusBadRequest)
		return
	}
	if len(req.JobIDs) == 0 {
		writeError(w, "job_ids must not be empty", http.StatusBadRequest)
		return
	}

	ctx := r.Context()

	res, err := h.resumeRepo.GetResumeByID(ctx, req.ResumeID)
	if err != nil {
		writeError(w, "failed to check resume", http.StatusInternalServerError)
		return
	}
	if res == nil {
		writeError(w, "resume not found", http.StatusNotFound)
		return
	}

	for _, jobID := range req.JobIDs {
		job, err := h.postingRepo.GetPostingByID(ctx, jobID)
		if err != nil {
			writeError(w, "failed to check job", http.StatusInternalServerError)
			return
		}
		if job == nil {
			writeError(w, "job "+strconv.FormatInt(jobID, 10)+" not found", http.StatusNotFound)
			return
		}
	}

	cfg, err := json.Marshal(req.Config)
	if err != nil {
		writeError(w, "invalid config", http.StatusBadRequest)
		return
	}

	batch := models.DeliveryBatch{
		ID:       uuid.NewString(),
		UserID:   req.UserID,
		ResumeID: req.ResumeID,
		Config:   cfg,
	}
	deliveries, err := h.deliveryRepo.CreateBatch(ctx, &batch, req.JobIDs)
	if err != nil {
		writeError(w, "failed to create batch", http.StatusInternalServerError)
		return
	}

	// delivered jobs leave the cart; a failed removal surfaces on next read
	for _, jobID := range req.JobIDs {
		if _, err := h.cartRepo.RemoveCartItem(ctx, req.UserID, jobID); err != nil {
			logger.Warn("remove delivered job from cart", "job_id", jobID, "err", err)
		}
	}
	h.cache.Invalidate(ctx, req.UserID)

	h.enqueueDispatch(ctx, deliveries)

	writeJSON(w, delivery.BatchResult{Accepted: true, BatchID: batch.ID}, http.StatusCreated)
}

func (h *DeliveriesHandler) enqueueDispatch(ctx context.Context, deliveries []models.Delivery) {
	if h.queue == nil {
		return
	}
	for _, d := range deliveries {
		payload, err := json.Marshal(delivery.DispatchPayload{DeliveryID: d.ID})
		if err != nil {
			logger.Error("marshal dispatch payload", "delivery_id", d.ID, "err", err)
			continue
		}
		job := &jobs.Job{Type: delivery.DispatchJobType, Payload: payload, Priority: 10, MaxAttempts: 3}
		if _, err := h.queue.Enqueue(ctx, job); err != nil {
			logger.Error("enqueue dispatch", "delivery_id", d.ID, "err", err)
		}
	}
}

// deliveryView embeds the delivery plus a compact job summary for list pages.
type deliveryView struct {
	models.Delivery
	Job *jobSummary `json:"job,omitempty"`
}

type jobSummary struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	CompanyName string `json:"company_name"`
	Status      string `json:"status"`
}

func (h *DeliveriesHandler) ListDeliveries(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit := 100
	if l := q.Get("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 && v <= 500 {
			limit = v
		}
	}
	offset := 0
	if o := q.Get("offset"); o != "" {
		if v, err := strconv.Atoi(o); err == nil && v >= 0 {
			offset = v
		}
	}

	list, err := h.deliveryRepo.ListDeliveries(r.Context(), userID(r), q.Get("status"), limit, offset)
	if err != nil {
		writeError(w, "failed to list deliveries", http.StatusInternalServerError)
		return
	}

	out := make([]deliveryView, 0, len(list))
	for _, d := range list {
		v := deliveryView{Delivery: d}
		if job, err := h.postingRepo.GetPostingByID(r.Context(), d.JobID); err == nil && job != nil {
			v.Job = &jobSummary{ID: job.ID, Title: job.Title, CompanyName: job.CompanyName, Status: job.Status}
		}
		out = append(out, v)
	}

	writeJSON(w, out, http.StatusOK)
}

func (h *DeliveriesHandler) GetDelivery(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, "invalid id", http.StatusBadRequest)
		return
	}

	d, err := h.deliveryRepo.GetDeliveryByID(r.Context(), id)
	if err != nil {
		writeError(w, "failed to get delivery", http.StatusInternalServerError)
		return
	}
	if d == nil {
		writeError(w, "delivery not found", http.StatusNotFound)
		return
	}

	writeJSON(w, d, http.StatusOK)
}

type patchDeliveryRequest struct {
	Status string `json:"status"`
}

// PatchDelivery applies a recruiter-driven status transition, validated
// against the state machine.
func (h *DeliveriesHandler) PatchDelivery(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req patchDeliveryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}
	to, err := delivery.ParseStatus(req.Status)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx := r.Context()

	d, err := h.deliveryRepo.GetDeliveryByID(ctx, id)
	if err != nil {
		writeError(w, "failed to get delivery", http.StatusInternalServerError)
		return
	}
	if d == nil {
		writeError(w, "delivery not found", http.StatusNotFound)
		return
	}

	from := delivery.Status(d.Status)
	if !delivery.IsTransitionAllowed(from, to) {
		writeError(w, "transition "+d.Status+" -> "+req.Status+" is not allowed", http.StatusConflict)
		return
	}

	if err := h.deliveryRepo.UpdateDeliveryStatus(ctx, id, string(to), time.Now()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, "delivery not found", http.StatusNotFound)
			return
		}
		writeError(w, "failed to update delivery", http.StatusInternalServerError)
		return
	}

	updated, err := h.deliveryRepo.GetDeliveryByID(ctx, id)
	if err != nil || updated == nil {
		writeError(w, "failed to load updated delivery", http.StatusInternalServerError)
		return
	}

	writeJSON(w, updated, http.StatusOK)
}

// Analytics aggregates the caller's deliveries by calendar day or by status.
func (h *DeliveriesHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	groupBy := r.URL.Query().Get("group_by")
	if groupBy == "" {
		groupBy = "status"
	}
	if groupBy != "day" && groupBy != "status" {
		writeError(w, "group_by must be day or status", http.StatusBadRequest)
		return
	}

	list, err := h.deliveryRepo.ListDeliveries(r.Context(), userID(r), "", 10000, 0)
	if err != nil {
		writeError(w, "failed to list deliveries", http.StatusInternalServerError)
		return
	}

	type item struct {
		Key   string `json:"key"`
		Count int    `json:"count"`
	}
	var items []item

	switch groupBy {
	case "day":
		for _, b := range delivery.BucketByDay(list, h.reportingLoc) {
			items = append(items, item{Key: b.Date, Count: b.Count})
		}
	case "status":
		counts := make(map[string]int)
		for _, d := range list {
			counts[d.Status]++
		}
		for _, s := range []delivery.Status{
			delivery.StatusPending, delivery.StatusSent, delivery.StatusDelivered,
			delivery.StatusViewed, delivery.StatusReplied, delivery.StatusInterview,
			delivery.StatusHired, delivery.StatusRejected,
		} {
			if n := counts[string(s)]; n > 0 {
				items = append(items, item{Key: string(s), Count: n})
			}
		}
	}
	if items == nil {
		items = []item{}
	}

	writeJSON(w, map[string]any{
		"group_by": groupBy,
		"total":    len(list),
		"items":    items,
	}, http.StatusOK)
}

// DailyTrends returns a gap-filled per-day series for the last N days.
func (h *DeliveriesHandler) DailyTrends(w http.ResponseWriter, r *http.Request) {
	days := 30
	if d := r.URL.Query().Get("days"); d != "" {
		if v, err := strconv.Atoi(d); err == nil && v > 0 && v <= 365 {
			days = v
		}
	}

	list, err := h.deliveryRepo.ListDeliveries(r.Context(), userID(r), "", 10000, 0)
	if err != nil {
		writeError(w, "failed to list deliveries", http.StatusInternalServerError)
		return
	}

	cutoff := time.Now().In(h.reportingLoc).AddDate(0, 0, -days).Unix()
	recent := make([]models.Delivery, 0, len(list))
	for _, d := range list {
		if d.Created >= cutoff {
			recent = append(recent, d)
		}
	}

	buckets := delivery.FillDayGaps(delivery.BucketByDay(recent, h.reportingLoc))

	out := make([]map[string]any, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, map[string]any{"date": b.Date, "count": b.Count})
	}

	writeJSON(w, out, http.StatusOK)
}
