package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/jobdeck/jobdeck/internal/ai"
	"github.com/jobdeck/jobdeck/internal/taxonomy"
	"github.com/jobdeck/jobdeck/pkg/models"
	"github.com/jobdeck/jobdeck/pkg/repository"
)

// PostingParser is the slice of the AI engine the jobs handler needs.
type PostingParser interface {
	ParsePosting(ctx context.Context, rawText string) (*ai.ParseResult, error)
}

type JobsHandler struct {
	postingRepo  repository.PostingRepo
	industryRepo repository.IndustryRepo
	parser       PostingParser
}

func NewJobsHandler(pr repository.PostingRepo, ir repository.IndustryRepo, parser PostingParser) *JobsHandler {
	return &JobsHandler{postingRepo: pr, industryRepo: ir, parser: parser}
}

type parseJobRequest struct {
	RawContent string `json:"raw_content"`
	SourceType string `json:"source_type,omitempty"`
}

func (h *JobsHandler) ParseJob(w http.ResponseWriter, r *http.Request) {
	if h.parser == nil {
		writeError(w, "AI parsing is not configured", http.StatusServiceUnavailable)
		return
	}

	var req parseJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.RawContent) == "" {
		writeError(w, "raw_content is required", http.StatusBadRequest)
		return
	}

	res, err := h.parser.ParsePosting(r.Context(), req.RawContent)
	if err != nil {
		logger.Error("parse posting", "err", err)
		writeError(w, "failed to parse posting", http.StatusBadGateway)
		return
	}

	writeJSON(w, res, http.StatusOK)
}

func (h *JobsHandler) CreateJob(w http.ResponseWriter, r *http.Request) {
	var p models.Posting
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}
	p.ID = 0
	p.Title = strings.TrimSpace(p.Title)
	p.ApplyEmail = strings.TrimSpace(p.ApplyEmail)
	if p.Title == "" {
		writeError(w, "title is required", http.StatusBadRequest)
		return
	}
	if p.Status == "" {
		p.Status = "active"
	}
	if p.Status == "active" && p.ApplyEmail == "" {
		writeError(w, "apply_email is required for active jobs", http.StatusBadRequest)
		return
	}
	if p.SourceType == "" {
		p.SourceType = "manual"
	}

	ctx := r.Context()

	if p.IndustryID == nil && p.IndustryName != "" {
		in, err := h.resolveIndustry(ctx, p.IndustryName)
		if err != nil {
			writeError(w, "failed to resolve industry", http.StatusInternalServerError)
			return
		}
		p.IndustryID = &in.ID
		p.IndustryName = in.Name
	}

	id, err := h.postingRepo.CreatePosting(ctx, &p)
	if err != nil {
		writeError(w, "failed to create job", http.StatusInternalServerError)
		return
	}

	created, err := h.postingRepo.GetPostingByID(ctx, id)
	if err != nil || created == nil {
		writeError(w, "failed to load created job", http.StatusInternalServerError)
		return
	}

	writeJSON(w, created, http.StatusCreated)
}

// resolveIndustry finds the industry whose code matches the normalized name,
// creating it when absent.
func (h *JobsHandler) resolveIndustry(ctx context.Context, name string) (*models.Industry, error) {
	code := taxonomy.Slugify(name)
	in, err := h.industryRepo.GetIndustryByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if in != nil {
		return in, nil
	}

	candidate := models.Industry{Code: code, Name: name, IsActive: true}
	id, err := h.industryRepo.CreateIndustry(ctx, &candidate)
	if err != nil {
		// lost a race with a concurrent create; re-read wins
		if existing, gerr := h.industryRepo.GetIndustryByCode(ctx, code); gerr == nil && existing != nil {
			return existing, nil
		}
		return nil, err
	}
	candidate.ID = id

	return &candidate, nil
}

func (h *JobsHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit := 50
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

	list, err := h.postingRepo.ListPostings(r.Context(), q.Get("status"), limit, offset)
	if err != nil {
		writeError(w, "failed to list jobs", http.StatusInternalServerError)
		return
	}

	if industry := q.Get("industry_id"); industry != "" {
		if id, err := strconv.ParseInt(industry, 10, 64); err == nil {
			filtered := make([]models.Posting, 0, len(list))
			for _, p := range list {
				if p.IndustryID != nil && *p.IndustryID == id {
					filtered = append(filtered, p)
				}
			}
			list = filtered
		}
	}
	if list == nil {
		list = []models.Posting{}
	}

	writeJSON(w, list, http.StatusOK)
}

func (h *JobsHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, "invalid id", http.StatusBadRequest)
		return
	}

	p, err := h.postingRepo.GetPostingByID(r.Context(), id)
	if err != nil {
		writeError(w, "failed to get job", http.StatusInternalServerError)
		return
	}
	if p == nil {
		writeError(w, "job not found", http.StatusNotFound)
		return
	}

	writeJSON(w, p, http.StatusOK)
}

func (h *JobsHandler) UpdateJob(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, "invalid id", http.StatusBadRequest)
		return
	}

	existing, err := h.postingRepo.GetPostingByID(r.Context(), id)
	if err != nil {
		writeError(w, "failed to get job", http.StatusInternalServerError)
		return
	}
	if existing == nil {
		writeError(w, "job not found", http.StatusNotFound)
		return
	}

	var p models.Posting
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}
	p.ID = id
	p.Title = strings.TrimSpace(p.Title)
	p.ApplyEmail = strings.TrimSpace(p.ApplyEmail)
	if p.Title == "" {
		writeError(w, "title is required", http.StatusBadRequest)
		return
	}
	if p.Status == "" {
		p.Status = existing.Status
	}
	if p.Status == "active" && p.ApplyEmail == "" {
		writeError(w, "apply_email is required for active jobs", http.StatusBadRequest)
		return
	}

	if err := h.postingRepo.UpdatePosting(r.Context(), &p); err != nil {
		writeError(w, "failed to update job", http.StatusInternalServerError)
		return
	}

	updated, err := h.postingRepo.GetPostingByID(r.Context(), id)
	if err != nil || updated == nil {
		writeError(w, "failed to load updated job", http.StatusInternalServerError)
		return
	}

	writeJSON(w, updated, http.StatusOK)
}

func (h *JobsHandler) DeleteJob(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, "invalid id", http.StatusBadRequest)
		return
	}

	existing, err := h.postingRepo.GetPostingByID(r.Context(), id)
	if err != nil {
		writeError(w, "failed to get job", http.StatusInternalServerError)
		return
	}
	if existing == nil {
		writeError(w, "job not found", http.StatusNotFound)
		return
	}

	if err := h.postingRepo.DeletePosting(r.Context(), id); err != nil {
		writeError(w, "failed to delete job", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
