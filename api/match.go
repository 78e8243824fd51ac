package api

import (
	"encoding/json"
	"net/http"
	"sort"

	"github.com/jobdeck/jobdeck/internal/ai"
	"github.com/jobdeck/jobdeck/pkg/models"
	"github.com/jobdeck/jobdeck/pkg/repository"
)

type MatchHandler struct {
	resumeRepo  repository.ResumeRepo
	postingRepo repository.PostingRepo
	matchRepo   repository.MatchRepo
}

func NewMatchHandler(rr repository.ResumeRepo, pr repository.PostingRepo, mr repository.MatchRepo) *MatchHandler {
	return &MatchHandler{resumeRepo: rr, postingRepo: pr, matchRepo: mr}
}

type matchRequest struct {
	ResumeID string `json:"resume_id"`
	Limit    int    `json:"limit,omitempty"`
}

// Match scores every active job against the resume's latest parse and
// persists the results. Jobs with no skill requirements score zero.
func (h *MatchHandler) Match(w http.ResponseWriter, r *http.Request) {
	var req matchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.ResumeID == "" {
		writeError(w, "resume_id is required", http.StatusBadRequest)
		return
	}
	if req.Limit <= 0 || req.Limit > 100 {
		req.Limit = 20
	}

	ctx := r.Context()

	res, err := h.resumeRepo.GetResumeByID(ctx, req.ResumeID)
	if err != nil {
		writeError(w, "failed to get resume", http.StatusInternalServerError)
		return
	}
	if res == nil {
		writeError(w, "resume not found", http.StatusNotFound)
		return
	}

	parse, err := h.resumeRepo.LatestResumeParse(ctx, req.ResumeID)
	if err != nil {
		writeError(w, "failed to load resume parse", http.StatusInternalServerError)
		return
	}
	if parse == nil {
		writeError(w, "resume has not been parsed yet", http.StatusConflict)
		return
	}

	var profile ai.ResumeProfile
	if err := json.Unmarshal([]byte(parse.Parsed), &profile); err != nil {
		writeError(w, "stored resume parse is corrupt", http.StatusInternalServerError)
		return
	}

	jobs, err := h.postingRepo.ListPostings(ctx, "active", 500, 0)
	if err != nil {
		writeError(w, "failed to list jobs", http.StatusInternalServerError)
		return
	}

	results := make([]models.MatchResult, 0, len(jobs))
	for _, job := range jobs {
		score, highlights := ai.MatchScore(&profile, job.Requirements.Skills)
		m := models.MatchResult{
			ResumeID:   req.ResumeID,
			JobID:      job.ID,
			Score:      score,
			Highlights: highlights,
		}
		if _, err := h.matchRepo.SaveMatchResult(ctx, &m); err != nil {
			logger.Error("save match result", "job_id", job.ID, "err", err)
			continue
		}
		results = append(results, m)
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if len(results) > req.Limit {
		results = results[:req.Limit]
	}

	writeJSON(w, results, http.StatusOK)
}
