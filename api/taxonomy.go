package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/jobdeck/jobdeck/internal/taxonomy"
	"github.com/jobdeck/jobdeck/pkg/models"
	"github.com/jobdeck/jobdeck/pkg/repository"
)

// TaxonomyHandler serves the industries and tags catalog. Codes are unique;
// deletes are soft so postings keep their links.
type TaxonomyHandler struct {
	industryRepo repository.IndustryRepo
	tagRepo      repository.TagRepo
}

func NewTaxonomyHandler(ir repository.IndustryRepo, tr repository.TagRepo) *TaxonomyHandler {
	return &TaxonomyHandler{industryRepo: ir, tagRepo: tr}
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
}

func (h *TaxonomyHandler) ListIndustries(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("include_inactive") == ""
	list, err := h.industryRepo.ListIndustries(r.Context(), activeOnly)
	if err != nil {
		writeError(w, "failed to list industries", http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []models.Industry{}
	}

	writeJSON(w, list, http.StatusOK)
}

func (h *TaxonomyHandler) CreateIndustry(w http.ResponseWriter, r *http.Request) {
	var in models.Industry
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		writeError(w, "name is required", http.StatusBadRequest)
		return
	}
	if in.Code == "" {
		in.Code = taxonomy.Slugify(in.Name)
	}
	if in.Code == "" {
		writeError(w, "code is required", http.StatusBadRequest)
		return
	}
	in.IsActive = true

	ctx := r.Context()

	if existing, err := h.industryRepo.GetIndustryByCode(ctx, in.Code); err != nil {
		writeError(w, "failed to check industry code", http.StatusInternalServerError)
		return
	} else if existing != nil {
		writeError(w, "industry code already exists", http.StatusConflict)
		return
	}

	id, err := h.industryRepo.CreateIndustry(ctx, &in)
	if err != nil {
		writeError(w, "failed to create industry", http.StatusInternalServerError)
		return
	}

	created, err := h.industryRepo.GetIndustryByID(ctx, id)
	if err != nil || created == nil {
		writeError(w, "failed to load created industry", http.StatusInternalServerError)
		return
	}

	writeJSON(w, created, http.StatusCreated)
}

func (h *TaxonomyHandler) GetIndustry(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, "invalid id", http.StatusBadRequest)
		return
	}

	in, err := h.industryRepo.GetIndustryByID(r.Context(), id)
	if err != nil {
		writeError(w, "failed to get industry", http.StatusInternalServerError)
		return
	}
	if in == nil {
		writeError(w, "industry not found", http.StatusNotFound)
		return
	}

	writeJSON(w, in, http.StatusOK)
}

func (h *TaxonomyHandler) UpdateIndustry(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, "invalid id", http.StatusBadRequest)
		return
	}

	var in models.Industry
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}
	in.ID = id
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		writeError(w, "name is required", http.StatusBadRequest)
		return
	}

	if err := h.industryRepo.UpdateIndustry(r.Context(), &in); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, "industry not found", http.StatusNotFound)
			return
		}
		writeError(w, "failed to update industry", http.StatusInternalServerError)
		return
	}

	updated, err := h.industryRepo.GetIndustryByID(r.Context(), id)
	if err != nil || updated == nil {
		writeError(w, "failed to load updated industry", http.StatusInternalServerError)
		return
	}

	writeJSON(w, updated, http.StatusOK)
}

func (h *TaxonomyHandler) DeleteIndustry(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.industryRepo.DeactivateIndustry(r.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, "industry not found", http.StatusNotFound)
			return
		}
		writeError(w, "failed to delete industry", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *TaxonomyHandler) ListTags(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	activeOnly := q.Get("include_inactive") == ""
	list, err := h.tagRepo.ListTags(r.Context(), activeOnly)
	if err != nil {
		writeError(w, "failed to list tags", http.StatusInternalServerError)
		return
	}

	if category := q.Get("category"); category != "" {
		filtered := make([]models.Tag, 0, len(list))
		for _, t := range list {
			if t.Category == category {
				filtered = append(filtered, t)
			}
		}
		list = filtered
	}
	if list == nil {
		list = []models.Tag{}
	}

	writeJSON(w, list, http.StatusOK)
}

func (h *TaxonomyHandler) CreateTag(w http.ResponseWriter, r *http.Request) {
	var t models.Tag
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}
	t.Name = strings.TrimSpace(t.Name)
	if t.Name == "" {
		writeError(w, "name is required", http.StatusBadRequest)
		return
	}
	if t.Code == "" {
		t.Code = taxonomy.Slugify(t.Name)
	}
	if t.Code == "" {
		writeError(w, "code is required", http.StatusBadRequest)
		return
	}
	t.IsActive = true

	ctx := r.Context()

	if existing, err := h.tagRepo.GetTagByCode(ctx, t.Code); err != nil {
		writeError(w, "failed to check tag code", http.StatusInternalServerError)
		return
	} else if existing != nil {
		writeError(w, "tag code already exists", http.StatusConflict)
		return
	}

	id, err := h.tagRepo.CreateTag(ctx, &t)
	if err != nil {
		writeError(w, "failed to create tag", http.StatusInternalServerError)
		return
	}

	created, err := h.tagRepo.GetTagByID(ctx, id)
	if err != nil || created == nil {
		writeError(w, "failed to load created tag", http.StatusInternalServerError)
		return
	}

	writeJSON(w, created, http.StatusCreated)
}

func (h *TaxonomyHandler) GetTag(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, "invalid id", http.StatusBadRequest)
		return
	}

	t, err := h.tagRepo.GetTagByID(r.Context(), id)
	if err != nil {
		writeError(w, "failed to get tag", http.StatusInternalServerError)
		return
	}
	if t == nil {
		writeError(w, "tag not found", http.StatusNotFound)
		return
	}

	writeJSON(w, t, http.StatusOK)
}

func (h *TaxonomyHandler) UpdateTag(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, "invalid id", http.StatusBadRequest)
		return
	}

	var t models.Tag
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}
	t.ID = id
	t.Name = strings.TrimSpace(t.Name)
	if t.Name == "" {
		writeError(w, "name is required", http.StatusBadRequest)
		return
	}

	if err := h.tagRepo.UpdateTag(r.Context(), &t); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, "tag not found", http.StatusNotFound)
			return
		}
		writeError(w, "failed to update tag", http.StatusInternalServerError)
		return
	}

	updated, err := h.tagRepo.GetTagByID(r.Context(), id)
	if err != nil || updated == nil {
		writeError(w, "failed to load updated tag", http.StatusInternalServerError)
		return
	}

	writeJSON(w, updated, http.StatusOK)
}

func (h *TaxonomyHandler) DeleteTag(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.tagRepo.DeactivateTag(r.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, "tag not found", http.StatusNotFound)
			return
		}
		writeError(w, "failed to delete tag", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
