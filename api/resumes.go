package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/jobdeck/jobdeck/internal/ai"
	"github.com/jobdeck/jobdeck/pkg/models"
	"github.com/jobdeck/jobdeck/pkg/repository"
)

// ResumeParser is the slice of the AI engine the resumes handler needs.
type ResumeParser interface {
	ParseResume(ctx context.Context, rawText string) (*ai.ResumeProfile, error)
}

type ResumesHandler struct {
	resumeRepo   repository.ResumeRepo
	matchRepo    repository.MatchRepo
	deliveryRepo repository.DeliveryRepo
	parser       ResumeParser
	dir          string
	maxBytes     int64
}

func NewResumesHandler(rr repository.ResumeRepo, mr repository.MatchRepo, dr repository.DeliveryRepo, parser ResumeParser, dir string, maxSizeMB int) *ResumesHandler {
	if maxSizeMB <= 0 {
		maxSizeMB = 10
	}
	return &ResumesHandler{
		resumeRepo:   rr,
		matchRepo:    mr,
		deliveryRepo: dr,
		parser:       parser,
		dir:          dir,
		maxBytes:     int64(maxSizeMB) << 20,
	}
}

// Upload stores a resume file and, when AI parsing is configured, saves a
// structured parse alongside it. A failed parse never fails the upload.
func (h *ResumesHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	if err := r.ParseMultipartForm(h.maxBytes); err != nil {
		writeError(w, "file too large or malformed upload", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, h.maxBytes+1))
	if err != nil {
		writeError(w, "failed to read upload", http.StatusBadRequest)
		return
	}
	if int64(len(content)) > h.maxBytes {
		writeError(w, "file too large", http.StatusBadRequest)
		return
	}

	id := uuid.NewString()
	path := filepath.Join(h.dir, id+".txt")
	if err := os.MkdirAll(h.dir, 0o755); err != nil {
		writeError(w, "failed to store resume", http.StatusInternalServerError)
		return
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		writeError(w, "failed to store resume", http.StatusInternalServerError)
		return
	}

	res := models.Resume{
		ID:        id,
		UserID:    userID(r),
		FileName:  header.Filename,
		FilePath:  path,
		MimeType:  header.Header.Get("Content-Type"),
		SizeBytes: int64(len(content)),
	}

	ctx := r.Context()
	if err := h.resumeRepo.CreateResume(ctx, &res); err != nil {
		writeError(w, "failed to save resume", http.StatusInternalServerError)
		return
	}

	h.parseAndStore(ctx, id, string(content))

	created, err := h.resumeRepo.GetResumeByID(ctx, id)
	if err != nil || created == nil {
		writeError(w, "failed to load saved resume", http.StatusInternalServerError)
		return
	}

	writeJSON(w, created, http.StatusCreated)
}

func (h *ResumesHandler) parseAndStore(ctx context.Context, resumeID, content string) {
	if h.parser == nil || strings.TrimSpace(content) == "" {
		return
	}

	profile, err := h.parser.ParseResume(ctx, content)
	if err != nil {
		logger.Warn("resume parse failed", "resume_id", resumeID, "err", err)
		return
	}
	parsed, err := json.Marshal(profile)
	if err != nil {
		logger.Error("encode resume profile", "resume_id", resumeID, "err", err)
		return
	}
	if _, err := h.resumeRepo.SaveResumeParse(ctx, &models.ResumeParse{ResumeID: resumeID, Parsed: string(parsed)}); err != nil {
		logger.Error("save resume parse", "resume_id", resumeID, "err", err)
	}
}

func (h *ResumesHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.resumeRepo.ListResumes(r.Context(), userID(r))
	if err != nil {
		writeError(w, "failed to list resumes", http.StatusInternalServerError)
		return
	}

	if search := strings.ToLower(r.URL.Query().Get("search")); search != "" {
		filtered := make([]models.Resume, 0, len(list))
		for _, res := range list {
			if strings.Contains(strings.ToLower(res.FileName), search) {
				filtered = append(filtered, res)
			}
		}
		list = filtered
	}
	if list == nil {
		list = []models.Resume{}
	}

	writeJSON(w, list, http.StatusOK)
}

// resumeDetail keeps the resume fields at the top level so clients decoding
// a plain Resume still work.
type resumeDetail struct {
	models.Resume
	Profile    *ai.ResumeProfile    `json:"profile,omitempty"`
	Matches    []models.MatchResult `json:"matches,omitempty"`
	Deliveries []models.Delivery    `json:"deliveries,omitempty"`
}

// Get returns one resume with its latest parse, match results and delivery
// history.
func (h *ResumesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if id == "" {
		writeError(w, "invalid id", http.StatusBadRequest)
		return
	}

	ctx := r.Context()

	res, err := h.resumeRepo.GetResumeByID(ctx, id)
	if err != nil {
		writeError(w, "failed to get resume", http.StatusInternalServerError)
		return
	}
	if res == nil {
		writeError(w, "resume not found", http.StatusNotFound)
		return
	}

	out := resumeDetail{Resume: *res}

	if parse, err := h.resumeRepo.LatestResumeParse(ctx, id); err == nil && parse != nil {
		var profile ai.ResumeProfile
		if json.Unmarshal([]byte(parse.Parsed), &profile) == nil {
			out.Profile = &profile
		}
	}

	if matches, err := h.matchRepo.ListMatchResults(ctx, id); err == nil {
		out.Matches = matches
	}

	if deliveries, err := h.deliveryRepo.ListDeliveries(ctx, res.UserID, "", 500, 0); err == nil {
		for _, d := range deliveries {
			if d.ResumeID == id {
				out.Deliveries = append(out.Deliveries, d)
			}
		}
	}

	writeJSON(w, out, http.StatusOK)
}
