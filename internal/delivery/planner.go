package delivery

import (
	"context"
	"fmt"

	"github.com/jobdeck/jobdeck/pkg/models"
)

// PreconditionError blocks batch construction before any remote call.
type PreconditionError struct {
	Reason string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("delivery: precondition failed: %s", e.Reason)
}

// BatchSubmissionError means the whole batch is considered unsent. Callers
// retry the full batch, never individual jobs.
type BatchSubmissionError struct {
	Err error
}

func (e *BatchSubmissionError) Error() string {
	return fmt.Sprintf("delivery: batch submission failed: %v", e.Err)
}

func (e *BatchSubmissionError) Unwrap() error { return e.Err }

// BatchConfig is passed through to the delivery service verbatim.
type BatchConfig struct {
	CoverLetterStyle string   `json:"cover_letter_style,omitempty"`
	SubjectTemplate  string   `json:"subject_template,omitempty"`
	TemplateName     string   `json:"template_name,omitempty"`
	Attachments      []string `json:"attachments,omitempty"`
}

// BatchRequest is a single atomic submission covering every job in the cart
// snapshot.
type BatchRequest struct {
	UserID   int64       `json:"user_id"`
	ResumeID string      `json:"resume_id"`
	JobIDs   []int64     `json:"job_ids"`
	Config   BatchConfig `json:"config"`
}

// BatchResult is the delivery service's answer to a submitted batch.
type BatchResult struct {
	Accepted bool   `json:"accepted"`
	BatchID  string `json:"batch_id"`
}

// Cart yields the current cart snapshot; PrepareBatch re-reads it at call
// time instead of trusting a cached copy.
type Cart interface {
	Refresh(ctx context.Context) error
	JobIDs() []int64
}

// ResumeLookup resolves a resume id against the remote store.
type ResumeLookup interface {
	GetResume(ctx context.Context, id string) (*models.Resume, error)
}

// Submitter sends the assembled batch to the delivery service.
type Submitter interface {
	SubmitBatch(ctx context.Context, req BatchRequest) (*BatchResult, error)
}

type Planner struct {
	cart    Cart
	resumes ResumeLookup
	userID  int64
}

func NewPlanner(cart Cart, resumes ResumeLookup, userID int64) *Planner {
	return &Planner{cart: cart, resumes: resumes, userID: userID}
}

// PrepareBatch assembles a batch request from the live cart contents. It
// fails with PreconditionError when the cart is empty or the resume does not
// exist, issuing no submission in either case.
func (p *Planner) PrepareBatch(ctx context.Context, resumeID string, cfg BatchConfig) (*BatchRequest, error) {
	if resumeID == "" {
		return nil, &PreconditionError{Reason: "resume id is empty"}
	}

	res, err := p.resumes.GetResume(ctx, resumeID)
	if err != nil {
		return nil, fmt.Errorf("resolve resume %q: %w", resumeID, err)
	}
	if res == nil {
		return nil, &PreconditionError{Reason: fmt.Sprintf("resume %q not found", resumeID)}
	}

	// snapshot the cart at call time to avoid racing a concurrent mutation
	if err := p.cart.Refresh(ctx); err != nil {
		return nil, fmt.Errorf("snapshot cart: %w", err)
	}
	jobIDs := p.cart.JobIDs()
	if len(jobIDs) == 0 {
		return nil, &PreconditionError{Reason: "cart is empty"}
	}

	return &BatchRequest{
		UserID:   p.userID,
		ResumeID: resumeID,
		JobIDs:   jobIDs,
		Config:   cfg,
	}, nil
}

// Submit sends the batch as one atomic request. Any failure wraps into a
// BatchSubmissionError; partial records the service may have created are
// discovered only by a later read of delivery state.
func (p *Planner) Submit(ctx context.Context, sub Submitter, req *BatchRequest) (*BatchResult, error) {
	result, err := sub.SubmitBatch(ctx, *req)
	if err != nil {
		return nil, &BatchSubmissionError{Err: err}
	}
	if !result.Accepted {
		return nil, &BatchSubmissionError{Err: fmt.Errorf("batch %q not accepted", result.BatchID)}
	}

	return result, nil
}
