package delivery_test

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/jobdeck/jobdeck/internal/delivery"
	"github.com/jobdeck/jobdeck/pkg/models"
)

type fakeCart struct {
	jobIDs     []int64
	refreshErr error
	refreshes  int
}

func (f *fakeCart) Refresh(ctx context.Context) error {
	f.refreshes++
	return f.refreshErr
}

func (f *fakeCart) JobIDs() []int64 { return f.jobIDs }

type fakeResumes struct {
	known map[string]bool
	err   error
}

func (f *fakeResumes) GetResume(ctx context.Context, id string) (*models.Resume, error) {
	if f.err != nil {
		return nil, f.err
	}
	if !f.known[id] {
		return nil, nil
	}
	return &models.Resume{ID: id}, nil
}

type fakeSubmitter struct {
	req    *delivery.BatchRequest
	result *delivery.BatchResult
	err    error
}

func (f *fakeSubmitter) SubmitBatch(ctx context.Context, req delivery.BatchRequest) (*delivery.BatchResult, error) {
	f.req = &req
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func TestPrepareBatch_PassesThroughSnapshotAndConfig(t *testing.T) {
	cart := &fakeCart{jobIDs: []int64{11, 42}}
	resumes := &fakeResumes{known: map[string]bool{"r-9": true}}
	p := delivery.NewPlanner(cart, resumes, 7)

	cfg := delivery.BatchConfig{CoverLetterStyle: "concise", TemplateName: "default", Attachments: []string{"portfolio.pdf"}}
	req, err := p.PrepareBatch(context.Background(), "r-9", cfg)
	if err != nil {
		t.Fatalf("PrepareBatch: %v", err)
	}

	if len(req.JobIDs) != 2 || req.JobIDs[0] != 11 || req.JobIDs[1] != 42 {
		t.Fatalf("expected job_ids [11 42], got %v", req.JobIDs)
	}
	if req.ResumeID != "r-9" {
		t.Fatalf("expected resume id passed through, got %q", req.ResumeID)
	}
	if !reflect.DeepEqual(req.Config, cfg) {
		t.Fatalf("expected config passed through unchanged, got %+v", req.Config)
	}
	if req.UserID != 7 {
		t.Fatalf("expected user id 7, got %d", req.UserID)
	}
	if cart.refreshes != 1 {
		t.Fatalf("expected cart snapshot re-read, got %d refreshes", cart.refreshes)
	}
}

func TestPrepareBatch_Preconditions(t *testing.T) {
	resumes := &fakeResumes{known: map[string]bool{"r-9": true}}

	t.Run("empty cart", func(t *testing.T) {
		p := delivery.NewPlanner(&fakeCart{}, resumes, 7)
		_, err := p.PrepareBatch(context.Background(), "r-9", delivery.BatchConfig{})
		var perr *delivery.PreconditionError
		if !errors.As(err, &perr) {
			t.Fatalf("expected PreconditionError, got %v", err)
		}
	})

	t.Run("missing resume", func(t *testing.T) {
		p := delivery.NewPlanner(&fakeCart{jobIDs: []int64{11}}, resumes, 7)
		_, err := p.PrepareBatch(context.Background(), "r-404", delivery.BatchConfig{})
		var perr *delivery.PreconditionError
		if !errors.As(err, &perr) {
			t.Fatalf("expected PreconditionError, got %v", err)
		}
	})

	t.Run("empty resume id", func(t *testing.T) {
		p := delivery.NewPlanner(&fakeCart{jobIDs: []int64{11}}, resumes, 7)
		_, err := p.PrepareBatch(context.Background(), "", delivery.BatchConfig{})
		var perr *delivery.PreconditionError
		if !errors.As(err, &perr) {
			t.Fatalf("expected PreconditionError, got %v", err)
		}
	})

	t.Run("snapshot failure", func(t *testing.T) {
		p := delivery.NewPlanner(&fakeCart{refreshErr: fmt.Errorf("down")}, resumes, 7)
		_, err := p.PrepareBatch(context.Background(), "r-9", delivery.BatchConfig{})
		if err == nil {
			t.Fatalf("expected error when snapshot fails")
		}
		var perr *delivery.PreconditionError
		if errors.As(err, &perr) {
			t.Fatalf("snapshot failure is not a precondition error: %v", err)
		}
	})
}

func TestSubmit_WrapsFailures(t *testing.T) {
	cart := &fakeCart{jobIDs: []int64{11}}
	resumes := &fakeResumes{known: map[string]bool{"r-9": true}}
	p := delivery.NewPlanner(cart, resumes, 7)

	req, err := p.PrepareBatch(context.Background(), "r-9", delivery.BatchConfig{})
	if err != nil {
		t.Fatalf("PrepareBatch: %v", err)
	}

	t.Run("transport failure", func(t *testing.T) {
		sub := &fakeSubmitter{err: fmt.Errorf("connection refused")}
		_, err := p.Submit(context.Background(), sub, req)
		var berr *delivery.BatchSubmissionError
		if !errors.As(err, &berr) {
			t.Fatalf("expected BatchSubmissionError, got %v", err)
		}
	})

	t.Run("rejected batch", func(t *testing.T) {
		sub := &fakeSubmitter{result: &delivery.BatchResult{Accepted: false, BatchID: "b-1"}}
		_, err := p.Submit(context.Background(), sub, req)
		var berr *delivery.BatchSubmissionError
		if !errors.As(err, &berr) {
			t.Fatalf("expected BatchSubmissionError, got %v", err)
		}
	})

	t.Run("accepted", func(t *testing.T) {
		sub := &fakeSubmitter{result: &delivery.BatchResult{Accepted: true, BatchID: "b-2"}}
		res, err := p.Submit(context.Background(), sub, req)
		if err != nil {
			t.Fatalf("Submit: %v", err)
		}
		if res.BatchID != "b-2" {
			t.Fatalf("unexpected result: %+v", res)
		}
		if sub.req.ResumeID != "r-9" {
			t.Fatalf("submitter did not receive the request")
		}
	})
}
