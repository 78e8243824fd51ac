// Package reconcile turns an AI parse result plus user edits into a posting
// ready for the catalog, resolving taxonomy references along the way.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"log/slog"

	"github.com/jobdeck/jobdeck/internal/ai"
	"github.com/jobdeck/jobdeck/pkg/models"
)

// ValidationError reports a posting field that must be filled before saving.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("reconcile: field %q must not be empty", e.Field)
}

// Taxonomy is the slice of the taxonomy store the reconciler needs.
type Taxonomy interface {
	ResolveOrCreateTag(ctx context.Context, name, category, color string) (models.Tag, error)
	ResolveOrCreateIndustry(ctx context.Context, name, suggestedCode string) (models.Industry, error)
}

type Reconciler struct {
	taxonomy Taxonomy
	logger   *slog.Logger
}

func New(taxonomy Taxonomy, logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &Reconciler{taxonomy: taxonomy, logger: logger}
}

// Reconcile builds a posting from the parse result. Tag resolutions run in
// suggestion order and failures are skipped rather than aborting the flow;
// partial taxonomy linkage beats blocking job creation. Each call works only
// from the given parse result, so re-parsing discards any earlier state.
func (r *Reconciler) Reconcile(ctx context.Context, parse *ai.ParseResult, rawContent, sourceType string) (*models.Posting, error) {
	if parse == nil {
		return nil, errors.New("reconcile: parse result is nil")
	}

	title := strings.TrimSpace(parse.Title)
	if title == "" {
		return nil, &ValidationError{Field: "title"}
	}
	applyEmail := strings.TrimSpace(parse.ApplyEmail)
	if applyEmail == "" {
		return nil, &ValidationError{Field: "apply_email"}
	}

	p := &models.Posting{
		Title:        title,
		CompanyName:  strings.TrimSpace(parse.CompanyName),
		ApplyEmail:   applyEmail,
		SubjectTpl:   parse.EmailSubject,
		BodyTpl:      parse.EmailBody,
		Requirements: parse.Requirements,
		SourceType:   sourceType,
		RawContent:   rawContent,
		Status:       "active",
	}
	if p.SourceType == "" {
		p.SourceType = "manual"
	}

	// tag ids keep suggestion order; duplicates collapse by id
	seen := make(map[int64]bool, len(parse.Tags))
	for _, s := range parse.Tags {
		tag, err := r.taxonomy.ResolveOrCreateTag(ctx, s.Name, s.Category, s.Color)
		if err != nil {
			r.logger.Warn("skipping unresolved tag", "name", s.Name, "error", err)
			continue
		}
		if seen[tag.ID] {
			continue
		}
		seen[tag.ID] = true
		p.TagIDs = append(p.TagIDs, tag.ID)
	}

	if parse.Industry != nil && strings.TrimSpace(parse.Industry.Name) != "" {
		in, err := r.taxonomy.ResolveOrCreateIndustry(ctx, parse.Industry.Name, parse.Industry.Code)
		if err != nil {
			r.logger.Warn("skipping unresolved industry", "name", parse.Industry.Name, "error", err)
		} else {
			p.IndustryID = &in.ID
			p.IndustryName = in.Name
		}
	}

	return p, nil
}
