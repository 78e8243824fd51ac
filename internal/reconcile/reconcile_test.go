package reconcile_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jobdeck/jobdeck/internal/ai"
	"github.com/jobdeck/jobdeck/internal/reconcile"
	"github.com/jobdeck/jobdeck/internal/taxonomy"
	"github.com/jobdeck/jobdeck/pkg/models"
)

type fakeTaxonomy struct {
	tags       map[string]models.Tag
	industries map[string]models.Industry
	failTags   map[string]bool
	tagCreates int
	nextID     int64
}

func newFakeTaxonomy() *fakeTaxonomy {
	return &fakeTaxonomy{
		tags:       make(map[string]models.Tag),
		industries: make(map[string]models.Industry),
		failTags:   make(map[string]bool),
		nextID:     100,
	}
}

func (f *fakeTaxonomy) ResolveOrCreateTag(ctx context.Context, name, category, color string) (models.Tag, error) {
	code := taxonomy.Slugify(name)
	if f.failTags[code] {
		return models.Tag{}, &taxonomy.ReconciliationError{Code: code, Err: fmt.Errorf("remote unavailable")}
	}
	if t, ok := f.tags[code]; ok {
		return t, nil
	}
	f.tagCreates++
	f.nextID++
	t := models.Tag{ID: f.nextID, Code: code, Name: name, Category: category}
	f.tags[code] = t
	return t, nil
}

func (f *fakeTaxonomy) ResolveOrCreateIndustry(ctx context.Context, name, suggestedCode string) (models.Industry, error) {
	code := taxonomy.Slugify(suggestedCode)
	if code == "" {
		code = taxonomy.Slugify(name)
	}
	if in, ok := f.industries[code]; ok {
		return in, nil
	}
	f.nextID++
	in := models.Industry{ID: f.nextID, Code: code, Name: name}
	f.industries[code] = in
	return in, nil
}

func TestReconcile_ValidationErrors(t *testing.T) {
	r := reconcile.New(newFakeTaxonomy(), nil)
	ctx := context.Background()

	tests := []struct {
		name  string
		parse *ai.ParseResult
		field string
	}{
		{"blank title", &ai.ParseResult{Title: "   ", ApplyEmail: "a@b.test"}, "title"},
		{"blank email", &ai.ParseResult{Title: "Engineer", ApplyEmail: " "}, "apply_email"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Reconcile(ctx, tt.parse, "raw", "paste")
			var verr *reconcile.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != tt.field {
				t.Fatalf("expected field %q, got %q", tt.field, verr.Field)
			}
		})
	}
}

func TestReconcile_TagOrderAndDedup(t *testing.T) {
	tax := newFakeTaxonomy()
	tax.tags["react"] = models.Tag{ID: 1, Code: "react", Name: "React"}
	r := reconcile.New(tax, nil)

	parse := &ai.ParseResult{
		Title:      "Frontend Engineer",
		ApplyEmail: "jobs@acme.test",
		Tags: []ai.TagSuggestion{
			{Name: "React"},
			{Name: "TypeScript"},
			{Name: "react"}, // same tag again, different casing
		},
	}

	p, err := r.Reconcile(context.Background(), parse, "raw text", "paste")
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}

	// one create for typescript, none for the pre-existing react
	if tax.tagCreates != 1 {
		t.Fatalf("expected one tag create, got %d", tax.tagCreates)
	}
	ts := tax.tags["typescript"]
	if len(p.TagIDs) != 2 || p.TagIDs[0] != 1 || p.TagIDs[1] != ts.ID {
		t.Fatalf("expected tag ids [1 %d] in suggestion order, got %v", ts.ID, p.TagIDs)
	}
}

func TestReconcile_SkipsFailedTags(t *testing.T) {
	tax := newFakeTaxonomy()
	tax.failTags["golang"] = true
	r := reconcile.New(tax, nil)

	parse := &ai.ParseResult{
		Title:      "Backend Engineer",
		ApplyEmail: "jobs@acme.test",
		Tags:       []ai.TagSuggestion{{Name: "Golang"}, {Name: "SQL"}},
	}

	p, err := r.Reconcile(context.Background(), parse, "raw", "paste")
	if err != nil {
		t.Fatalf("per-tag failure must not abort reconciliation: %v", err)
	}
	if len(p.TagIDs) != 1 {
		t.Fatalf("expected only the resolvable tag, got %v", p.TagIDs)
	}
}

func TestReconcile_AttachesIndustry(t *testing.T) {
	tax := newFakeTaxonomy()
	r := reconcile.New(tax, nil)

	parse := &ai.ParseResult{
		Title:      "Analyst",
		ApplyEmail: "jobs@bank.test",
		Industry:   &ai.IndustrySuggestion{Name: "Finance"},
	}

	p, err := r.Reconcile(context.Background(), parse, "raw", "paste")
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if p.IndustryName != "Finance" || p.IndustryID == nil {
		t.Fatalf("expected industry attached, got %#v", p)
	}
}

func TestReconcile_PassesThroughFields(t *testing.T) {
	r := reconcile.New(newFakeTaxonomy(), nil)

	parse := &ai.ParseResult{
		Title:        "  Engineer  ",
		CompanyName:  "Acme",
		ApplyEmail:   "jobs@acme.test",
		EmailSubject: "Application for {{title}}",
		Requirements: models.Requirements{Experience: "3+ years", Skills: []string{"go"}},
	}

	p, err := r.Reconcile(context.Background(), parse, "the raw text", "url")
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if p.Title != "Engineer" {
		t.Fatalf("expected trimmed title, got %q", p.Title)
	}
	if p.RawContent != "the raw text" || p.SourceType != "url" {
		t.Fatalf("raw content/source not carried: %#v", p)
	}
	if p.Requirements.Experience != "3+ years" {
		t.Fatalf("requirements not carried: %#v", p.Requirements)
	}
	if p.Status != "active" {
		t.Fatalf("expected active status, got %q", p.Status)
	}
}
