// Package taxonomy maintains a local mirror of the catalog's industries and
// tags and resolves names against it, creating missing entries remotely.
package taxonomy

import (
	"context"
	"fmt"
	"io"
	"sync"

	"log/slog"

	"github.com/jobdeck/jobdeck/pkg/models"
)

// Catalog is the remote taxonomy surface the store resolves against.
type Catalog interface {
	ListIndustries(ctx context.Context) ([]models.Industry, error)
	CreateIndustry(ctx context.Context, in models.Industry) (*models.Industry, error)
	ListTags(ctx context.Context) ([]models.Tag, error)
	CreateTag(ctx context.Context, t models.Tag) (*models.Tag, error)
}

// ReconciliationError reports a failed resolve-or-create for one code.
// Callers must re-resolve instead of retrying the same create blindly;
// the usual cause is a concurrent create of the same code.
type ReconciliationError struct {
	Code string
	Err  error
}

func (e *ReconciliationError) Error() string {
	return fmt.Sprintf("taxonomy: reconcile %q: %v", e.Code, e.Err)
}

func (e *ReconciliationError) Unwrap() error { return e.Err }

// Store mirrors remote industries and tags keyed by normalized code.
// The mirror is append-only: entries are immutable once inserted, so
// concurrent readers never observe a partially updated entry.
type Store struct {
	remote Catalog
	logger *slog.Logger

	mu         sync.RWMutex
	tags       map[string]models.Tag
	industries map[string]models.Industry
}

func NewStore(remote Catalog, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &Store{
		remote:     remote,
		logger:     logger,
		tags:       make(map[string]models.Tag),
		industries: make(map[string]models.Industry),
	}
}

// Load primes the mirror from the remote catalog. Safe to call again; known
// codes keep their first-seen entry.
func (s *Store) Load(ctx context.Context) error {
	industries, err := s.remote.ListIndustries(ctx)
	if err != nil {
		return fmt.Errorf("list industries: %w", err)
	}
	tags, err := s.remote.ListTags(ctx)
	if err != nil {
		return fmt.Errorf("list tags: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, in := range industries {
		if _, ok := s.industries[in.Code]; !ok {
			s.industries[in.Code] = in
		}
	}
	for _, t := range tags {
		if _, ok := s.tags[t.Code]; !ok {
			s.tags[t.Code] = t
		}
	}

	return nil
}

// ResolveOrCreateTag returns the tag whose code matches the normalized name,
// creating it remotely when absent. An existing tag is returned unchanged;
// category and color of the candidate never update an existing entry.
func (s *Store) ResolveOrCreateTag(ctx context.Context, name, category, color string) (models.Tag, error) {
	code := Slugify(name)
	if code == "" {
		return models.Tag{}, &ReconciliationError{Code: code, Err: fmt.Errorf("empty code after normalizing %q", name)}
	}

	s.mu.RLock()
	t, ok := s.tags[code]
	s.mu.RUnlock()
	if ok {
		return t, nil
	}

	created, err := s.remote.CreateTag(ctx, models.Tag{Code: code, Name: name, Category: category, Color: color, IsActive: true})
	if err != nil {
		return models.Tag{}, &ReconciliationError{Code: code, Err: err}
	}

	s.mu.Lock()
	// a concurrent resolve may have filled the slot; keep the first entry
	if existing, ok := s.tags[code]; ok {
		s.mu.Unlock()
		return existing, nil
	}
	s.tags[code] = *created
	s.mu.Unlock()

	return *created, nil
}

// ResolveOrCreateIndustry mirrors ResolveOrCreateTag for industries. When
// suggestedCode is non-empty it wins over the normalized name.
func (s *Store) ResolveOrCreateIndustry(ctx context.Context, name, suggestedCode string) (models.Industry, error) {
	code := Slugify(suggestedCode)
	if code == "" {
		code = Slugify(name)
	}
	if code == "" {
		return models.Industry{}, &ReconciliationError{Code: code, Err: fmt.Errorf("empty code after normalizing %q", name)}
	}

	s.mu.RLock()
	in, ok := s.industries[code]
	s.mu.RUnlock()
	if ok {
		return in, nil
	}

	created, err := s.remote.CreateIndustry(ctx, models.Industry{Code: code, Name: name, IsActive: true})
	if err != nil {
		return models.Industry{}, &ReconciliationError{Code: code, Err: err}
	}

	s.mu.Lock()
	if existing, ok := s.industries[code]; ok {
		s.mu.Unlock()
		return existing, nil
	}
	s.industries[code] = *created
	s.mu.Unlock()

	return *created, nil
}
