package note

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// Store defines the note persistence operations the service depends on.
// All operations are owner-scoped at the query level.
type Store interface {
	Create(ctx context.Context, ownerID uuid.UUID, params Params) (*Note, error)
	List(ctx context.Context, ownerID uuid.UUID, terms []string) ([]*Note, error)
	Get(ctx context.Context, ownerID, id uuid.UUID) (*Note, error)
	Update(ctx context.Context, ownerID, id uuid.UUID, params Params) (*Note, error)
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}

// Service handles note business logic on behalf of an authenticated owner.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Create stores a new note owned by ownerID
func (s *Service) Create(ctx context.Context, ownerID uuid.UUID, params Params) (*Note, error) {
	return s.store.Create(ctx, ownerID, params)
}

// List returns the owner's notes, most recently updated first. tagFilter is
// an optional comma-separated list; a note is returned only when its tags
// contain every filter term.
func (s *Service) List(ctx context.Context, ownerID uuid.UUID, tagFilter string) ([]*Note, error) {
	return s.store.List(ctx, ownerID, ParseTagFilter(tagFilter))
}

// Get returns a single owned note
func (s *Service) Get(ctx context.Context, ownerID, id uuid.UUID) (*Note, error) {
	return s.store.Get(ctx, ownerID, id)
}

// Update modifies an owned note and returns the updated record
func (s *Service) Update(ctx context.Context, ownerID, id uuid.UUID, params Params) (*Note, error) {
	return s.store.Update(ctx, ownerID, id, params)
}

// Delete removes an owned note
func (s *Service) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	return s.store.Delete(ctx, ownerID, id)
}

// ParseTagFilter splits a comma-separated filter into lowercased, trimmed,
// non-empty terms. Matching is exact per term and conjunctive across terms.
func ParseTagFilter(filter string) []string {
	if filter == "" {
		return nil
	}

	parts := strings.Split(filter, ",")
	terms := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			terms = append(terms, strings.ToLower(trimmed))
		}
	}

	if len(terms) == 0 {
		return nil
	}

	return terms
}
