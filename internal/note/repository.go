package note

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"

	"github.com/Vinith1801/Growfinix-Tech/internal/database"
)

var ErrNotFound = errors.New("note not found")

// Repository handles note persistence. Every query predicate includes the
// owner id, so a note belonging to someone else behaves exactly like a
// missing one.
type Repository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new note owned by ownerID
func (r *Repository) Create(ctx context.Context, ownerID uuid.UUID, params Params) (*Note, error) {
	dbNote := &database.Note{
		Title:   params.Title,
		Content: params.Content,
		Tags:    tagsOrEmpty(params.Tags),
		Pinned:  params.Pinned,
		OwnerID: ownerID,
	}

	_, err := r.db.NewInsert().
		Model(dbNote).
		Returning("*").
		Exec(ctx)

	if err != nil {
		return nil, fmt.Errorf("failed to create note: %w", err)
	}

	return mapDBNoteToModel(dbNote), nil
}

// List returns the owner's notes, most recently updated first. terms must be
// lowercased filter terms; a note matches only if its tag list contains every
// term (case-insensitive exact match).
func (r *Repository) List(ctx context.Context, ownerID uuid.UUID, terms []string) ([]*Note, error) {
	var dbNotes []*database.Note

	q := r.db.NewSelect().
		Model(&dbNotes).
		Where("owner_id = ?", ownerID).
		Order("updated_at DESC")

	for _, term := range terms {
		q = q.Where("? = ANY (SELECT lower(t) FROM unnest(n.tags) AS t)", term)
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}

	notes := make([]*Note, 0, len(dbNotes))
	for _, dbNote := range dbNotes {
		notes = append(notes, mapDBNoteToModel(dbNote))
	}

	return notes, nil
}

// Get returns the note only if it exists and belongs to ownerID
func (r *Repository) Get(ctx context.Context, ownerID, id uuid.UUID) (*Note, error) {
	dbNote := new(database.Note)
	err := r.db.NewSelect().
		Model(dbNote).
		Where("id = ?", id).
		Where("owner_id = ?", ownerID).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get note: %w", err)
	}

	return mapDBNoteToModel(dbNote), nil
}

// Update modifies the note only if it belongs to ownerID and returns the
// updated record
func (r *Repository) Update(ctx context.Context, ownerID, id uuid.UUID, params Params) (*Note, error) {
	dbNote := new(database.Note)
	err := r.db.NewUpdate().
		Model(dbNote).
		Set("title = ?", params.Title).
		Set("content = ?", params.Content).
		Set("tags = ?", pgdialect.Array(tagsOrEmpty(params.Tags))).
		Set("pinned = ?", params.Pinned).
		Set("updated_at = now()").
		Where("id = ?", id).
		Where("owner_id = ?", ownerID).
		Returning("*").
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update note: %w", err)
	}

	return mapDBNoteToModel(dbNote), nil
}

// Delete removes the note only if it belongs to ownerID
func (r *Repository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	result, err := r.db.NewDelete().
		Model((*database.Note)(nil)).
		Where("id = ?", id).
		Where("owner_id = ?", ownerID).
		Exec(ctx)

	if err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

func tagsOrEmpty(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

// mapDBNoteToModel converts database model to domain model
func mapDBNoteToModel(dbn *database.Note) *Note {
	return &Note{
		ID:        dbn.ID,
		Title:     dbn.Title,
		Content:   dbn.Content,
		Tags:      dbn.Tags,
		Pinned:    dbn.Pinned,
		OwnerID:   dbn.OwnerID,
		CreatedAt: dbn.CreatedAt,
		UpdatedAt: dbn.UpdatedAt,
	}
}
