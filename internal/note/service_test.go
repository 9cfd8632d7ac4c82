package note

import (
	"context"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore is an in-memory Store that mirrors the repository's owner-scoped
// and tag-filter semantics.
type fakeStore struct {
	notes map[uuid.UUID]*Note
}

func newFakeStore() *fakeStore {
	return &fakeStore{notes: make(map[uuid.UUID]*Note)}
}

func (f *fakeStore) Create(ctx context.Context, ownerID uuid.UUID, params Params) (*Note, error) {
	now := time.Now()
	tags := params.Tags
	if tags == nil {
		tags = []string{}
	}
	n := &Note{
		ID:        uuid.New(),
		Title:     params.Title,
		Content:   params.Content,
		Tags:      tags,
		Pinned:    params.Pinned,
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	f.notes[n.ID] = n
	return n, nil
}

func (f *fakeStore) List(ctx context.Context, ownerID uuid.UUID, terms []string) ([]*Note, error) {
	result := make([]*Note, 0)
	for _, n := range f.notes {
		if n.OwnerID != ownerID {
			continue
		}
		if !hasAllTags(n.Tags, terms) {
			continue
		}
		result = append(result, n)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].UpdatedAt.After(result[j].UpdatedAt)
	})
	return result, nil
}

func hasAllTags(tags, terms []string) bool {
	for _, term := range terms {
		found := false
		for _, tag := range tags {
			if strings.ToLower(tag) == term {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (f *fakeStore) Get(ctx context.Context, ownerID, id uuid.UUID) (*Note, error) {
	n, ok := f.notes[id]
	if !ok || n.OwnerID != ownerID {
		return nil, ErrNotFound
	}
	return n, nil
}

func (f *fakeStore) Update(ctx context.Context, ownerID, id uuid.UUID, params Params) (*Note, error) {
	n, ok := f.notes[id]
	if !ok || n.OwnerID != ownerID {
		return nil, ErrNotFound
	}
	n.Title = params.Title
	n.Content = params.Content
	n.Tags = params.Tags
	n.Pinned = params.Pinned
	n.UpdatedAt = time.Now()
	return n, nil
}

func (f *fakeStore) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	n, ok := f.notes[id]
	if !ok || n.OwnerID != ownerID {
		return ErrNotFound
	}
	delete(f.notes, id)
	return nil
}

// --- tag filter parsing ---

func TestParseTagFilter(t *testing.T) {
	tests := []struct {
		name   string
		filter string
		want   []string
	}{
		{"empty", "", nil},
		{"single term", "work", []string{"work"}},
		{"lowercased", "URGENT", []string{"urgent"}},
		{"multiple terms", "work,urgent", []string{"work", "urgent"}},
		{"trimmed", " work , urgent ", []string{"work", "urgent"}},
		{"empty terms dropped", "work,,  ,urgent", []string{"work", "urgent"}},
		{"only separators", ", ,", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseTagFilter(tt.filter))
		})
	}
}

// --- service behavior ---

func TestService_TagFilterConjunctive(t *testing.T) {
	svc := NewService(newFakeStore())
	ctx := context.Background()
	owner := uuid.New()

	_, err := svc.Create(ctx, owner, Params{Title: "T", Tags: []string{"Work", "Urgent"}})
	require.NoError(t, err)

	tests := []struct {
		filter string
		want   int
	}{
		{"work,urgent", 1},
		{"URGENT", 1},
		{"work", 1},
		{"work,personal", 0},
		{"", 1},
	}

	for _, tt := range tests {
		t.Run("filter "+tt.filter, func(t *testing.T) {
			notes, err := svc.List(ctx, owner, tt.filter)
			require.NoError(t, err)
			assert.Len(t, notes, tt.want)
		})
	}
}

func TestService_OwnerScoping(t *testing.T) {
	svc := NewService(newFakeStore())
	ctx := context.Background()
	alice := uuid.New()
	bob := uuid.New()

	created, err := svc.Create(ctx, alice, Params{Title: "private", Content: "C", Tags: []string{"x"}})
	require.NoError(t, err)

	// bob cannot see, update or delete alice's note; all look like not-found
	_, err = svc.Get(ctx, bob, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Update(ctx, bob, created.ID, Params{Title: "stolen"})
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, bob, created.ID), ErrNotFound)

	// alice still can
	got, err := svc.Get(ctx, alice, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "private", got.Title)

	bobNotes, err := svc.List(ctx, bob, "")
	require.NoError(t, err)
	assert.Empty(t, bobNotes)
}

func TestService_ListOrdering(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	ctx := context.Background()
	owner := uuid.New()

	first, err := svc.Create(ctx, owner, Params{Title: "first"})
	require.NoError(t, err)
	second, err := svc.Create(ctx, owner, Params{Title: "second"})
	require.NoError(t, err)

	// backdate so the update below clearly moves it forward
	store.notes[first.ID].UpdatedAt = time.Now().Add(-time.Hour)
	store.notes[second.ID].UpdatedAt = time.Now().Add(-time.Minute)

	notes, err := svc.List(ctx, owner, "")
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, "second", notes[0].Title)

	// updating the old note moves it to the front
	_, err = svc.Update(ctx, owner, first.ID, Params{Title: "first updated"})
	require.NoError(t, err)

	notes, err = svc.List(ctx, owner, "")
	require.NoError(t, err)
	assert.Equal(t, "first updated", notes[0].Title)
}
