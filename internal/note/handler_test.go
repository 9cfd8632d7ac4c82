package note

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vinith1801/Growfinix-Tech/internal/auth"
)

// asUser injects the owner id the way the auth middleware does.
func asUser(userID uuid.UUID) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), auth.UserIDContextKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func newTestRouter(store Store, userID uuid.UUID) *chi.Mux {
	handler := NewHandler(NewService(store))

	r := chi.NewRouter()
	r.Route("/api/notes", func(r chi.Router) {
		r.Use(asUser(userID))
		r.Post("/", handler.Create)
		r.Get("/", handler.List)
		r.Get("/{id}", handler.Get)
		r.Put("/{id}", handler.Update)
		r.Delete("/{id}", handler.Delete)
	})
	return r
}

func TestHandler_CreateAndGet(t *testing.T) {
	owner := uuid.New()
	router := newTestRouter(newFakeStore(), owner)

	body, _ := json.Marshal(Params{Title: "T", Content: "C", Tags: []string{"x"}})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/notes/", bytes.NewReader(body)))

	require.Equal(t, http.StatusCreated, rec.Code)

	var created Note
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "T", created.Title)
	assert.Equal(t, owner, created.OwnerID)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/notes/"+created.ID.String(), nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var fetched Note
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fetched))
	assert.Equal(t, created.ID, fetched.ID)
}

func TestHandler_Create_InvalidBody(t *testing.T) {
	router := newTestRouter(newFakeStore(), uuid.New())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/notes/", bytes.NewReader([]byte("{not json"))))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_Get_ForeignNoteIsNotFound(t *testing.T) {
	store := newFakeStore()
	alice := uuid.New()

	created, err := store.Create(context.Background(), alice, Params{Title: "private"})
	require.NoError(t, err)

	// bob's router
	router := newTestRouter(store, uuid.New())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/notes/"+created.ID.String(), nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NotContains(t, rec.Body.String(), "private")
}

func TestHandler_Get_UnparseableID(t *testing.T) {
	router := newTestRouter(newFakeStore(), uuid.New())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/notes/not-a-uuid", nil))

	// same response as a missing note
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_List_TagFilter(t *testing.T) {
	store := newFakeStore()
	owner := uuid.New()
	router := newTestRouter(store, owner)

	_, err := store.Create(context.Background(), owner, Params{Title: "tagged", Tags: []string{"Work", "Urgent"}})
	require.NoError(t, err)
	_, err = store.Create(context.Background(), owner, Params{Title: "other", Tags: []string{"personal"}})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/notes/?tags=work,urgent", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var notes []Note
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &notes))
	require.Len(t, notes, 1)
	assert.Equal(t, "tagged", notes[0].Title)
}

func TestHandler_UpdateAndDelete(t *testing.T) {
	store := newFakeStore()
	owner := uuid.New()
	router := newTestRouter(store, owner)

	created, err := store.Create(context.Background(), owner, Params{Title: "before"})
	require.NoError(t, err)

	body, _ := json.Marshal(Params{Title: "after", Content: "C2", Tags: []string{"y"}, Pinned: true})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/notes/"+created.ID.String(), bytes.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)

	var updated Note
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, "after", updated.Title)
	assert.True(t, updated.Pinned)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/notes/"+created.ID.String(), nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/notes/"+created.ID.String(), nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
