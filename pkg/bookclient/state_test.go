package bookclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCatalog is an in-memory rendition of the api used to drive the
// session through full scenarios.
type fakeCatalog struct {
	mu     sync.Mutex
	nextID int
	books  []Book
	fail   bool
}

func (f *fakeCatalog) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		w.Header().Set("Content-Type", "application/json; charset=UTF-8")

		if f.fail {
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"message": "catalog unavailable"})
			return
		}

		switch {
		case r.Method == http.MethodGet:
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"status": http.StatusOK, "data": f.books})
		case r.Method == http.MethodPost:
			var payload map[string]string
			_ = json.NewDecoder(r.Body).Decode(&payload)
			f.nextID++
			book := Book{
				ID:     "b:" + string(rune('0'+f.nextID)),
				Title:  payload["title"],
				Author: payload["author"],
			}
			f.books = append(f.books, book)
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"status": http.StatusCreated, "data": book})
		case r.Method == http.MethodDelete:
			id := r.URL.Path[len("/api/books/"):]
			for i, b := range f.books {
				if b.ID == id {
					deleted := b
					f.books = append(f.books[:i], f.books[i+1:]...)
					_ = json.NewEncoder(w).Encode(map[string]interface{}{"status": http.StatusOK, "data": deleted})
					return
				}
			}
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"message": "book does not exist"})
		}
	})
}

func newTestSession(t *testing.T) (*Session, *fakeCatalog, func()) {
	t.Helper()
	catalog := &fakeCatalog{}
	srv := httptest.NewServer(catalog.handler())
	client, err := New(srv.URL)
	require.NoError(t, err)
	return NewSession(client), catalog, srv.Close
}

func TestSession_Load(t *testing.T) {
	session, catalog, done := newTestSession(t)
	defer done()
	catalog.books = []Book{{ID: "b:1", Title: "Dune", Author: "Herbert"}}

	err := session.Load(context.Background())
	assert.NoError(t, err)

	state := session.State()
	assert.Equal(t, catalog.books, state.Books)
	assert.False(t, state.Pending)
	assert.Empty(t, state.ErrorMessage)
}

func TestSession_Load_Failure(t *testing.T) {
	session, catalog, done := newTestSession(t)
	defer done()
	catalog.fail = true

	err := session.Load(context.Background())
	assert.Error(t, err)

	state := session.State()
	assert.Empty(t, state.Books)
	assert.False(t, state.Pending)
	assert.Equal(t, "catalog unavailable", state.ErrorMessage)
}

func TestSession_SetDraftField(t *testing.T) {
	session, _, done := newTestSession(t)
	defer done()

	session.SetDraftField(DraftTitle, "Dune")
	session.SetDraftField(DraftAuthor, "Herbert")
	session.SetDraftField(DraftDescription, "A desert planet saga")
	session.SetDraftField(DraftField("unknown"), "ignored")

	state := session.State()
	assert.Equal(t, Draft{Title: "Dune", Author: "Herbert", Description: "A desert planet saga"}, state.Draft)
}

// TestSession_Submit_Guard ensures an invalid draft never reaches the network.
func TestSession_Submit_Guard(t *testing.T) {
	catalog := &fakeCatalog{}
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		catalog.handler().ServeHTTP(w, r)
	}))
	defer srv.Close()
	client, err := New(srv.URL)
	require.NoError(t, err)
	session := NewSession(client)

	testCases := []struct {
		name    string
		draft   Draft
		wantErr error
	}{
		{"empty title", Draft{Title: "", Author: "Herbert"}, ErrMissingTitle},
		{"whitespace title", Draft{Title: "   ", Author: "Herbert"}, ErrMissingTitle},
		{"empty author", Draft{Title: "Dune", Author: ""}, ErrMissingAuthor},
		{"whitespace author", Draft{Title: "Dune", Author: " \t "}, ErrMissingAuthor},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			session.SetDraftField(DraftTitle, tc.draft.Title)
			session.SetDraftField(DraftAuthor, tc.draft.Author)

			err := session.Submit(context.Background())
			assert.ErrorIs(t, err, tc.wantErr)
			assert.Equal(t, 0, requests)

			state := session.State()
			assert.Equal(t, tc.wantErr.Error(), state.ErrorMessage)
			assert.Empty(t, state.Books)
		})
	}
}

func TestSession_Submit(t *testing.T) {
	session, _, done := newTestSession(t)
	defer done()

	session.SetDraftField(DraftTitle, "Dune")
	session.SetDraftField(DraftAuthor, "Herbert")

	err := session.Submit(context.Background())
	assert.NoError(t, err)

	state := session.State()
	require.Len(t, state.Books, 1)
	assert.NotEmpty(t, state.Books[0].ID)
	assert.Equal(t, "Dune", state.Books[0].Title)
	assert.Equal(t, "Herbert", state.Books[0].Author)
	// the draft is reset once the record is accepted.
	assert.Equal(t, Draft{}, state.Draft)
	assert.Empty(t, state.ErrorMessage)
	assert.False(t, state.Pending)
}

func TestSession_Delete_Failure_KeepsBooks(t *testing.T) {
	session, catalog, done := newTestSession(t)
	defer done()
	catalog.books = []Book{{ID: "b:1", Title: "Dune", Author: "Herbert"}}

	err := session.Load(context.Background())
	require.NoError(t, err)

	err = session.Delete(context.Background(), "b:missing")
	assert.Error(t, err)

	state := session.State()
	// no optimistic removal: the list is untouched on failure.
	require.Len(t, state.Books, 1)
	assert.Equal(t, "b:1", state.Books[0].ID)
	assert.Equal(t, "book does not exist", state.ErrorMessage)
	assert.False(t, state.Pending)
}

// TestSession_Scenario runs the full create, list, delete round trip.
func TestSession_Scenario(t *testing.T) {
	session, _, done := newTestSession(t)
	defer done()

	require.NoError(t, session.Load(context.Background()))
	assert.Empty(t, session.State().Books)

	session.SetDraftField(DraftTitle, "Dune")
	session.SetDraftField(DraftAuthor, "Herbert")
	require.NoError(t, session.Submit(context.Background()))

	state := session.State()
	require.Len(t, state.Books, 1)
	id := state.Books[0].ID
	require.NotEmpty(t, id)

	// a fresh load still includes the record.
	require.NoError(t, session.Load(context.Background()))
	state = session.State()
	require.Len(t, state.Books, 1)
	assert.Equal(t, id, state.Books[0].ID)

	require.NoError(t, session.Delete(context.Background(), id))
	assert.Empty(t, session.State().Books)

	require.NoError(t, session.Load(context.Background()))
	assert.Empty(t, session.State().Books)
}

// TestSession_StateSnapshotIsolation ensures a returned snapshot cannot
// alter the session state.
func TestSession_StateSnapshotIsolation(t *testing.T) {
	session, catalog, done := newTestSession(t)
	defer done()
	catalog.books = []Book{{ID: "b:1", Title: "Dune", Author: "Herbert"}}
	require.NoError(t, session.Load(context.Background()))

	snapshot := session.State()
	snapshot.Books[0].Title = "mutated"

	assert.Equal(t, "Dune", session.State().Books[0].Title)
}
