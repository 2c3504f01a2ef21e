package bookclient

import (
	"context"
	"errors"
	"strings"
	"sync"
)

// Draft holds the fields of an unsaved book being edited.
type Draft struct {
	Title       string
	Author      string
	Description string
}

// DraftField names one editable field of the draft.
type DraftField string

const (
	DraftTitle       DraftField = "title"
	DraftAuthor      DraftField = "author"
	DraftDescription DraftField = "description"
)

// State is an immutable snapshot of what a form-and-list front-end
// holds. Books is the server-authoritative ordered list, Pending tells
// whether a request is in flight and ErrorMessage carries the last
// failure text, cleared by the next successful action.
type State struct {
	Books        []Book
	Draft        Draft
	Pending      bool
	ErrorMessage string
}

// Validation failures raised before any request is sent.
var (
	ErrMissingTitle  = errors.New("title is required")
	ErrMissingAuthor = errors.New("author is required")
)

// Session drives the catalog UI state. Every transition builds a new
// State value from the previous one plus the event payload, under a
// lock, so a concurrent reader never observes a half-applied change.
type Session struct {
	client *Client

	mu    sync.Mutex
	state State
}

// NewSession returns a Session bound to the given api client.
func NewSession(client *Client) *Session {
	return &Session{client: client}
}

// State returns a snapshot of the current state. The books
// slice is copied so the caller cannot alter the session.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := s.state
	if s.state.Books != nil {
		snapshot.Books = make([]Book, len(s.state.Books))
		copy(snapshot.Books, s.state.Books)
	}
	return snapshot
}

// apply replaces the current state with the one built by f.
func (s *Session) apply(f func(prev State) State) {
	s.mu.Lock()
	s.state = f(s.state)
	s.mu.Unlock()
}

// Load fetches the full list of books. On success the list replaces the
// previous one and any stale error message is cleared. On failure the
// list is kept as is and the failure text is surfaced.
func (s *Session) Load(ctx context.Context) error {
	s.apply(func(prev State) State {
		next := prev
		next.Pending = true
		return next
	})

	books, err := s.client.List(ctx)
	if err != nil {
		s.apply(func(prev State) State {
			next := prev
			next.Pending = false
			next.ErrorMessage = errorMessage(err)
			return next
		})
		return err
	}

	s.apply(func(prev State) State {
		next := prev
		next.Books = books
		next.Pending = false
		next.ErrorMessage = ""
		return next
	})
	return nil
}

// SetDraftField updates one named field of the draft. This is a pure
// local transition, nothing is sent over the network. Unknown field
// names are ignored.
func (s *Session) SetDraftField(field DraftField, value string) {
	s.apply(func(prev State) State {
		next := prev
		switch field {
		case DraftTitle:
			next.Draft.Title = value
		case DraftAuthor:
			next.Draft.Author = value
		case DraftDescription:
			next.Draft.Description = value
		}
		return next
	})
}

// Submit validates the draft locally then creates the book. A draft with
// an empty or whitespace-only title or author is rejected without any
// request being sent. On success the returned record, carrying its
// server-assigned id, is appended to the list and the draft is reset.
func (s *Session) Submit(ctx context.Context) error {
	draft := s.State().Draft
	if err := validateDraft(draft); err != nil {
		s.apply(func(prev State) State {
			next := prev
			next.ErrorMessage = err.Error()
			return next
		})
		return err
	}

	s.apply(func(prev State) State {
		next := prev
		next.Pending = true
		return next
	})

	book, err := s.client.Create(ctx, draft)
	if err != nil {
		s.apply(func(prev State) State {
			next := prev
			next.Pending = false
			next.ErrorMessage = errorMessage(err)
			return next
		})
		return err
	}

	s.apply(func(prev State) State {
		next := prev
		next.Books = append(append([]Book{}, prev.Books...), book)
		next.Draft = Draft{}
		next.Pending = false
		next.ErrorMessage = ""
		return next
	})
	return nil
}

// Delete removes the book with the given id. There is no optimistic
// removal: the list is only updated once the server confirmed the
// deletion, a failure leaves it untouched.
func (s *Session) Delete(ctx context.Context, id string) error {
	s.apply(func(prev State) State {
		next := prev
		next.Pending = true
		return next
	})

	_, err := s.client.Delete(ctx, id)
	if err != nil {
		s.apply(func(prev State) State {
			next := prev
			next.Pending = false
			next.ErrorMessage = errorMessage(err)
			return next
		})
		return err
	}

	s.apply(func(prev State) State {
		next := prev
		books := make([]Book, 0, len(prev.Books))
		for _, b := range prev.Books {
			if b.ID != id {
				books = append(books, b)
			}
		}
		next.Books = books
		next.Pending = false
		next.ErrorMessage = ""
		return next
	})
	return nil
}

// validateDraft enforces the required fields policy on the
// client side, mirroring the server check.
func validateDraft(draft Draft) error {
	if len(strings.TrimSpace(draft.Title)) == 0 {
		return ErrMissingTitle
	}
	if len(strings.TrimSpace(draft.Author)) == 0 {
		return ErrMissingAuthor
	}
	return nil
}

// errorMessage extracts the user facing text of a failure. Server
// messages are kept, anything else falls back to a generic string.
func errorMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return genericErrorMessage
}
