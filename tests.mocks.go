package main

import (
	"context"
	"time"
)

// This file contains mocks definitions needed to perform unit tests.

type MockBookStorage struct {
	AddFunc    func(ctx context.Context, id string, book Book) error
	GetOneFunc func(ctx context.Context, id string) (Book, error)
	DeleteFunc func(ctx context.Context, id string) error
	GetAllFunc func(ctx context.Context) ([]Book, error)
}

// Add mocks the behavior of book creation by the repository.
func (m *MockBookStorage) Add(ctx context.Context, id string, book Book) error {
	return m.AddFunc(ctx, id, book)
}

// GetOne mocks the behavior of retrieving a book by the repository.
func (m *MockBookStorage) GetOne(ctx context.Context, id string) (Book, error) {
	return m.GetOneFunc(ctx, id)
}

// Delete mocks the behavior of deleting a book by the repository.
func (m *MockBookStorage) Delete(ctx context.Context, id string) error {
	return m.DeleteFunc(ctx, id)
}

// GetAll mocks the behavior of retrieving all books by the repository.
func (m *MockBookStorage) GetAll(ctx context.Context) ([]Book, error) {
	return m.GetAllFunc(ctx)
}

// MockQueuer implements a fake Queuer which records pushed events.
type MockQueuer struct {
	PushedQueueIDs []string
	PushedBooks    []Book
	PopFunc        func(ctx context.Context, qids ...string) (string, Book, error)
}

// Push mocks the behavior of enqueueing a replication event.
func (m *MockQueuer) Push(_ context.Context, qid string, book Book) error {
	m.PushedQueueIDs = append(m.PushedQueueIDs, qid)
	m.PushedBooks = append(m.PushedBooks, book)
	return nil
}

// Pop mocks the behavior of dequeueing a replication event.
func (m *MockQueuer) Pop(ctx context.Context, qids ...string) (string, Book, error) {
	return m.PopFunc(ctx, qids...)
}

// MockClocker implements a fake Clocker.
type MockClocker struct {
	MockNow time.Time
}

// NewMockClocker returns a mocked instance with fixed time.
func NewMockClocker() *MockClocker {
	return &MockClocker{time.Date(2023, 0o7, 0o2, 0o0, 0o0, 0o0, 0o00000000, time.UTC)}
}

// Now returns an already defined time to be used as mock. This
// equals to `Sun, 02 Jul 2023 00:00:00 UTC` in time.RFC1123 format.
func (mck *MockClocker) Now() time.Time {
	return mck.MockNow
}

// MockUIDHandler implements a fake UIDHandler.
type MockUIDHandler struct {
	MockID      string
	MockIsValid bool
}

// NewMockUIDHandler returns a mocked instance with fixed id and validity.
func NewMockUIDHandler(id string, isValid bool) *MockUIDHandler {
	return &MockUIDHandler{MockID: id, MockIsValid: isValid}
}

// Generate returns the predefined fake id behind the given prefix.
func (m *MockUIDHandler) Generate(prefix string) string {
	return prefix + ":" + m.MockID
}

// IsValid returns the predefined validity result.
func (m *MockUIDHandler) IsValid(id, prefix string) bool {
	return m.MockIsValid
}
