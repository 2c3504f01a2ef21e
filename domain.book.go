package main

import "context"

// Book is the catalog entity. The ID is assigned by the server at
// creation time and never changes afterwards. Description is the
// only optional field.
type Book struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Author      string `json:"author"`
	Description string `json:"description,omitempty"`
	CreatedAt   string `json:"createdAt"`
}

// BookStorage defines possible operations on book records.
// There is no update operation: a record is created, listed
// and eventually deleted.
type BookStorage interface {
	Add(ctx context.Context, id string, book Book) error
	GetOne(ctx context.Context, id string) (Book, error)
	Delete(ctx context.Context, id string) error
	GetAll(ctx context.Context) ([]Book, error)
}
