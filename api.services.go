package main

import (
	"context"
	"sort"

	"go.uber.org/zap"
)

type BookServiceProvider interface {
	Add(ctx context.Context, id string, book Book) error
	GetOne(ctx context.Context, id string) (Book, error)
	Delete(ctx context.Context, id string) error
	GetAll(ctx context.Context) ([]Book, error)
}

type BookService struct {
	logger  *zap.Logger
	config  *Config
	clock   Clocker
	storage BookStorage
	queue   Queuer
}

func NewBookService(logger *zap.Logger, config *Config, clock Clocker, storage BookStorage, queue Queuer) BookServiceProvider {
	return &BookService{
		logger:  logger,
		config:  config,
		clock:   clock,
		storage: storage,
		queue:   queue,
	}
}

func (bs *BookService) Add(ctx context.Context, id string, book Book) error {
	if err := bs.queue.Push(ctx, CreateQueue, book); err != nil {
		bs.logger.Error("service: failed to push book to queue", zap.String("qid", CreateQueue), zap.Error(err))
	}
	return bs.storage.Add(ctx, id, book)
}

func (bs *BookService) GetOne(ctx context.Context, id string) (Book, error) {
	book, err := bs.storage.GetOne(ctx, id)
	return book, err
}

func (bs *BookService) Delete(ctx context.Context, id string) error {
	if err := bs.queue.Push(ctx, DeleteQueue, Book{ID: id}); err != nil {
		bs.logger.Error("service: failed to push to queue", zap.String("qid", DeleteQueue), zap.Error(err))
	}
	return bs.storage.Delete(ctx, id)
}

// GetAll returns all books in a stable order. The underlying redis hash
// gives no ordering guarantee so records are sorted on creation time
// with the id as tie breaker.
func (bs *BookService) GetAll(ctx context.Context) ([]Book, error) {
	books, err := bs.storage.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(books, func(i, j int) bool {
		if books[i].CreatedAt != books[j].CreatedAt {
			return books[i].CreatedAt < books[j].CreatedAt
		}
		return books[i].ID < books[j].ID
	})
	return books, nil
}
