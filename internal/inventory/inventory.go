// Package inventory implements the catalog store: book lookups,
// availability checks, and floored stock adjustments.
package inventory

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"bookstore-fulfillment/internal/apperr"
	"bookstore-fulfillment/internal/ident"
	"bookstore-fulfillment/internal/model"
	"bookstore-fulfillment/internal/storage"
)

// Service manages the book catalog. Every operation is read-through:
// the collection is reloaded, mutated, and saved as one logical step.
type Service struct {
	books storage.Collection
	ids   ident.Generator
	clock ident.Clock
	log   *zap.Logger
}

// New creates a catalog service over the given collection.
// It panics if books is nil.
func New(books storage.Collection, ids ident.Generator, clock ident.Clock, log *zap.Logger) *Service {
	if books == nil {
		panic("inventory.New: nil collection")
	}
	if ids == nil {
		ids = ident.UUIDGenerator{}
	}
	if clock == nil {
		clock = ident.SystemClock{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{books: books, ids: ids, clock: clock, log: log}
}

func (s *Service) load(ctx context.Context) ([]model.Book, error) {
	var books []model.Book
	if err := s.books.Load(ctx, &books); err != nil {
		return nil, err
	}
	return books, nil
}

// List returns every book in the catalog.
func (s *Service) List(ctx context.Context) ([]model.Book, error) {
	return s.load(ctx)
}

// GetByID returns the book with the given id.
func (s *Service) GetByID(ctx context.Context, id string) (*model.Book, error) {
	books, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range books {
		if books[i].ID == id {
			b := books[i]
			return &b, nil
		}
	}
	return nil, fmt.Errorf("book %s: %w", id, apperr.ErrBookNotFound)
}

// GetByISBN returns the book with the given ISBN.
func (s *Service) GetByISBN(ctx context.Context, isbn string) (*model.Book, error) {
	books, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range books {
		if books[i].ISBN == isbn {
			b := books[i]
			return &b, nil
		}
	}
	return nil, fmt.Errorf("isbn %s: %w", isbn, apperr.ErrBookNotFound)
}

// Add inserts a book into the catalog, assigning an id when absent.
func (s *Service) Add(ctx context.Context, book model.Book) (*model.Book, error) {
	if book.Title == "" {
		return nil, fmt.Errorf("title is required: %w", apperr.ErrInvalidInput)
	}
	if book.Price < 0 || book.StockQuantity < 0 {
		return nil, fmt.Errorf("price and stock must be non-negative: %w", apperr.ErrInvalidInput)
	}
	books, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	if book.ID == "" {
		book.ID = s.ids.NewID()
	}
	now := s.clock.Now()
	book.CreatedAt = &now
	books = append(books, book)
	if err := s.books.Save(ctx, books); err != nil {
		return nil, err
	}
	return &book, nil
}

// BookUpdate is a partial update of book details. Nil fields are
// left unchanged.
type BookUpdate struct {
	Title       *string
	Author      *string
	ISBN        *string
	Price       *float64
	Description *string
	Category    *string
}

// Update patches book details and stamps the update time.
func (s *Service) Update(ctx context.Context, id string, upd BookUpdate) (*model.Book, error) {
	books, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range books {
		if books[i].ID != id {
			continue
		}
		b := &books[i]
		if upd.Title != nil {
			b.Title = *upd.Title
		}
		if upd.Author != nil {
			b.Author = *upd.Author
		}
		if upd.ISBN != nil {
			b.ISBN = *upd.ISBN
		}
		if upd.Price != nil {
			if *upd.Price < 0 {
				return nil, fmt.Errorf("price must be non-negative: %w", apperr.ErrInvalidInput)
			}
			b.Price = *upd.Price
		}
		if upd.Description != nil {
			b.Description = *upd.Description
		}
		if upd.Category != nil {
			b.Category = *upd.Category
		}
		now := s.clock.Now()
		b.UpdatedAt = &now
		if err := s.books.Save(ctx, books); err != nil {
			return nil, err
		}
		out := *b
		return &out, nil
	}
	return nil, fmt.Errorf("book %s: %w", id, apperr.ErrBookNotFound)
}

// CheckAvailability reports whether the book exists and has at least
// qty copies in stock.
func (s *Service) CheckAvailability(ctx context.Context, id string, qty int) (bool, error) {
	books, err := s.load(ctx)
	if err != nil {
		return false, err
	}
	for i := range books {
		if books[i].ID == id {
			return books[i].Available(qty), nil
		}
	}
	return false, nil
}

// AdjustStock applies stock_quantity += delta. The adjustment is
// rejected whole if the book is missing or the result would be
// negative; a rejected adjustment mutates nothing.
func (s *Service) AdjustStock(ctx context.Context, id string, delta int) (*model.Book, error) {
	books, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range books {
		if books[i].ID != id {
			continue
		}
		b := &books[i]
		if b.StockQuantity+delta < 0 {
			return nil, fmt.Errorf("book %s: stock %d, adjustment %d: %w",
				id, b.StockQuantity, delta, apperr.ErrInsufficientStock)
		}
		b.StockQuantity += delta
		now := s.clock.Now()
		b.UpdatedAt = &now
		if err := s.books.Save(ctx, books); err != nil {
			return nil, err
		}
		s.log.Debug("stock adjusted",
			zap.String("book_id", id),
			zap.Int("delta", delta),
			zap.Int("stock", b.StockQuantity),
		)
		out := *b
		return &out, nil
	}
	return nil, fmt.Errorf("book %s: %w", id, apperr.ErrBookNotFound)
}

// Reserve decrements stock by qty in anticipation of a sale.
func (s *Service) Reserve(ctx context.Context, id string, qty int) (*model.Book, error) {
	return s.AdjustStock(ctx, id, -qty)
}

// Restore reverses a reservation, incrementing stock by qty.
func (s *Service) Restore(ctx context.Context, id string, qty int) (*model.Book, error) {
	return s.AdjustStock(ctx, id, qty)
}
