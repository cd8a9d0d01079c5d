package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"

	"biblio/internal/cache"
	"biblio/internal/errors"
	"biblio/internal/model"
	"biblio/internal/repository"
)

const (
	catalogCacheKey = "catalog:books"
	catalogCacheTTL = 5 * time.Minute
)

// CatalogService handles book inventory and the admin listings.
type CatalogService interface {
	ListBooks(ctx context.Context) ([]model.Book, error)
	GetBook(ctx context.Context, id uint) (*model.Book, error)
	AddBook(ctx context.Context, title, author string) (*model.Book, error)
	GetUser(ctx context.Context, id uint) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
}

type catalogService struct {
	bookRepo repository.BookRepository
	userRepo repository.UserRepository
	cache    *cache.Client
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(bookRepo repository.BookRepository, userRepo repository.UserRepository, cache *cache.Client) CatalogService {
	return &catalogService{
		bookRepo: bookRepo,
		userRepo: userRepo,
		cache:    cache,
	}
}

// ListBooks returns the whole catalog. The listing is cached; borrow,
// return and add invalidate the key.
func (s *catalogService) ListBooks(ctx context.Context) ([]model.Book, error) {
	if data, _ := s.cache.Get(ctx, catalogCacheKey); data != nil {
		var books []model.Book
		if err := json.Unmarshal(data, &books); err == nil {
			return books, nil
		}
	}

	books, err := s.bookRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}

	if payload, err := json.Marshal(books); err == nil {
		_ = s.cache.Set(ctx, catalogCacheKey, payload, catalogCacheTTL)
	}

	return books, nil
}

// GetBook returns a single catalog entry.
func (s *catalogService) GetBook(ctx context.Context, id uint) (*model.Book, error) {
	book, err := s.bookRepo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrBookNotFound
		}
		return nil, fmt.Errorf("find book: %w", err)
	}
	return book, nil
}

// AddBook inserts a new available book. Duplicate titles are allowed;
// every copy is its own catalog entry.
func (s *catalogService) AddBook(ctx context.Context, title, author string) (*model.Book, error) {
	if title == "" || author == "" {
		return nil, errors.ErrInvalidInput
	}

	book := &model.Book{
		Title:     title,
		Author:    author,
		Available: true,
	}
	if err := s.bookRepo.Create(ctx, book); err != nil {
		return nil, fmt.Errorf("create book: %w", err)
	}

	_ = s.cache.Delete(ctx, catalogCacheKey)

	return book, nil
}

// GetUser returns a single user record, for the profile section of the
// user dashboard. A session whose user row has gone missing is treated
// as invalid.
func (s *catalogService) GetUser(ctx context.Context, id uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrInvalidSession
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

// ListUsers returns every registered user for the admin dashboard.
func (s *catalogService) ListUsers(ctx context.Context) ([]model.User, error) {
	users, err := s.userRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}
