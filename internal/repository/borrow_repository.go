package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"biblio/internal/model"
)

// BorrowRepository defines borrow persistence operations. The borrow
// and return transitions touch both the borrows and books tables, so
// WithTransaction hands the callback a transaction-bound view of each.
type BorrowRepository interface {
	Create(ctx context.Context, borrow *model.Borrow) error
	FindByID(ctx context.Context, id uint) (*model.Borrow, error)
	ListOpenByUser(ctx context.Context, userID uint) ([]model.Borrow, error)
	// Close sets the return date and fine only if the borrow is still
	// open. It reports whether a row was changed; false means the
	// borrow was already returned.
	Close(ctx context.Context, id uint, returnDate time.Time, fine decimal.Decimal) (bool, error)
	// Transaction methods
	WithTransaction(ctx context.Context, fn func(ctx context.Context, borrows BorrowRepository, books BookRepository) error) error
}

type borrowRepository struct {
	db *gorm.DB
}

// NewBorrowRepository creates a new borrow repository.
func NewBorrowRepository(db *gorm.DB) BorrowRepository {
	return &borrowRepository{db: db}
}

// Create creates a new borrow record.
func (r *borrowRepository) Create(ctx context.Context, borrow *model.Borrow) error {
	return r.db.WithContext(ctx).Create(borrow).Error
}

// FindByID finds a borrow by ID with its book preloaded.
func (r *borrowRepository) FindByID(ctx context.Context, id uint) (*model.Borrow, error) {
	var borrow model.Borrow
	if err := r.db.WithContext(ctx).Preload("Book").Where("id = ?", id).First(&borrow).Error; err != nil {
		return nil, err
	}
	return &borrow, nil
}

// ListOpenByUser lists a user's outstanding borrows, oldest first.
func (r *borrowRepository) ListOpenByUser(ctx context.Context, userID uint) ([]model.Borrow, error) {
	var borrows []model.Borrow
	if err := r.db.WithContext(ctx).Preload("Book").
		Where("user_id = ? AND return_date IS NULL", userID).
		Order("borrow_date").Find(&borrows).Error; err != nil {
		return nil, err
	}
	return borrows, nil
}

// Close marks a borrow returned. The predicate on return_date keeps a
// second return from overwriting the timestamp.
func (r *borrowRepository) Close(ctx context.Context, id uint, returnDate time.Time, fine decimal.Decimal) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Borrow{}).
		Where("id = ? AND return_date IS NULL", id).
		Updates(map[string]interface{}{
			"return_date": returnDate,
			"fine":        fine,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// WithTransaction executes a function within a database transaction,
// exposing borrow and book repositories bound to the same transaction.
func (r *borrowRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, borrows BorrowRepository, books BookRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, &borrowRepository{db: tx}, &bookRepository{db: tx})
	})
}
