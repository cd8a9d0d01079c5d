package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"biblio/internal/auth"
	"biblio/internal/cache"
	"biblio/internal/errors"
	"biblio/internal/model"
	"biblio/internal/repository"
)

// dailyFine accrues per started day past the due date, charged at
// return time.
var dailyFine = decimal.RequireFromString("1.50")

// CirculationService handles the borrow/return lifecycle.
type CirculationService interface {
	Borrow(ctx context.Context, ident auth.Identity, bookID uint) (*model.Borrow, error)
	Return(ctx context.Context, ident auth.Identity, borrowID uint) (*model.Borrow, error)
	GetBorrow(ctx context.Context, ident auth.Identity, borrowID uint) (*model.Borrow, []model.CirculationLog, error)
	ListOpenBorrows(ctx context.Context, userID uint) ([]model.Borrow, error)
}

type circulationService struct {
	borrowRepo repository.BorrowRepository
	logRepo    repository.CirculationLogRepository
	cache      *cache.Client
	// Channel for async circulation logging
	logChannel chan model.CirculationLog
}

// NewCirculationService creates a new circulation service.
func NewCirculationService(
	borrowRepo repository.BorrowRepository,
	logRepo repository.CirculationLogRepository,
	cache *cache.Client,
) CirculationService {
	service := &circulationService{
		borrowRepo: borrowRepo,
		logRepo:    logRepo,
		cache:      cache,
		logChannel: make(chan model.CirculationLog, 100),
	}

	// Start async log worker
	go service.logWorker(context.Background())

	return service
}

// logWorker persists circulation log entries in batches.
func (s *circulationService) logWorker(ctx context.Context) {
	batch := make([]model.CirculationLog, 0, 10)
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case entry, ok := <-s.logChannel:
			if !ok {
				if len(batch) > 0 {
					_ = s.logRepo.CreateBatch(ctx, batch)
				}
				return
			}
			batch = append(batch, entry)
			if len(batch) >= 10 {
				_ = s.logRepo.CreateBatch(ctx, batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				_ = s.logRepo.CreateBatch(ctx, batch)
				batch = batch[:0]
			}
		case <-ctx.Done():
			return
		}
	}
}

// Borrow performs the borrow transition: flip the book unavailable and
// insert the open borrow as one atomic unit. The conditional flip is
// the guard against two concurrent borrows of the same copy; whichever
// request loses it gets ErrBookUnavailable.
func (s *circulationService) Borrow(ctx context.Context, ident auth.Identity, bookID uint) (*model.Borrow, error) {
	var borrow *model.Borrow

	err := s.borrowRepo.WithTransaction(ctx, func(ctx context.Context, borrows repository.BorrowRepository, books repository.BookRepository) error {
		flipped, err := books.MarkBorrowed(ctx, bookID)
		if err != nil {
			return fmt.Errorf("mark borrowed: %w", err)
		}
		if !flipped {
			// No row matched: the book is missing or already out.
			if _, err := books.FindByID(ctx, bookID); err != nil {
				if err == gorm.ErrRecordNotFound {
					return errors.ErrBookNotFound
				}
				return fmt.Errorf("find book: %w", err)
			}
			return errors.ErrBookUnavailable
		}

		now := time.Now().UTC()
		b := &model.Borrow{
			UserID:     ident.UserID,
			BookID:     bookID,
			BorrowDate: now,
			DueDate:    now.Add(model.LoanPeriod),
			Fine:       decimal.Zero,
		}
		if err := borrows.Create(ctx, b); err != nil {
			return fmt.Errorf("create borrow: %w", err)
		}
		borrow = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	_ = s.cache.Delete(ctx, catalogCacheKey)

	logrus.WithFields(logrus.Fields{
		"user_id":   ident.UserID,
		"book_id":   bookID,
		"borrow_id": borrow.ID,
	}).Info("book borrowed")
	s.logEvent(ctx, borrow.ID, model.EventBorrowed, fmt.Sprintf("user %s borrowed book %d", ident.Username, bookID))

	return borrow, nil
}

// Return performs the return transition. Only the borrow's owner or an
// admin may return it, and a borrow can be returned exactly once.
func (s *circulationService) Return(ctx context.Context, ident auth.Identity, borrowID uint) (*model.Borrow, error) {
	borrow, err := s.borrowRepo.FindByID(ctx, borrowID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrBorrowNotFound
		}
		return nil, fmt.Errorf("find borrow: %w", err)
	}

	if borrow.UserID != ident.UserID && !auth.Authorize(ident, model.RoleAdmin) {
		return nil, errors.ErrAccessDenied
	}
	if !borrow.Open() {
		return nil, errors.ErrAlreadyReturned
	}

	now := time.Now().UTC()
	fine := lateFine(borrow.DueDate, now)

	err = s.borrowRepo.WithTransaction(ctx, func(ctx context.Context, borrows repository.BorrowRepository, books repository.BookRepository) error {
		closed, err := borrows.Close(ctx, borrowID, now, fine)
		if err != nil {
			return fmt.Errorf("close borrow: %w", err)
		}
		if !closed {
			// Raced with another return of the same borrow.
			return errors.ErrAlreadyReturned
		}
		if err := books.MarkReturned(ctx, borrow.BookID); err != nil {
			return fmt.Errorf("mark returned: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	borrow.ReturnDate = &now
	borrow.Fine = fine
	if borrow.Book != nil {
		borrow.Book.Available = true
	}

	_ = s.cache.Delete(ctx, catalogCacheKey)

	logrus.WithFields(logrus.Fields{
		"user_id":   ident.UserID,
		"borrow_id": borrowID,
		"fine":      fine.String(),
	}).Info("book returned")
	s.logEvent(ctx, borrowID, model.EventReturned, fmt.Sprintf("user %s returned borrow %d", ident.Username, borrowID))

	return borrow, nil
}

// GetBorrow returns a single borrow and its circulation trail, gated
// the same way as Return.
func (s *circulationService) GetBorrow(ctx context.Context, ident auth.Identity, borrowID uint) (*model.Borrow, []model.CirculationLog, error) {
	borrow, err := s.borrowRepo.FindByID(ctx, borrowID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil, errors.ErrBorrowNotFound
		}
		return nil, nil, fmt.Errorf("find borrow: %w", err)
	}
	if borrow.UserID != ident.UserID && !auth.Authorize(ident, model.RoleAdmin) {
		return nil, nil, errors.ErrAccessDenied
	}
	history, err := s.logRepo.ListByBorrow(ctx, borrowID)
	if err != nil {
		return nil, nil, fmt.Errorf("list borrow history: %w", err)
	}
	return borrow, history, nil
}

// ListOpenBorrows lists a user's outstanding borrows.
func (s *circulationService) ListOpenBorrows(ctx context.Context, userID uint) ([]model.Borrow, error) {
	borrows, err := s.borrowRepo.ListOpenByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list open borrows: %w", err)
	}
	return borrows, nil
}

// logEvent records a circulation event asynchronously.
func (s *circulationService) logEvent(ctx context.Context, borrowID uint, event model.CirculationEvent, detail string) {
	entry := model.CirculationLog{
		BorrowID: borrowID,
		Event:    event,
		Detail:   detail,
	}

	// Send to async log channel (non-blocking)
	select {
	case s.logChannel <- entry:
	default:
		// Channel full, log synchronously as fallback
		_ = s.logRepo.Create(ctx, &entry)
	}
}

// lateFine computes the fine owed at return time. Any started day past
// the due date counts as a full day.
func lateFine(due, returned time.Time) decimal.Decimal {
	if !returned.After(due) {
		return decimal.Zero
	}
	overdue := returned.Sub(due)
	days := int64(overdue / (24 * time.Hour))
	if overdue%(24*time.Hour) > 0 {
		days++
	}
	return dailyFine.Mul(decimal.NewFromInt(days))
}
