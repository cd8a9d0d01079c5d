package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// LoanPeriod is how long a borrowed book may be kept before a fine
// starts accruing.
const LoanPeriod = 14 * 24 * time.Hour

// Borrow represents a circulation event. A nil ReturnDate means the
// loan is still outstanding; once set it is never unset. Fine is zero
// until the return and is written in the same mutation that sets
// ReturnDate.
type Borrow struct {
	ID         uint            `json:"id" gorm:"primaryKey"`
	UserID     uint            `json:"user_id" gorm:"not null;index"`
	BookID     uint            `json:"book_id" gorm:"not null;index"`
	BorrowDate time.Time       `json:"borrow_date" gorm:"not null"`
	DueDate    time.Time       `json:"due_date" gorm:"not null"`
	ReturnDate *time.Time      `json:"return_date"`
	Fine       decimal.Decimal `json:"fine" gorm:"type:decimal(10,2);not null;default:0"`

	// Relations
	User User `json:"-" gorm:"foreignKey:UserID"`
	Book *Book `json:"book,omitempty" gorm:"foreignKey:BookID"`
}

// Open reports whether the loan is still outstanding.
func (b *Borrow) Open() bool {
	return b.ReturnDate == nil
}
