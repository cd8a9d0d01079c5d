package model

import "time"

// CirculationEvent marks which transition a log entry records.
type CirculationEvent string

const (
	EventBorrowed CirculationEvent = "borrowed"
	EventReturned CirculationEvent = "returned"
)

// CirculationLog is an append-only audit entry for a borrow or return
// transition. Entries are written asynchronously and are never part of
// the transition's transaction.
type CirculationLog struct {
	ID        uint             `json:"id" gorm:"primaryKey"`
	BorrowID  uint             `json:"borrow_id" gorm:"not null;index"`
	Event     CirculationEvent `json:"event" gorm:"type:varchar(20);not null;index"`
	Detail    string           `json:"detail,omitempty" gorm:"type:text"`
	CreatedAt time.Time        `json:"created_at"`

	// Relations
	Borrow Borrow `json:"-" gorm:"foreignKey:BorrowID"`
}
