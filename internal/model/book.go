package model

import "time"

// Book represents a single-copy catalog item. Available is driven
// exclusively by the borrow/return transitions; there is no admin
// toggle for it.
type Book struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Title     string    `json:"title" gorm:"size:200;not null;index"`
	Author    string    `json:"author" gorm:"size:200;not null"`
	Available bool      `json:"available" gorm:"not null;default:true;index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Borrows []Borrow `json:"borrows,omitempty" gorm:"foreignKey:BookID"`
}
