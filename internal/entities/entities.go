package entities

import "time"

// User is a registered library member. The password hash is never serialized.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:100" json:"username"`
	PasswordHash string    `gorm:"size:255" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "library_users"
}

// Book is a catalog entry. The three borrow columns are null while the book
// sits on the shelf and are populated together for the duration of a loan.
type Book struct {
	ID                 uint       `gorm:"primaryKey" json:"id"`
	Title              string     `gorm:"index;size:512" json:"title"`
	Author             string     `gorm:"index;size:256" json:"author"`
	BorrowedBy         *uint      `gorm:"index" json:"borrowed_by"`
	BorrowedByUsername *string    `gorm:"size:100" json:"borrowed_by_username"`
	Expires            *time.Time `json:"expires"`
}

func (Book) TableName() string {
	return "books"
}

// Available reports whether the book can currently be borrowed.
func (b *Book) Available() bool {
	return b.BorrowedBy == nil
}
