// Package books provides database operations for the lending catalog.
//
// The three mutating operations (Borrow, Renew, Return) are each a single
// conditional UPDATE; the WHERE clause is the only concurrency control, so
// none of them may be split into a read followed by a write.
//
// # Usage
//
//	repo := books.NewRepository(db)
//	err := repo.Borrow(bookID, userID, username, expires)
package books

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/autolib/autolib/internal/entities"
)

var (
	ErrBookNotFound = errors.New("book does not exist")

	// ErrBookUnavailable covers both a missing row and one that already
	// carries a borrower; a single conditional update cannot tell them apart.
	ErrBookUnavailable = errors.New("book is already borrowed or does not exist")

	ErrNotBorrowedByUser = errors.New("book is not borrowed by the user or does not exist")
)

// Repository handles all book database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetAllBooks retrieves the full catalog.
func (r *Repository) GetAllBooks() ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.Order("id ASC").Find(&books).Error
	return books, err
}

// GetBooksBorrowedBy retrieves the books currently on loan to a user.
func (r *Repository) GetBooksBorrowedBy(userID uint) ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.Where("borrowed_by = ?", userID).Order("id ASC").Find(&books).Error
	return books, err
}

// GetBookByID retrieves a single book.
func (r *Repository) GetBookByID(id uint) (*entities.Book, error) {
	var book entities.Book
	err := r.db.First(&book, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}
	return &book, nil
}

// Borrow places the book on loan to the user. The update only applies while
// borrowed_by is NULL, so of two concurrent borrowers exactly one wins.
func (r *Repository) Borrow(bookID, userID uint, username string, expires time.Time) error {
	result := r.db.Model(&entities.Book{}).
		Where("id = ? AND borrowed_by IS NULL", bookID).
		Updates(map[string]any{
			"borrowed_by":          userID,
			"borrowed_by_username": username,
			"expires":              expires,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBookUnavailable
	}
	return nil
}

// Renew extends the loan. The update only applies while the requesting user
// is the current borrower.
func (r *Repository) Renew(bookID, userID uint, expires time.Time) error {
	result := r.db.Model(&entities.Book{}).
		Where("id = ? AND borrowed_by = ?", bookID, userID).
		Update("expires", expires)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotBorrowedByUser
	}
	return nil
}

// Return clears the borrow columns unconditionally. Returning an already
// available book re-applies the defaults and still succeeds; only a missing
// row is an error.
func (r *Repository) Return(bookID uint) error {
	result := r.db.Model(&entities.Book{}).
		Where("id = ?", bookID).
		Updates(map[string]any{
			"borrowed_by":          nil,
			"borrowed_by_username": nil,
			"expires":              nil,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBookNotFound
	}
	return nil
}

// GetOverdueBooks retrieves borrowed books whose loan expired before asOf.
func (r *Repository) GetOverdueBooks(asOf time.Time) ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.
		Where("borrowed_by IS NOT NULL AND expires < ?", asOf).
		Order("expires ASC").
		Find(&books).Error
	return books, err
}

// CreateBook adds a catalog entry. There is no HTTP surface for this; it
// exists for the seed-books command and tests.
func (r *Repository) CreateBook(title, author string) (*entities.Book, error) {
	book := &entities.Book{Title: title, Author: author}
	if err := r.db.Create(book).Error; err != nil {
		return nil, err
	}
	return book, nil
}
