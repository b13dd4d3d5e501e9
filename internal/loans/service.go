// Package loans drives the borrow/renew/return lifecycle.
//
// Expiry instants are computed from UTC and rendered in a fixed IANA zone so
// the borrow window never depends on the host locale.
package loans

import (
	"errors"
	"fmt"
	"time"

	"github.com/autolib/autolib/internal/database/books"
	"github.com/autolib/autolib/internal/database/users"
	"github.com/autolib/autolib/internal/entities"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrBookNotFound      = books.ErrBookNotFound
	ErrBookUnavailable   = books.ErrBookUnavailable
	ErrNotBorrowedByUser = books.ErrNotBorrowedByUser
)

// BookRepository defines the book data access the service needs.
type BookRepository interface {
	Borrow(bookID, userID uint, username string, expires time.Time) error
	Renew(bookID, userID uint, expires time.Time) error
	Return(bookID uint) error
}

// UserRepository defines the user data access the service needs.
type UserRepository interface {
	GetUserByID(id uint) (*entities.User, error)
}

// Loan describes an active borrow.
type Loan struct {
	BookID             uint      `json:"book_id"`
	BorrowedBy         uint      `json:"borrowed_by"`
	BorrowedByUsername string    `json:"borrowed_by_username"`
	Expires            time.Time `json:"expires"`
}

// Service orchestrates loan operations against the repositories.
type Service struct {
	books    BookRepository
	users    UserRepository
	period   time.Duration
	location *time.Location

	// now is swappable in tests.
	now func() time.Time
}

// NewService creates a loan service. periodDays is the borrow window length
// and timezone the IANA zone expiry instants are rendered in.
func NewService(bookRepo BookRepository, userRepo UserRepository, periodDays int, timezone string) (*Service, error) {
	location, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load loan timezone %q: %w", timezone, err)
	}

	return &Service{
		books:    bookRepo,
		users:    userRepo,
		period:   time.Duration(periodDays) * 24 * time.Hour,
		location: location,
		now:      time.Now,
	}, nil
}

// Expiry computes the loan deadline: now plus the borrow window, rendered in
// the configured zone.
func (s *Service) Expiry() time.Time {
	return s.now().UTC().Add(s.period).In(s.location)
}

// Borrow places the book on loan to the user. The user lookup is guarded: a
// missing borrower is ErrUserNotFound, and the book update itself only
// applies while the book is available.
func (s *Service) Borrow(bookID, userID uint) (*Loan, error) {
	user, err := s.users.GetUserByID(userID)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to look up borrower: %w", err)
	}

	expires := s.Expiry()
	if err := s.books.Borrow(bookID, userID, user.Username, expires); err != nil {
		return nil, err
	}

	return &Loan{
		BookID:             bookID,
		BorrowedBy:         userID,
		BorrowedByUsername: user.Username,
		Expires:            expires,
	}, nil
}

// Renew extends the loan held by userID and returns the new expiry.
func (s *Service) Renew(bookID, userID uint) (time.Time, error) {
	expires := s.Expiry()
	if err := s.books.Renew(bookID, userID, expires); err != nil {
		return time.Time{}, err
	}
	return expires, nil
}

// Return clears the loan for the book regardless of who holds it.
func (s *Service) Return(bookID uint) error {
	return s.books.Return(bookID)
}
