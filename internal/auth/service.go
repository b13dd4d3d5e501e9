// Package auth implements registration and credential checks for library
// members.
package auth

import (
	"errors"
	"fmt"

	"github.com/autolib/autolib/internal/database/users"
	"github.com/autolib/autolib/internal/entities"
)

var (
	ErrFieldsRequired      = errors.New("all fields are required")
	ErrPasswordMismatch    = errors.New("passwords do not match")
	ErrUsernameTaken       = errors.New("username already exists")
	ErrInvalidCredentials  = errors.New("invalid username or password")
	ErrCredentialsRequired = errors.New("username and password are required")
)

// UserRepository defines the user data access the service needs.
type UserRepository interface {
	CreateUser(username, passwordHash string) (*entities.User, error)
	GetUserByUsername(username string) (*entities.User, error)
}

// Service handles registration and login.
type Service struct {
	repo       UserRepository
	bcryptCost int
}

// NewService creates a new authentication service.
func NewService(repo UserRepository, bcryptCost int) *Service {
	return &Service{repo: repo, bcryptCost: bcryptCost}
}

// Register validates the registration fields and creates the user.
func (s *Service) Register(username, password, confirmPassword string) (*entities.User, error) {
	if username == "" || password == "" || confirmPassword == "" {
		return nil, ErrFieldsRequired
	}
	if password != confirmPassword {
		return nil, ErrPasswordMismatch
	}

	hash, err := HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.repo.CreateUser(username, hash)
	if err != nil {
		if errors.Is(err, users.ErrUsernameTaken) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}

	return user, nil
}

// Authenticate validates credentials and returns the user. Unknown usernames
// and wrong passwords collapse into the same ErrInvalidCredentials.
func (s *Service) Authenticate(username, password string) (*entities.User, error) {
	if username == "" || password == "" {
		return nil, ErrCredentialsRequired
	}

	user, err := s.repo.GetUserByUsername(username)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := CheckPassword(password, user.PasswordHash); err != nil {
		if errors.Is(err, ErrInvalidPassword) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	return user, nil
}
