package auth

import (
	"context"
	"strings"

	"github.com/charleyoshi/stock-trading-simulator/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// StartingCash is credited to every new account at registration.
var StartingCash = decimal.NewFromInt(10000)

// Service is the credential store: registration and password verification
// over the users table. Plaintext passwords are never stored.
type Service struct {
	DB *gorm.DB
}

// RegisterInput for account creation.
type RegisterInput struct {
	Username     string `json:"username"`
	Password     string `json:"password"`
	Confirmation string `json:"confirmation"`
}

// LoginInput for authentication.
type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register validates the input, hashes the password and creates the user with
// the starting cash balance. Usernames are lowercased, so uniqueness is
// case-insensitive.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	username := strings.ToLower(strings.TrimSpace(in.Username))
	if username == "" {
		return nil, ErrUsernameRequired
	}
	if in.Password == "" {
		return nil, ErrPasswordRequired
	}
	if in.Confirmation == "" {
		return nil, ErrConfirmationRequired
	}
	if in.Password != in.Confirmation {
		return nil, ErrPasswordMismatch
	}

	var existing models.User
	if err := s.DB.WithContext(ctx).Where("username = ?", username).First(&existing).Error; err == nil {
		return nil, ErrUsernameTaken
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), 10)
	if err != nil {
		return nil, err
	}

	u := &models.User{
		Username: username,
		Hash:     string(hash),
		Cash:     StartingCash,
	}
	if err := s.DB.WithContext(ctx).Create(u).Error; err != nil {
		return nil, err
	}
	return u, nil
}

// Login finds the user by (lowercased) username and verifies the password.
// Unknown username and wrong password collapse into one error so the response
// doesn't reveal which usernames exist.
func (s *Service) Login(ctx context.Context, in LoginInput) (*models.User, error) {
	username := strings.ToLower(strings.TrimSpace(in.Username))
	if username == "" {
		return nil, ErrUsernameRequired
	}
	if in.Password == "" {
		return nil, ErrPasswordRequired
	}

	var u models.User
	if err := s.DB.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(in.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &u, nil
}
