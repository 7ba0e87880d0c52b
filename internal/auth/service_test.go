package auth

import (
	"context"
	"testing"

	"github.com/charleyoshi/stock-trading-simulator/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func setupAuthService(t *testing.T) *Service {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Transaction{}))
	return &Service{DB: db}
}

func TestRegister_Success(t *testing.T) {
	s := setupAuthService(t)

	u, err := s.Register(context.Background(), RegisterInput{
		Username:     "Alice",
		Password:     "hunter22",
		Confirmation: "hunter22",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username, "username is stored lowercase")
	assert.True(t, u.Cash.Equal(decimal.NewFromInt(10000)), "starting cash is 10000, got %s", u.Cash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte("hunter22")))
	assert.NotContains(t, u.Hash, "hunter22", "plaintext never stored")
}

func TestRegister_MissingFields(t *testing.T) {
	s := setupAuthService(t)
	ctx := context.Background()

	_, err := s.Register(ctx, RegisterInput{Password: "x", Confirmation: "x"})
	assert.Equal(t, ErrUsernameRequired, err)

	_, err = s.Register(ctx, RegisterInput{Username: "bob", Confirmation: "x"})
	assert.Equal(t, ErrPasswordRequired, err)

	_, err = s.Register(ctx, RegisterInput{Username: "bob", Password: "x"})
	assert.Equal(t, ErrConfirmationRequired, err)
}

func TestRegister_PasswordMismatch_NoRowCreated(t *testing.T) {
	s := setupAuthService(t)

	_, err := s.Register(context.Background(), RegisterInput{
		Username:     "bob",
		Password:     "a",
		Confirmation: "b",
	})
	assert.Equal(t, ErrPasswordMismatch, err)

	var count int64
	s.DB.Model(&models.User{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestRegister_DuplicateUsernameCaseInsensitive(t *testing.T) {
	s := setupAuthService(t)
	ctx := context.Background()

	_, err := s.Register(ctx, RegisterInput{Username: "carol", Password: "pw", Confirmation: "pw"})
	require.NoError(t, err)

	_, err = s.Register(ctx, RegisterInput{Username: "CAROL", Password: "pw", Confirmation: "pw"})
	assert.Equal(t, ErrUsernameTaken, err)

	var count int64
	s.DB.Model(&models.User{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestLogin_Success(t *testing.T) {
	s := setupAuthService(t)
	ctx := context.Background()

	_, err := s.Register(ctx, RegisterInput{Username: "dave", Password: "secret", Confirmation: "secret"})
	require.NoError(t, err)

	u, err := s.Login(ctx, LoginInput{Username: "DAVE", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "dave", u.Username)
}

func TestLogin_WrongPassword(t *testing.T) {
	s := setupAuthService(t)
	ctx := context.Background()

	_, err := s.Register(ctx, RegisterInput{Username: "erin", Password: "secret", Confirmation: "secret"})
	require.NoError(t, err)

	_, err = s.Login(ctx, LoginInput{Username: "erin", Password: "wrong"})
	assert.Equal(t, ErrInvalidCredentials, err)
}

func TestLogin_UnknownUsername(t *testing.T) {
	s := setupAuthService(t)

	_, err := s.Login(context.Background(), LoginInput{Username: "ghost", Password: "any"})
	assert.Equal(t, ErrInvalidCredentials, err)
}
