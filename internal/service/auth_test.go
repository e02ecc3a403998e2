package service

import (
	"context"
	"testing"

	"flowcart/internal/config"
	"flowcart/internal/dto"
	"flowcart/internal/model"
	"flowcart/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newAuthService(t *testing.T) AuthService {
	t.Helper()
	db := newTestDB(t)
	return NewAuthService(repository.NewUserRepository(db), config.JWT{
		Secret:        "test-secret",
		ExpiryMinutes: 30,
	})
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, &dto.RegisterRequest{
		Email:    "buyer@example.com",
		Password: "correct horse",
	})
	require.NoError(t, err)
	assert.Equal(t, "buyer@example.com", user.Email)
	assert.False(t, user.IsAdmin)

	token, err := svc.Login(ctx, &dto.LoginRequest{
		Email:    "buyer@example.com",
		Password: "correct horse",
	})
	require.NoError(t, err)
	assert.Equal(t, 1800, token.ExpiresIn)

	parsed, err := jwt.Parse(token.AccessToken, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, user.ID, claims["sub"])
	assert.Equal(t, false, claims["admin"])
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	req := &dto.RegisterRequest{Email: "buyer@example.com", Password: "correct horse"}
	_, err := svc.Register(ctx, req)
	require.NoError(t, err)

	_, err = svc.Register(ctx, req)
	assert.ErrorIs(t, err, ErrEmailTaken)
}

// blindEmailRepo hides existing rows from the pre-check, so Register can
// only learn about a duplicate from the unique index on create.
type blindEmailRepo struct {
	repository.UserRepository
}

func (blindEmailRepo) FindByEmail(context.Context, string) (*model.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func TestRegister_DuplicateEmailRace(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(blindEmailRepo{repository.NewUserRepository(db)}, config.JWT{
		Secret:        "test-secret",
		ExpiryMinutes: 30,
	})
	ctx := context.Background()

	req := &dto.RegisterRequest{Email: "buyer@example.com", Password: "correct horse"}
	_, err := svc.Register(ctx, req)
	require.NoError(t, err)

	_, err = svc.Register(ctx, req)
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, &dto.RegisterRequest{Email: "buyer@example.com", Password: "correct horse"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "buyer@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "nobody@example.com", Password: "correct horse"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
