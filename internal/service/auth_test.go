package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/natalie-goriela/Library-API/internal/errs"
	"github.com/natalie-goriela/Library-API/internal/model"
	repository_mocks "github.com/natalie-goriela/Library-API/internal/repository/mocks"
	"github.com/natalie-goriela/Library-API/internal/service"
	"github.com/natalie-goriela/Library-API/pkg/auth"
)

const testJWTKey = "test-signing-key"

func newAuthService(repo *repository_mocks.MockUserRepository) *service.AuthService {
	return service.NewAuthService(repo, service.AuthConfig{
		JWTKey:   testJWTKey,
		TokenTTL: time.Hour,
	}, zap.NewExample().Named("test"))
}

func TestAuthService_Register(t *testing.T) {
	t.Parallel()
	c := gomock.NewController(t)
	defer c.Finish()
	repo := repository_mocks.NewMockUserRepository(c)
	repo.EXPECT().
		CreateUser(context.Background(), "reader@example.com", gomock.Any()).
		DoAndReturn(func(_ context.Context, email, hash string) (model.User, error) {
			require.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3cret")))
			return model.User{ID: 7, Email: email}, nil
		})

	user, err := newAuthService(repo).Register(context.Background(), model.UserCreateRequest{
		Email:    "reader@example.com",
		Password: "s3cret",
	})
	require.NoError(t, err)
	require.Equal(t, int64(7), user.ID)
}

func TestAuthService_Authorize(t *testing.T) {
	t.Parallel()

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	stored := model.User{
		ID:           7,
		Email:        "reader@example.com",
		PasswordHash: string(hash),
		IsStaff:      true,
	}

	t.Run("issues a verifiable token", func(t *testing.T) {
		t.Parallel()
		c := gomock.NewController(t)
		defer c.Finish()
		repo := repository_mocks.NewMockUserRepository(c)
		repo.EXPECT().
			GetUserByEmail(context.Background(), stored.Email).
			Return(stored, nil)

		signed, err := newAuthService(repo).Authorize(context.Background(), model.AuthRequest{
			Email:    stored.Email,
			Password: "s3cret",
		})
		require.NoError(t, err)

		claims := &auth.Claims{}
		_, err = jwt.ParseWithClaims(signed, claims, func(*jwt.Token) (interface{}, error) {
			return []byte(testJWTKey), nil
		})
		require.NoError(t, err)
		require.Equal(t, stored.ID, claims.Profile.UserID)
		require.Equal(t, stored.Email, claims.Profile.Email)
		require.True(t, claims.Profile.IsStaff)
	})

	t.Run("wrong password", func(t *testing.T) {
		t.Parallel()
		c := gomock.NewController(t)
		defer c.Finish()
		repo := repository_mocks.NewMockUserRepository(c)
		repo.EXPECT().
			GetUserByEmail(context.Background(), stored.Email).
			Return(stored, nil)

		_, err := newAuthService(repo).Authorize(context.Background(), model.AuthRequest{
			Email:    stored.Email,
			Password: "wrong",
		})
		require.ErrorIs(t, err, errs.ErrBadCredentials)
	})

	t.Run("unknown email maps to bad credentials", func(t *testing.T) {
		t.Parallel()
		c := gomock.NewController(t)
		defer c.Finish()
		repo := repository_mocks.NewMockUserRepository(c)
		repo.EXPECT().
			GetUserByEmail(context.Background(), "missing@example.com").
			Return(model.User{}, errs.ErrNotFound)

		_, err := newAuthService(repo).Authorize(context.Background(), model.AuthRequest{
			Email:    "missing@example.com",
			Password: "s3cret",
		})
		require.ErrorIs(t, err, errs.ErrBadCredentials)
	})
}
