package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/natalie-goriela/Library-API/internal/errs"
	"github.com/natalie-goriela/Library-API/internal/model"
	"github.com/natalie-goriela/Library-API/internal/repository"
	"github.com/natalie-goriela/Library-API/pkg/auth"
)

type AuthConfig struct {
	JWTKey   string        `envconfig:"JWT_KEY" required:"true"`
	TokenTTL time.Duration `envconfig:"TOKEN_TTL" default:"24h"`
}

type AuthService struct {
	log  *zap.Logger
	repo repository.UserRepository
	cfg  AuthConfig
}

func NewAuthService(repo repository.UserRepository, cfg AuthConfig, log *zap.Logger) *AuthService {
	return &AuthService{
		log:  log,
		repo: repo,
		cfg:  cfg,
	}
}

func (s *AuthService) Register(ctx context.Context, req model.UserCreateRequest) (model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return model.User{}, errors.Wrap(err, "hash password")
	}
	return s.repo.CreateUser(ctx, req.Email, string(hash))
}

func (s *AuthService) Authorize(ctx context.Context, req model.AuthRequest) (string, error) {
	user, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return "", errs.ErrBadCredentials
		}
		return "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return "", errs.ErrBadCredentials
	}

	claims := &auth.Claims{
		Profile: auth.Profile{
			UserID:  user.ID,
			Email:   user.Email,
			IsStaff: user.IsStaff,
		},
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.cfg.TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTKey))
	if err != nil {
		return "", errors.Wrap(err, "sign token")
	}
	return signed, nil
}

func (s *AuthService) Me(ctx context.Context, userID int64) (model.User, error) {
	return s.repo.GetUser(ctx, userID)
}
