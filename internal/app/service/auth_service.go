package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/triorate/triorate-backend/config"
	"github.com/triorate/triorate-backend/internal/app/model"
	"github.com/triorate/triorate-backend/internal/app/repository"
	"github.com/triorate/triorate-backend/pkg/redis"
	"github.com/triorate/triorate-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
)

type AuthService struct {
	userRepo repository.UserRepository
	jwtCfg   config.JWTConfig
}

func NewAuthService(userRepo repository.UserRepository, jwtCfg config.JWTConfig) *AuthService {
	return &AuthService{userRepo: userRepo, jwtCfg: jwtCfg}
}

// Register creates a new account with the browse-only role. Reviewer and
// admin roles are granted out of band.
func (s *AuthService) Register(email, password, username string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if _, err := s.userRepo.FindByEmail(email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := util.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Email:        email,
		PasswordHash: hash,
		Username:     username,
		Role:         model.RoleUser,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// Login verifies credentials and issues a token pair.
func (s *AuthService) Login(email, password string) (*model.User, *util.TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("failed to load user: %w", err)
	}

	if !util.VerifyPassword(user.PasswordHash, password) {
		return nil, nil, ErrInvalidCredentials
	}

	tokens, err := util.GenerateTokenPair(
		user.ID, user.Email, string(user.Role),
		s.jwtCfg.Secret, s.jwtCfg.AccessTokenExpiry, s.jwtCfg.RefreshTokenExpiry,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate tokens: %w", err)
	}
	return user, tokens, nil
}

// Refresh exchanges a valid refresh token for a new token pair.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*util.TokenPair, error) {
	blacklisted, err := redis.IsTokenBlacklisted(ctx, refreshToken)
	if err == nil && blacklisted {
		return nil, util.ErrInvalidToken
	}

	claims, err := util.ValidateToken(refreshToken, s.jwtCfg.Secret)
	if err != nil {
		return nil, err
	}
	if claims.Subject != "refresh" {
		return nil, util.ErrInvalidToken
	}

	// re-read the user so role changes take effect on refresh
	user, err := s.userRepo.FindByID(claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	return util.GenerateTokenPair(
		user.ID, user.Email, string(user.Role),
		s.jwtCfg.Secret, s.jwtCfg.AccessTokenExpiry, s.jwtCfg.RefreshTokenExpiry,
	)
}

// Logout blacklists the presented token until its natural expiry.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	claims, err := util.ValidateToken(token, s.jwtCfg.Secret)
	if err != nil {
		// expired or malformed tokens need no blacklisting
		return nil
	}
	remaining := time.Until(claims.ExpiresAt.Time)
	if remaining <= 0 {
		return nil
	}
	return redis.BlacklistToken(ctx, token, remaining)
}

// GetUserByID loads one user.
func (s *AuthService) GetUserByID(id uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}
