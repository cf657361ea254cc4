package service

import (
	"codementor_backend/internal/config"
	"codementor_backend/internal/model"
	"codementor_backend/internal/repository"
	"codementor_backend/internal/util"
	"codementor_backend/pkg/logger"
	"context"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	minUsernameLength = 3
	minPasswordLength = 6
	// bcrypt 只接受不超过 72 字节的密码
	maxPasswordBytes = 72
)

type AuthService struct {
	UserRepo *repository.UserRepository
	Tokens   TokenStore
	Cfg      *config.Config
}

// NewAuthService tokens 为空时注销只清除 cookie
func NewAuthService(userRepo *repository.UserRepository, tokens TokenStore, cfg *config.Config) *AuthService {
	return &AuthService{
		UserRepo: userRepo,
		Tokens:   tokens,
		Cfg:      cfg,
	}
}

func (s *AuthService) Register(ctx context.Context, username, password string) (*model.User, string, error) {
	username = strings.TrimSpace(username)
	if utf8.RuneCountInString(username) < minUsernameLength {
		return nil, "", &ValidationError{Field: "username", Message: "Username must be at least 3 characters"}
	}
	if len(password) < minPasswordLength {
		return nil, "", &ValidationError{Field: "password", Message: "Password must be at least 6 characters"}
	}
	if len(password) > maxPasswordBytes {
		return nil, "", &ValidationError{Field: "password", Message: "Password must be at most 72 bytes"}
	}

	existing, err := s.UserRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, "", storageErr("find user", err)
	}
	if existing != nil {
		return nil, "", util.ErrUsernameTaken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	user := &model.User{Username: username, Password: string(hashedPassword)}
	if err := s.UserRepo.Create(ctx, user); err != nil {
		return nil, "", storageErr("create user", err)
	}

	token, err := util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*model.User, string, error) {
	user, err := s.UserRepo.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, "", storageErr("find user", err)
	}
	if user == nil {
		return nil, "", util.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", util.ErrInvalidCredentials
	}

	token, err := util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Logout 在 token 剩余有效期内拉黑其 ID
func (s *AuthService) Logout(ctx context.Context, claims *util.Claims) error {
	if s.Tokens == nil || claims == nil || claims.ID == "" {
		return nil
	}
	return s.Tokens.Revoke(ctx, claims.ID, claims.TTL())
}

// Authenticate 解析 token 并检查是否已注销
func (s *AuthService) Authenticate(ctx context.Context, token string) (*util.Claims, error) {
	claims, err := util.ParseJWT(token, s.Cfg.JWT.Secret)
	if err != nil {
		return nil, err
	}

	if s.Tokens != nil && claims.ID != "" {
		revoked, err := s.Tokens.IsRevoked(ctx, claims.ID)
		if err != nil {
			// Redis 不可用时不阻断登录态
			logger.Log.Warn("Failed to check token revocation", zap.Error(err))
		} else if revoked {
			return nil, util.ErrTokenRevoked
		}
	}
	return claims, nil
}

func (s *AuthService) CurrentUser(ctx context.Context, userID uint) (*model.User, error) {
	user, err := s.UserRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, storageErr("find user", err)
	}
	if user == nil {
		return nil, util.ErrUserNotFound
	}
	return user, nil
}
