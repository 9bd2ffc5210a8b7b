package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"tersys/internal/console"
	"tersys/internal/dto"
	"tersys/internal/repositories"
	"tersys/pkg/config"
	apperrors "tersys/pkg/errors"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	msgInvalidCredentials = "Usuário ou senha inválidos."
	msgEmptyCredentials   = "Preencha usuário e senha."
	msgTooManyAttempts    = "Muitas tentativas. Tente novamente em %d minutos."
)

// Хеш для сравнения, когда пользователь не найден: время ответа не выдаёт существование логина.
const dummyPasswordHash = "$2a$10$7EqJtq98hPqEX7fNZaFWoOhi5BWX4Z3zQbLZ3m6b1Pqz9y4n7yY1e"

type AuthServiceInterface interface {
	Login(ctx context.Context, payload dto.LoginDTO) (console.Session, error)
	Resume(ctx context.Context, sessionID string) (console.Session, error)
	Logout(ctx context.Context, sessionID string) error
}

type AuthService struct {
	userRepo    repositories.UserRepositoryInterface
	sessionRepo repositories.SessionRepositoryInterface
	cacheRepo   repositories.CacheRepositoryInterface
	clock       clock.Clock
	logger      *zap.Logger
	cfg         *config.AuthConfig
}

func NewAuthService(
	userRepo repositories.UserRepositoryInterface,
	sessionRepo repositories.SessionRepositoryInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	clk clock.Clock,
	logger *zap.Logger,
	cfg *config.AuthConfig,
) AuthServiceInterface {
	return &AuthService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		cacheRepo:   cacheRepo,
		clock:       clk,
		logger:      logger,
		cfg:         cfg,
	}
}

func (s *AuthService) Login(ctx context.Context, payload dto.LoginDTO) (console.Session, error) {
	username := strings.TrimSpace(payload.Username)
	if username == "" || payload.Password == "" {
		return console.Session{}, apperrors.NewValidationError(msgEmptyCredentials, msgEmptyCredentials)
	}
	logger := s.logger.With(zap.String("username", username))

	attemptsKey := fmt.Sprintf("login_attempts:%s", strings.ToLower(username))
	if err := s.checkLockout(ctx, attemptsKey); err != nil {
		logger.Warn("Вход заблокирован после неудачных попыток")
		return console.Session{}, err
	}

	user, err := s.userRepo.FindUserByUsername(ctx, username)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return console.Session{}, err
	}

	hash := dummyPasswordHash
	if user != nil {
		hash = user.PasswordHash
	}
	// сравнение выполняется и для неизвестного пользователя, чтобы время ответа не различалось
	matched := passwordMatches(hash, payload.Password)
	if user == nil || !matched {
		s.registerFailure(ctx, attemptsKey)
		logger.Info("Неудачная попытка входа")
		return console.Session{}, apperrors.NewHttpError(http.StatusUnauthorized, msgInvalidCredentials, apperrors.ErrInvalidCredentials, nil)
	}

	if err := s.cacheRepo.Del(ctx, attemptsKey); err != nil {
		logger.Warn("Не удалось сбросить счётчик попыток", zap.Error(err))
	}

	session := console.Session{
		ID:        uuid.NewString(),
		Username:  user.Username,
		Role:      user.Role,
		CreatedAt: s.clock.Now(),
	}
	if err := s.sessionRepo.Save(ctx, session, s.cfg.SessionTTL); err != nil {
		return console.Session{}, fmt.Errorf("не удалось сохранить сессию: %w", err)
	}

	logger.Info("Пользователь вошёл в систему", zap.String("role", session.Role.String()))
	return session, nil
}

func (s *AuthService) Resume(ctx context.Context, sessionID string) (console.Session, error) {
	return s.sessionRepo.Find(ctx, sessionID)
}

func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	return s.sessionRepo.Delete(ctx, sessionID)
}

func (s *AuthService) checkLockout(ctx context.Context, key string) error {
	if s.cfg.MaxLoginAttempts <= 0 {
		return nil
	}
	raw, err := s.cacheRepo.Get(ctx, key)
	if err != nil {
		return nil
	}
	attempts, _ := strconv.Atoi(raw)
	if attempts < s.cfg.MaxLoginAttempts {
		return nil
	}

	remaining, err := s.cacheRepo.TTL(ctx, key)
	if err != nil || remaining <= 0 {
		remaining = s.cfg.LockoutDuration
	}
	minutes := int(math.Ceil(remaining.Minutes()))
	if minutes < 1 {
		minutes = 1
	}
	return apperrors.NewHttpError(http.StatusTooManyRequests, fmt.Sprintf(msgTooManyAttempts, minutes), apperrors.ErrUnauthorized, nil)
}

func (s *AuthService) registerFailure(ctx context.Context, key string) {
	attempts, err := s.cacheRepo.Incr(ctx, key)
	if err != nil {
		s.logger.Warn("Не удалось увеличить счётчик попыток", zap.Error(err))
		return
	}
	if attempts == 1 {
		if _, err := s.cacheRepo.Expire(ctx, key, s.cfg.LockoutDuration); err != nil {
			s.logger.Warn("Не удалось установить TTL счётчика попыток", zap.Error(err))
		}
	}
}
