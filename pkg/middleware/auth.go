package middleware

import (
	"context"
	"errors"
	"strings"

	"tersys/internal/authz"
	"tersys/internal/console"
	"tersys/pkg/contextkeys"
	apperrors "tersys/pkg/errors"
	"tersys/pkg/service"
	"tersys/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// SessionResolver возвращает живую сессию по её идентификатору.
type SessionResolver interface {
	Resume(ctx context.Context, sessionID string) (console.Session, error)
}

type AuthMiddleware struct {
	jwtService service.JWTService
	sessions   SessionResolver
	workspaces *console.Workspaces
	logger     *zap.Logger
}

func NewAuthMiddleware(jwtSvc service.JWTService, sessions SessionResolver, workspaces *console.Workspaces, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtSvc,
		sessions:   sessions,
		workspaces: workspaces,
		logger:     logger,
	}
}

// Auth проверяет токен и запись сессии, затем кладёт сессию и её рабочее
// пространство в контекст запроса. Токен без живой сессии не принимается.
func (m *AuthMiddleware) Auth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		tokenString, err := bearerToken(c)
		if err != nil {
			return utils.ErrorResponse(c, err, m.logger)
		}

		claims, err := m.jwtService.ValidateToken(tokenString)
		if err != nil {
			m.logger.Debug("AuthMiddleware: ошибка валидации токена", zap.Error(err))
			return utils.ErrorResponse(c, err, m.logger)
		}

		session, err := m.sessions.Resume(c.Request().Context(), claims.SessionID)
		if err != nil {
			if errors.Is(err, apperrors.ErrSessionNotFound) {
				// запись сессии истекла в redis: пространство больше не нужно
				m.workspaces.Drop(claims.SessionID)
			}
			return utils.ErrorResponse(c, err, m.logger)
		}
		if session.Username != claims.Username {
			m.logger.Warn("AuthMiddleware: токен не соответствует сессии", zap.String("session_id", claims.SessionID))
			return utils.ErrorResponse(c, apperrors.ErrInvalidToken, m.logger)
		}

		ws := m.workspaces.Get(session)
		ctx := context.WithValue(c.Request().Context(), contextkeys.SessionKey, session)
		ctx = context.WithValue(ctx, contextkeys.WorkspaceKey, ws)
		c.SetRequest(c.Request().WithContext(ctx))

		return next(c)
	}
}

// bearerToken берёт токен из заголовка Authorization или, для websocket, из ?token=.
func bearerToken(c echo.Context) (string, error) {
	authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
	if authHeader == "" {
		if token := c.QueryParam("token"); token != "" {
			return token, nil
		}
		return "", apperrors.ErrEmptyAuthHeader
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", apperrors.ErrInvalidAuthHeader
	}
	return parts[1], nil
}

// RequireScreen пропускает запрос, только если роль сессии имеет доступ к экрану.
// Используется для маршрутов, которые работают без монтирования экрана (выгрузки, история).
func RequireScreen(gate *authz.Gatekeeper, screen authz.ScreenID, logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			session, err := utils.GetSessionFromCtx(c.Request().Context())
			if err != nil {
				return utils.ErrorResponse(c, err, logger)
			}
			if !gate.Can(session.Role, screen) {
				return utils.ErrorResponse(c, apperrors.ErrForbidden, logger)
			}
			return next(c)
		}
	}
}
