package controllers

import (
	"net/http"

	"tersys/internal/authz"
	"tersys/internal/console"
	"tersys/internal/dto"
	"tersys/internal/services"
	apperrors "tersys/pkg/errors"
	"tersys/pkg/service"
	"tersys/pkg/utils"
	appwebsocket "tersys/pkg/websocket"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const msgLoggedOut = "Você foi desconectado."

// SessionChannel: push-канал сессии (websocket hub).
type SessionChannel interface {
	SendToSession(sessionID, messageType string, payload interface{}) error
	DisconnectSession(sessionID string)
}

type AuthController struct {
	authService services.AuthServiceInterface
	jwtService  service.JWTService
	workspaces  *console.Workspaces
	channel     SessionChannel
	logger      *zap.Logger
}

func NewAuthController(
	authService services.AuthServiceInterface,
	jwtService service.JWTService,
	workspaces *console.Workspaces,
	channel SessionChannel,
	logger *zap.Logger,
) *AuthController {
	return &AuthController{
		authService: authService,
		jwtService:  jwtService,
		workspaces:  workspaces,
		channel:     channel,
		logger:      logger,
	}
}

func (c *AuthController) Login(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	var payload dto.LoginDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("Formato de dados inválido."), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	session, err := c.authService.Login(reqCtx, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	token, expiresAt, err := c.jwtService.GenerateToken(session.ID, session.Username, session.Role.String())
	if err != nil {
		c.logger.Error("Не удалось подписать токен", zap.String("username", session.Username), zap.Error(err))
		_ = c.authService.Logout(reqCtx, session.ID)
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	// После входа консоль открывается на дашборде.
	ws := c.workspaces.Get(session)
	if _, err := ws.Navigate(reqCtx, authz.ScreenDashboard); err != nil {
		c.logger.Warn("Дашборд не загрузился после входа", zap.String("username", session.Username), zap.Error(err))
	}

	res := dto.SessionDTO{
		Token:     token,
		ExpiresAt: expiresAt,
		Username:  session.Username,
		Role:      session.Role,
	}
	return utils.SuccessResponse(ctx, res, "Login realizado com sucesso.", http.StatusOK)
}

func (c *AuthController) Session(ctx echo.Context) error {
	session, err := utils.GetSessionFromCtx(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	res := dto.SessionDTO{Username: session.Username, Role: session.Role}
	return utils.SuccessResponse(ctx, res, "OK", http.StatusOK)
}

func (c *AuthController) Logout(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	session, err := utils.GetSessionFromCtx(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	if err := c.authService.Logout(reqCtx, session.ID); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	// Рабочее пространство удаляется вместе с сессией, поэтому тост уходит напрямую в канал.
	_ = c.channel.SendToSession(session.ID, appwebsocket.MessageTypeToast, appwebsocket.ToastPayload{
		Message: msgLoggedOut,
		Kind:    string(console.ToastSuccess),
		Visible: true,
	})
	c.workspaces.Drop(session.ID)
	c.channel.DisconnectSession(session.ID)

	c.logger.Info("Пользователь вышел из системы", zap.String("username", session.Username))
	return utils.SuccessResponse(ctx, nil, msgLoggedOut, http.StatusOK)
}
