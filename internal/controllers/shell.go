package controllers

import (
	"net/http"

	"tersys/internal/authz"
	"tersys/internal/dto"
	"tersys/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type ShellController struct {
	logger *zap.Logger
}

func NewShellController(logger *zap.Logger) *ShellController {
	return &ShellController{logger: logger}
}

func (c *ShellController) GetShell(ctx echo.Context) error {
	ws, err := utils.GetWorkspaceFromCtx(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	current, _ := ws.Current()
	res := dto.ShellDTO{
		Username: ws.Session.Username,
		Role:     ws.Session.Role,
		Menu:     ws.Menu(),
		Current:  current,
	}
	return utils.SuccessResponse(ctx, res, "OK", http.StatusOK)
}

// Navigate монтирует экран. Роль проверяется заново, идентификатор из запроса не доверенный.
func (c *ShellController) Navigate(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	ws, err := utils.GetWorkspaceFromCtx(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	screen := authz.ScreenID(ctx.Param("screen"))
	page, err := ws.Navigate(reqCtx, screen)
	if page == nil {
		if err != nil {
			c.logger.Warn("Отказ в открытии экрана",
				zap.String("username", ws.Session.Username),
				zap.String("screen", string(screen)),
				zap.Error(err),
			)
		}
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res := dto.ShellDTO{
		Username: ws.Session.Username,
		Role:     ws.Session.Role,
		Menu:     ws.Menu(),
		Current:  page.ScreenID(),
	}
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger, res)
	}
	return utils.SuccessResponse(ctx, res, "OK", http.StatusOK)
}
