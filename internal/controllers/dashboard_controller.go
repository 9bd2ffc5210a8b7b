package controllers

import (
	"net/http"

	"tersys/internal/authz"
	"tersys/internal/console"
	"tersys/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type DashboardController struct {
	logger *zap.Logger
}

func NewDashboardController(logger *zap.Logger) *DashboardController {
	return &DashboardController{logger: logger}
}

// GetDashboard всегда перечитывает счётчики: данные могли измениться на других экранах.
func (c *DashboardController) GetDashboard(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	ws, err := utils.GetWorkspaceFromCtx(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	current, _ := ws.Current()
	fresh := current != authz.ScreenDashboard

	dash, err := console.Open[*console.Dashboard](reqCtx, ws, authz.ScreenDashboard)
	if dash == nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err == nil && !fresh {
		err = dash.Load(reqCtx)
	}
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger, dash.View())
	}
	return utils.SuccessResponse(ctx, dash.View(), "OK", http.StatusOK)
}
