package controllers

import (
	"net/http"

	"tersys/internal/dto"
	"tersys/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ConsoleController обслуживает общие элементы консоли, модалку подтверждения и тост.
type ConsoleController struct {
	logger *zap.Logger
}

func NewConsoleController(logger *zap.Logger) *ConsoleController {
	return &ConsoleController{logger: logger}
}

func (c *ConsoleController) GetModal(ctx echo.Context) error {
	ws, err := utils.GetWorkspaceFromCtx(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	modal, ok := ws.PendingModal()
	if !ok {
		return utils.SuccessResponse(ctx, nil, "OK", http.StatusOK)
	}
	return utils.SuccessResponse(ctx, dto.ModalDTO{Message: modal.Message}, "OK", http.StatusOK)
}

func (c *ConsoleController) ConfirmModal(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	ws, err := utils.GetWorkspaceFromCtx(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := ws.ConfirmModal(reqCtx); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "OK", http.StatusOK)
}

func (c *ConsoleController) CancelModal(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	ws, err := utils.GetWorkspaceFromCtx(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := ws.CancelModal(reqCtx); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "OK", http.StatusOK)
}

func (c *ConsoleController) GetToast(ctx echo.Context) error {
	ws, err := utils.GetWorkspaceFromCtx(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	toast, visible := ws.Toast.Current()
	if !visible {
		return utils.SuccessResponse(ctx, nil, "OK", http.StatusOK)
	}
	return utils.SuccessResponse(ctx, toast, "OK", http.StatusOK)
}

func (c *ConsoleController) CloseToast(ctx echo.Context) error {
	ws, err := utils.GetWorkspaceFromCtx(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	ws.Toast.Close()
	return ctx.NoContent(http.StatusNoContent)
}
