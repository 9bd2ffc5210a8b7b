package controllers

import (
	"net/http"

	"tersys/internal/authz"
	"tersys/internal/console"
	"tersys/internal/dto"
	apperrors "tersys/pkg/errors"
	"tersys/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// AssignController обслуживает экраны распределения (терцеиризованные, перевод оборудования).
type AssignController[T console.Assignable] struct {
	screen authz.ScreenID
	logger *zap.Logger
}

func NewAssignController[T console.Assignable](screen authz.ScreenID, logger *zap.Logger) *AssignController[T] {
	return &AssignController[T]{screen: screen, logger: logger}
}

func (c *AssignController[T]) open(ctx echo.Context) (*console.Assigner[T], error) {
	reqCtx := ctx.Request().Context()
	ws, err := utils.GetWorkspaceFromCtx(reqCtx)
	if err != nil {
		return nil, err
	}
	return console.Open[*console.Assigner[T]](reqCtx, ws, c.screen)
}

func (c *AssignController[T]) respond(ctx echo.Context, page *console.Assigner[T], err error, message string) error {
	if err != nil {
		if page == nil {
			return utils.ErrorResponse(ctx, err, c.logger)
		}
		return utils.ErrorResponse(ctx, err, c.logger, page.View())
	}
	return utils.SuccessResponse(ctx, page.View(), message, http.StatusOK)
}

func (c *AssignController[T]) GetScreen(ctx echo.Context) error {
	page, err := c.open(ctx)
	if err == nil && ctx.QueryParam("reload") == "true" {
		err = page.Load(ctx.Request().Context())
	}
	return c.respond(ctx, page, err, "OK")
}

// Select запоминает выбор в выпадающих списках без обращения к БД.
func (c *AssignController[T]) Select(ctx echo.Context) error {
	var payload dto.AssignDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("Formato de dados inválido."), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	page, err := c.open(ctx)
	if err != nil {
		return c.respond(ctx, page, err, "")
	}
	page.Select(payload.ItemID, payload.BranchID)
	return c.respond(ctx, page, nil, "OK")
}

func (c *AssignController[T]) Assign(ctx echo.Context) error {
	var payload dto.AssignDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("Formato de dados inválido."), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	page, err := c.open(ctx)
	if err != nil {
		return c.respond(ctx, page, err, "")
	}
	err = page.Assign(ctx.Request().Context(), payload.ItemID, payload.BranchID)
	return c.respond(ctx, page, err, "OK")
}
