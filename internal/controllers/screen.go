package controllers

import (
	"net/http"
	"strconv"

	"tersys/internal/authz"
	"tersys/internal/console"
	"tersys/internal/dto"
	apperrors "tersys/pkg/errors"
	"tersys/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Creator: тело запроса на создание записи экрана.
type Creator[T any] interface {
	ToEntity() T
}

// Patcher: тело запроса на изменение буфера редактирования.
type Patcher[T any] interface {
	Apply(row *T)
}

// ScreenController обслуживает экраны-справочники (филиалы, оборудование, пользователи).
// Состояние экрана живёт в рабочем пространстве сессии, ответ всегда содержит его снимок.
type ScreenController[T console.Record, C Creator[T], U Patcher[T]] struct {
	screen authz.ScreenID
	logger *zap.Logger
}

func NewScreenController[T console.Record, C Creator[T], U Patcher[T]](screen authz.ScreenID, logger *zap.Logger) *ScreenController[T, C, U] {
	return &ScreenController[T, C, U]{screen: screen, logger: logger}
}

func (c *ScreenController[T, C, U]) open(ctx echo.Context) (*console.Workspace, *console.Screen[T], error) {
	reqCtx := ctx.Request().Context()
	ws, err := utils.GetWorkspaceFromCtx(reqCtx)
	if err != nil {
		return nil, nil, err
	}
	page, err := console.Open[*console.Screen[T]](reqCtx, ws, c.screen)
	return ws, page, err
}

// respond отдаёт снимок экрана и при ошибке, чтобы клиент показал inline-сообщение.
func (c *ScreenController[T, C, U]) respond(ctx echo.Context, page *console.Screen[T], err error, message string, code int) error {
	if err != nil {
		if page == nil {
			return utils.ErrorResponse(ctx, err, c.logger)
		}
		return utils.ErrorResponse(ctx, err, c.logger, page.View())
	}
	return utils.SuccessResponse(ctx, page.View(), message, code)
}

func (c *ScreenController[T, C, U]) GetScreen(ctx echo.Context) error {
	_, page, err := c.open(ctx)
	if err == nil && ctx.QueryParam("reload") == "true" {
		err = page.Load(ctx.Request().Context())
	}
	return c.respond(ctx, page, err, "OK", http.StatusOK)
}

func (c *ScreenController[T, C, U]) Create(ctx echo.Context) error {
	var payload C
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("Formato de dados inválido."), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	_, page, err := c.open(ctx)
	if err != nil {
		return c.respond(ctx, page, err, "", 0)
	}

	err = page.Create(ctx.Request().Context(), payload.ToEntity())
	return c.respond(ctx, page, err, "Registro criado.", http.StatusCreated)
}

func (c *ScreenController[T, C, U]) BeginEdit(ctx echo.Context) error {
	id, err := parseID(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	_, page, err := c.open(ctx)
	if err != nil {
		return c.respond(ctx, page, err, "", 0)
	}
	return c.respond(ctx, page, page.BeginEdit(id), "OK", http.StatusOK)
}

func (c *ScreenController[T, C, U]) ChangeEdit(ctx echo.Context) error {
	id, err := parseID(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var payload U
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("Formato de dados inválido."), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	_, page, err := c.open(ctx)
	if err != nil {
		return c.respond(ctx, page, err, "", 0)
	}
	err = page.ChangeEdit(id, func(row *T) { payload.Apply(row) })
	return c.respond(ctx, page, err, "OK", http.StatusOK)
}

func (c *ScreenController[T, C, U]) SaveEdit(ctx echo.Context) error {
	_, page, err := c.open(ctx)
	if err != nil {
		return c.respond(ctx, page, err, "", 0)
	}
	err = page.SaveEdit(ctx.Request().Context())
	return c.respond(ctx, page, err, "Registro atualizado.", http.StatusOK)
}

func (c *ScreenController[T, C, U]) CancelEdit(ctx echo.Context) error {
	_, page, err := c.open(ctx)
	if err != nil {
		return c.respond(ctx, page, err, "", 0)
	}
	return c.respond(ctx, page, page.CancelEdit(), "OK", http.StatusOK)
}

// RequestDelete только открывает модалку; удаление выполняет подтверждение модалки.
func (c *ScreenController[T, C, U]) RequestDelete(ctx echo.Context) error {
	id, err := parseID(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	ws, page, err := c.open(ctx)
	if err != nil {
		return c.respond(ctx, page, err, "", 0)
	}

	modal, err := page.RequestDelete(id)
	if err != nil {
		return c.respond(ctx, page, err, "", 0)
	}
	ws.Prompt(modal)

	return utils.SuccessResponse(ctx, dto.ModalDTO{Message: modal.Message}, "Confirmação necessária.", http.StatusAccepted)
}

func parseID(ctx echo.Context) (int64, error) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewBadRequestError("ID inválido.")
	}
	return id, nil
}
