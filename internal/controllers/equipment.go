package controllers

import (
	"context"
	"fmt"
	"net/http"

	"tersys/internal/entities"
	"tersys/pkg/utils"

	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

type EquipmentExporter interface {
	Export(ctx context.Context) (*excelize.File, error)
}

type TransferHistory interface {
	History(ctx context.Context) ([]entities.EquipmentTransfer, error)
}

// EquipmentController: выгрузки по оборудованию, не привязанные к состоянию экрана.
type EquipmentController struct {
	exporter EquipmentExporter
	history  TransferHistory
	logger   *zap.Logger
}

func NewEquipmentController(exporter EquipmentExporter, history TransferHistory, logger *zap.Logger) *EquipmentController {
	return &EquipmentController{exporter: exporter, history: history, logger: logger}
}

func (c *EquipmentController) Export(ctx echo.Context) error {
	f, err := c.exporter.Export(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	defer f.Close()
	return c.respondWithXLSX(ctx, f, "equipamentos.xlsx")
}

func (c *EquipmentController) TransferHistory(ctx echo.Context) error {
	items, err := c.history.History(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, items, "OK", http.StatusOK)
}

func (c *EquipmentController) respondWithXLSX(ctx echo.Context, f *excelize.File, filename string) error {
	ctx.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	ctx.Response().WriteHeader(http.StatusOK)
	if err := f.Write(ctx.Response()); err != nil {
		c.logger.Error("Ошибка записи XLSX в ответ", zap.Error(err))
		return err
	}
	return nil
}
