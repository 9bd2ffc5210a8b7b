package services

import (
	"context"
	"fmt"

	"tersys/internal/entities"
	"tersys/internal/repositories"

	"github.com/xuri/excelize/v2"
)

const equipmentSheet = "Equipamentos"

var equipmentHeaders = []interface{}{"ID", "Nome", "Placa", "Filial", "Cadastrado por", "Data de cadastro"}

type EquipmentExporter struct {
	equipmentRepo repositories.EquipmentRepositoryInterface
}

func NewEquipmentExporter(equipmentRepo repositories.EquipmentRepositoryInterface) *EquipmentExporter {
	return &EquipmentExporter{equipmentRepo: equipmentRepo}
}

// Export собирает книгу XLSX со всем оборудованием. Файл закрывает вызывающий.
func (e *EquipmentExporter) Export(ctx context.Context) (*excelize.File, error) {
	items, err := e.equipmentRepo.GetEquipment(ctx)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", equipmentSheet); err != nil {
		f.Close()
		return nil, err
	}
	if err := f.SetSheetRow(equipmentSheet, "A1", &equipmentHeaders); err != nil {
		f.Close()
		return nil, err
	}
	style, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	f.SetCellStyle(equipmentSheet, "A1", "F1", style)

	for i, item := range items {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := equipmentRow(item)
		if err := f.SetSheetRow(equipmentSheet, cell, &row); err != nil {
			f.Close()
			return nil, fmt.Errorf("ошибка записи строки %d: %w", i+2, err)
		}
	}
	f.SetColWidth(equipmentSheet, "B", "B", 30)
	f.SetColWidth(equipmentSheet, "D", "E", 25)
	f.SetColWidth(equipmentSheet, "F", "F", 20)

	return f, nil
}

func equipmentRow(item entities.Equipment) []interface{} {
	return []interface{}{
		item.ID, item.Name, item.Plate.String, item.BranchName.String, item.CreatedBy.String,
		item.CreatedAt.Format("02.01.2006 15:04"),
	}
}
