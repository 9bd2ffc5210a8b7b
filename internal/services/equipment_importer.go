package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tersys/internal/entities"
	"tersys/internal/repositories"
	apperrors "tersys/pkg/errors"

	"github.com/aarondl/null/v8"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

type ImportResult struct {
	Created int
	Skipped int
}

// EquipmentImporter загружает оборудование из XLSX. Шапка ищется по словам
// "nome"/"equipamento" и "filial"; колонка "placa" необязательна.
type EquipmentImporter struct {
	equipmentRepo repositories.EquipmentRepositoryInterface
	branchRepo    repositories.BranchRepositoryInterface
	logger        *zap.Logger
}

func NewEquipmentImporter(
	equipmentRepo repositories.EquipmentRepositoryInterface,
	branchRepo repositories.BranchRepositoryInterface,
	logger *zap.Logger,
) *EquipmentImporter {
	return &EquipmentImporter{equipmentRepo: equipmentRepo, branchRepo: branchRepo, logger: logger}
}

type importColumns struct {
	name, plate, branch int
}

func (im *EquipmentImporter) Import(ctx context.Context, path, username string) (ImportResult, error) {
	var result ImportResult

	f, err := excelize.OpenFile(path)
	if err != nil {
		return result, fmt.Errorf("ошибка открытия файла: %w", err)
	}
	defer f.Close()

	rows, cols, err := findHeader(f)
	if err != nil {
		return result, err
	}

	options, err := im.branchRepo.GetBranchOptions(ctx, "")
	if err != nil {
		return result, err
	}
	branchByName := make(map[string]int64, len(options))
	for _, o := range options {
		branchByName[strings.ToLower(strings.TrimSpace(o.Name))] = o.ID
	}

	for _, row := range rows {
		name := cellAt(row, cols.name)
		if name == "" {
			continue
		}
		item := entities.Equipment{Name: name, CreatedBy: null.StringFrom(username)}
		if plate := strings.ToUpper(cellAt(row, cols.plate)); plate != "" {
			item.Plate = null.StringFrom(plate)
		}
		if id, ok := branchByName[strings.ToLower(cellAt(row, cols.branch))]; ok {
			item.BranchID = null.Int64From(id)
		}

		if _, err := im.equipmentRepo.CreateEquipment(ctx, item); err != nil {
			if errors.Is(err, apperrors.ErrDuplicate) {
				result.Skipped++
				continue
			}
			return result, fmt.Errorf("ошибка импорта '%s': %w", name, err)
		}
		result.Created++
	}

	im.logger.Info("Импорт оборудования завершён",
		zap.String("file", path),
		zap.Int("created", result.Created),
		zap.Int("skipped", result.Skipped),
	)
	return result, nil
}

// findHeader возвращает строки после шапки и индексы нужных колонок.
func findHeader(f *excelize.File) ([][]string, importColumns, error) {
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, importColumns{}, err
		}
		for rIdx, row := range rows {
			cols := importColumns{name: -1, plate: -1, branch: -1}
			for cIdx, title := range row {
				t := strings.ToLower(strings.TrimSpace(title))
				switch {
				case strings.Contains(t, "placa"):
					cols.plate = cIdx
				case strings.Contains(t, "filial"):
					cols.branch = cIdx
				case strings.Contains(t, "nome"), strings.Contains(t, "equipamento"):
					cols.name = cIdx
				}
			}
			if cols.name != -1 && cols.branch != -1 {
				return rows[rIdx+1:], cols, nil
			}
		}
	}
	return nil, importColumns{}, fmt.Errorf("не найдена шапка таблицы: нужны колонки 'Nome' и 'Filial'")
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
