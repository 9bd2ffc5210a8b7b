package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tersys/internal/console"
	"tersys/internal/entities"
	"tersys/internal/repositories"
	apperrors "tersys/pkg/errors"

	"github.com/aarondl/null/v8"
	"go.uber.org/zap"
)

var EquipmentMessages = console.Messages[entities.Equipment]{
	Created:      "Equipamento adicionado com sucesso!",
	Updated:      "Equipamento atualizado com sucesso!",
	Deleted:      "Equipamento excluído com sucesso!",
	LoadFailed:   "Erro ao carregar equipamentos.",
	CreateFailed: "Erro ao adicionar equipamento.",
	UpdateFailed: "Erro ao atualizar equipamento.",
	DeleteFailed: "Erro ao excluir equipamento.",
	ConfirmDelete: func(e entities.Equipment) string {
		return fmt.Sprintf("Tem certeza de que deseja excluir o equipamento \"%s\"? Esta ação não pode ser desfeita.", e.Name)
	},
}

type EquipmentService struct {
	equipmentRepo repositories.EquipmentRepositoryInterface
	branchRepo    repositories.BranchRepositoryInterface
	logger        *zap.Logger
}

func NewEquipmentService(
	equipmentRepo repositories.EquipmentRepositoryInterface,
	branchRepo repositories.BranchRepositoryInterface,
	logger *zap.Logger,
) *EquipmentService {
	return &EquipmentService{equipmentRepo: equipmentRepo, branchRepo: branchRepo, logger: logger}
}

func (s *EquipmentService) List(ctx context.Context, _ console.Session) ([]entities.Equipment, error) {
	return s.equipmentRepo.GetEquipment(ctx)
}

func (s *EquipmentService) Lookups(ctx context.Context, _ console.Session) (map[string]any, error) {
	branches, err := s.branchRepo.GetBranchOptions(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("ошибка загрузки филиалов: %w", err)
	}
	return map[string]any{"branches": branches}, nil
}

func (s *EquipmentService) Normalize(draft entities.Equipment, editing bool) (entities.Equipment, error) {
	draft.Name = strings.TrimSpace(draft.Name)
	if draft.Name == "" {
		msg := "O nome do equipamento não pode estar vazio."
		return draft, apperrors.NewValidationError(msg, msg)
	}

	if plate := strings.ToUpper(strings.TrimSpace(draft.Plate.String)); plate != "" {
		draft.Plate = null.StringFrom(plate)
	} else {
		draft.Plate = null.String{}
	}

	if !draft.BranchID.Valid || draft.BranchID.Int64 <= 0 {
		if editing {
			return draft, apperrors.NewValidationError("Por favor, selecione uma filial para o equipamento.", "Selecione uma filial.")
		}
		return draft, apperrors.NewValidationError("Por favor, selecione uma filial para o novo equipamento.", "Selecione uma filial.")
	}
	return draft, nil
}

func (s *EquipmentService) Conflict(ctx context.Context, row entities.Equipment, excludeID int64) error {
	exists, err := s.equipmentRepo.ExistsByName(ctx, row.Name, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return equipmentDuplicate(excludeID > 0)
	}
	return nil
}

func (s *EquipmentService) Insert(ctx context.Context, session console.Session, row entities.Equipment) error {
	row.CreatedBy = null.StringFrom(session.Username)
	if _, err := s.equipmentRepo.CreateEquipment(ctx, row); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return equipmentDuplicate(false)
		}
		return err
	}
	return nil
}

func (s *EquipmentService) Update(ctx context.Context, _ console.Session, row entities.Equipment) error {
	if err := s.equipmentRepo.UpdateEquipment(ctx, row); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return equipmentDuplicate(true)
		}
		return err
	}
	return nil
}

func (s *EquipmentService) Delete(ctx context.Context, session console.Session, id int64) error {
	if err := s.equipmentRepo.DeleteEquipment(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Оборудование удалено", zap.Int64("id", id), zap.String("username", session.Username))
	return nil
}

func equipmentDuplicate(editing bool) *apperrors.ValidationError {
	if editing {
		return apperrors.NewValidationError("Já existe outro equipamento com este nome. Por favor, escolha outro.", "Nome de equipamento duplicado.")
	}
	return apperrors.NewValidationError("Já existe um equipamento com este nome. Por favor, escolha outro.", "Equipamento já existe.")
}
