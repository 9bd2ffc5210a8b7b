package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tersys/internal/authz"
	"tersys/internal/console"
	"tersys/internal/entities"
	"tersys/internal/repositories"
	apperrors "tersys/pkg/errors"

	"go.uber.org/zap"
)

var BranchMessages = console.Messages[entities.Branch]{
	Created:      "Filial adicionada com sucesso!",
	Updated:      "Filial atualizada com sucesso!",
	Deleted:      "Filial excluída com sucesso!",
	LoadFailed:   "Erro ao carregar filiais.",
	CreateFailed: "Erro ao adicionar filial.",
	UpdateFailed: "Erro ao atualizar filial.",
	DeleteFailed: "Erro ao excluir filial.",
	ConfirmDelete: func(entities.Branch) string {
		return "Tem certeza de que deseja excluir esta filial? Esta ação não pode ser desfeita."
	},
}

// BranchService: данные экрана филиалов.
type BranchService struct {
	branchRepo repositories.BranchRepositoryInterface
	userRepo   repositories.UserRepositoryInterface
	logger     *zap.Logger
}

func NewBranchService(
	branchRepo repositories.BranchRepositoryInterface,
	userRepo repositories.UserRepositoryInterface,
	logger *zap.Logger,
) *BranchService {
	return &BranchService{branchRepo: branchRepo, userRepo: userRepo, logger: logger}
}

// List: супервизор видит только филиалы, где он ответственный.
func (s *BranchService) List(ctx context.Context, session console.Session) ([]entities.Branch, error) {
	return s.branchRepo.GetBranches(ctx, authz.ResponsibleScope(session.Role, session.Username))
}

func (s *BranchService) Lookups(ctx context.Context, _ console.Session) (map[string]any, error) {
	supervisors, err := s.userRepo.GetUsernamesByRole(ctx, authz.RoleSupervisor)
	if err != nil {
		return nil, fmt.Errorf("ошибка загрузки супервизоров: %w", err)
	}
	return map[string]any{"supervisors": supervisors}, nil
}

func (s *BranchService) Normalize(draft entities.Branch, editing bool) (entities.Branch, error) {
	draft.Name = strings.TrimSpace(draft.Name)
	if draft.Name == "" {
		msg := "O nome da filial não pode estar vazio."
		return draft, apperrors.NewValidationError(msg, msg)
	}

	draft.Responsible.String = strings.TrimSpace(draft.Responsible.String)
	if !draft.Responsible.Valid || draft.Responsible.String == "" {
		if editing {
			return draft, apperrors.NewValidationError("Por favor, selecione um responsável para a filial.", "Selecione um responsável.")
		}
		return draft, apperrors.NewValidationError("Por favor, selecione um responsável para a nova filial.", "Selecione um responsável.")
	}
	return draft, nil
}

func (s *BranchService) Conflict(ctx context.Context, row entities.Branch, excludeID int64) error {
	exists, err := s.branchRepo.ExistsByName(ctx, row.Name, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return branchDuplicate(excludeID > 0)
	}
	return nil
}

func (s *BranchService) Insert(ctx context.Context, session console.Session, row entities.Branch) error {
	row.CreatedByUsername = session.Username
	if _, err := s.branchRepo.CreateBranch(ctx, row); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return branchDuplicate(false)
		}
		return err
	}
	return nil
}

func (s *BranchService) Update(ctx context.Context, _ console.Session, row entities.Branch) error {
	if err := s.branchRepo.UpdateBranch(ctx, row); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return branchDuplicate(true)
		}
		return err
	}
	return nil
}

func (s *BranchService) Delete(ctx context.Context, session console.Session, id int64) error {
	if err := s.branchRepo.DeleteBranch(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Филиал удалён", zap.Int64("id", id), zap.String("username", session.Username))
	return nil
}

func branchDuplicate(editing bool) *apperrors.ValidationError {
	if editing {
		return apperrors.NewValidationError("Já existe outra filial com este nome. Por favor, escolha outro.", "Nome de filial duplicado.")
	}
	return apperrors.NewValidationError("Já existe uma filial com este nome. Por favor, escolha outro.", "Filial já existe.")
}
