package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"tersys/internal/authz"
	"tersys/internal/console"
	"tersys/internal/entities"
	"tersys/internal/repositories"
	apperrors "tersys/pkg/errors"

	"github.com/aarondl/null/v8"
	"go.uber.org/zap"
)

const minPasswordLength = 6

var UserMessages = console.Messages[entities.User]{
	Created:      "Usuário adicionado com sucesso!",
	Updated:      "Usuário atualizado com sucesso!",
	Deleted:      "Usuário excluído com sucesso!",
	LoadFailed:   "Erro ao carregar dados.",
	CreateFailed: "Erro ao adicionar usuário.",
	UpdateFailed: "Erro ao atualizar usuário.",
	DeleteFailed: "Erro ao excluir usuário.",
	ConfirmDelete: func(u entities.User) string {
		return fmt.Sprintf("Tem certeza de que deseja excluir o usuário \"%s\"? Esta ação não pode ser desfeita.", u.Username)
	},
}

type UserService struct {
	userRepo   repositories.UserRepositoryInterface
	branchRepo repositories.BranchRepositoryInterface
	logger     *zap.Logger
}

func NewUserService(
	userRepo repositories.UserRepositoryInterface,
	branchRepo repositories.BranchRepositoryInterface,
	logger *zap.Logger,
) *UserService {
	return &UserService{userRepo: userRepo, branchRepo: branchRepo, logger: logger}
}

// Blank: новая учётная запись по умолчанию получает роль водителя.
func (s *UserService) Blank() entities.User {
	return entities.User{Role: authz.RoleDriver}
}

func (s *UserService) List(ctx context.Context, _ console.Session) ([]entities.User, error) {
	return s.userRepo.GetUsers(ctx)
}

func (s *UserService) Lookups(ctx context.Context, _ console.Session) (map[string]any, error) {
	branches, err := s.branchRepo.GetBranchOptions(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("ошибка загрузки филиалов: %w", err)
	}
	return map[string]any{"branches": branches, "roles": authz.Roles()}, nil
}

// Normalize: пароль обязателен только при создании; при редактировании
// пустой пароль оставляет прежний.
func (s *UserService) Normalize(draft entities.User, editing bool) (entities.User, error) {
	draft.Username = strings.TrimSpace(draft.Username)
	if draft.Username == "" {
		msg := "O nome de usuário não pode estar vazio."
		return draft, apperrors.NewValidationError(msg, msg)
	}

	if draft.Password == "" && !editing {
		msg := "A senha não pode estar vazia."
		return draft, apperrors.NewValidationError(msg, msg)
	}
	if draft.Password != "" && utf8.RuneCountInString(draft.Password) < minPasswordLength {
		msg := fmt.Sprintf("A senha deve ter pelo menos %d caracteres.", minPasswordLength)
		return draft, apperrors.NewValidationError(msg, msg)
	}
	if len(draft.Password) > maxPasswordBytes {
		msg := "A senha é longa demais."
		return draft, apperrors.NewValidationError(msg, msg)
	}

	if draft.Role == "" {
		draft.Role = authz.RoleDriver
	}
	if !draft.Role.Valid() {
		msg := "Perfil de usuário inválido."
		return draft, apperrors.NewValidationError(msg, msg)
	}

	if draft.BranchID.Valid && draft.BranchID.Int64 <= 0 {
		draft.BranchID = null.Int64{}
	}
	return draft, nil
}

func (s *UserService) Conflict(ctx context.Context, row entities.User, excludeID int64) error {
	exists, err := s.userRepo.ExistsByUsername(ctx, row.Username, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return userDuplicate(excludeID > 0)
	}
	return nil
}

func (s *UserService) Insert(ctx context.Context, session console.Session, row entities.User) error {
	hash, err := HashPassword(row.Password)
	if err != nil {
		return err
	}
	row.Password = ""
	row.PasswordHash = hash
	row.CreatedBy = null.StringFrom(session.Username)

	if _, err := s.userRepo.CreateUser(ctx, row); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return userDuplicate(false)
		}
		return err
	}
	return nil
}

func (s *UserService) Update(ctx context.Context, _ console.Session, row entities.User) error {
	row.PasswordHash = ""
	if row.Password != "" {
		hash, err := HashPassword(row.Password)
		if err != nil {
			return err
		}
		row.Password = ""
		row.PasswordHash = hash
	}

	if err := s.userRepo.UpdateUser(ctx, row); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return userDuplicate(true)
		}
		return err
	}
	return nil
}

func (s *UserService) Delete(ctx context.Context, session console.Session, id int64) error {
	if err := s.userRepo.DeleteUser(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Пользователь удалён", zap.Int64("id", id), zap.String("username", session.Username))
	return nil
}

func userDuplicate(editing bool) *apperrors.ValidationError {
	if editing {
		return apperrors.NewValidationError("Já existe outro usuário com este nome. Por favor, escolha outro.", "Nome de usuário duplicado.")
	}
	return apperrors.NewValidationError("Já existe um usuário com este nome. Por favor, escolha outro.", "Usuário já existe.")
}
