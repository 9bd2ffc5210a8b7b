package seeders

import (
	"context"
	"fmt"
	"strings"

	"tersys/internal/authz"
	"tersys/internal/entities"
	"tersys/internal/repositories"
	"tersys/internal/services"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const seederUsername = "seeder"

// Seeder наполняет базу через те же репозитории, что и приложение.
// Повторный запуск ничего не дублирует.
type Seeder struct {
	userRepo      repositories.UserRepositoryInterface
	branchRepo    repositories.BranchRepositoryInterface
	workerRepo    repositories.OutsourcedRepositoryInterface
	equipmentRepo repositories.EquipmentRepositoryInterface
	logger        *zap.Logger
}

func New(db *pgxpool.Pool, logger *zap.Logger) *Seeder {
	return &Seeder{
		userRepo:      repositories.NewUserRepository(db, logger),
		branchRepo:    repositories.NewBranchRepository(db, logger),
		workerRepo:    repositories.NewOutsourcedRepository(db, logger),
		equipmentRepo: repositories.NewEquipmentRepository(db, logger),
		logger:        logger,
	}
}

// SeedUser создаёт пользователя, если логин свободен.
func (s *Seeder) SeedUser(ctx context.Context, username, password string, role authz.Role) error {
	username = strings.TrimSpace(username)
	if username == "" || len(password) < 6 {
		return fmt.Errorf("логин не может быть пустым, пароль не короче 6 символов")
	}
	if !role.Valid() {
		return fmt.Errorf("неизвестная роль %q", role)
	}

	exists, err := s.userRepo.ExistsByUsername(ctx, username, 0)
	if err != nil {
		return fmt.Errorf("ошибка при проверке существования пользователя: %w", err)
	}
	if exists {
		s.logger.Info("Пользователь уже существует. Пропускаем.", zap.String("username", username))
		return nil
	}

	hash, err := services.HashPassword(password)
	if err != nil {
		return err
	}
	id, err := s.userRepo.CreateUser(ctx, entities.User{
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		CreatedBy:    null.StringFrom(seederUsername),
	})
	if err != nil {
		return fmt.Errorf("не удалось создать пользователя %s: %w", username, err)
	}
	s.logger.Info("Пользователь создан", zap.String("username", username), zap.String("role", role.String()), zap.Int64("id", id))
	return nil
}

func (s *Seeder) SeedBranches(ctx context.Context) error {
	for _, b := range sampleBranches {
		exists, err := s.branchRepo.ExistsByName(ctx, b.Name, 0)
		if err != nil {
			return fmt.Errorf("ошибка при проверке филиала %s: %w", b.Name, err)
		}
		if exists {
			continue
		}
		branch := entities.Branch{Name: b.Name, CreatedByUsername: seederUsername}
		if b.Responsible != "" {
			branch.Responsible = null.StringFrom(b.Responsible)
		}
		if _, err := s.branchRepo.CreateBranch(ctx, branch); err != nil {
			return fmt.Errorf("не удалось создать филиал %s: %w", b.Name, err)
		}
		s.logger.Info("Филиал создан", zap.String("name", b.Name))
	}
	return nil
}

// SeedWorkers создаёт терцеиризованных сотрудников. В консоли нет экрана их регистрации.
func (s *Seeder) SeedWorkers(ctx context.Context) error {
	existing, err := s.workerRepo.GetWorkers(ctx)
	if err != nil {
		return err
	}
	known := make(map[string]bool, len(existing))
	for _, w := range existing {
		known[strings.ToLower(w.Name)] = true
	}

	for _, w := range sampleWorkers {
		if known[strings.ToLower(w.Name)] {
			continue
		}
		worker := entities.OutsourcedWorker{Name: w.Name}
		if w.Document != "" {
			worker.Document = null.StringFrom(w.Document)
		}
		if _, err := s.workerRepo.CreateWorker(ctx, worker); err != nil {
			return fmt.Errorf("не удалось создать сотрудника %s: %w", w.Name, err)
		}
		s.logger.Info("Терцеиризованный сотрудник создан", zap.String("name", w.Name))
	}
	return nil
}

// ImportEquipment загружает оборудование из XLSX-файла.
func (s *Seeder) ImportEquipment(ctx context.Context, path string) (services.ImportResult, error) {
	importer := services.NewEquipmentImporter(s.equipmentRepo, s.branchRepo, s.logger)
	return importer.Import(ctx, path, seederUsername)
}
