package services

import (
	"context"

	"tersys/internal/authz"
	"tersys/internal/console"
	"tersys/internal/entities"
	"tersys/internal/repositories"

	"go.uber.org/zap"
)

var OutsourcingMessages = console.AssignMessages{
	Missing:    "Selecione um terceirizado e uma filial.",
	SameBranch: "O terceirizado já está nesta filial.",
	OutOfScope: "Filial não disponível para o seu perfil.",
	Done:       "Terceirizado distribuído com sucesso!",
	Failed:     "Erro ao distribuir terceirizado.",
	LoadFailed: "Erro ao carregar dados.",
}

// OutsourcingService распределяет терцеиризованных по филиалам.
// Супервизор может назначать только в филиалы, где он ответственный.
type OutsourcingService struct {
	workerRepo repositories.OutsourcedRepositoryInterface
	branchRepo repositories.BranchRepositoryInterface
	logger     *zap.Logger
}

func NewOutsourcingService(
	workerRepo repositories.OutsourcedRepositoryInterface,
	branchRepo repositories.BranchRepositoryInterface,
	logger *zap.Logger,
) *OutsourcingService {
	return &OutsourcingService{workerRepo: workerRepo, branchRepo: branchRepo, logger: logger}
}

func (s *OutsourcingService) Items(ctx context.Context, _ console.Session) ([]entities.OutsourcedWorker, error) {
	return s.workerRepo.GetWorkers(ctx)
}

func (s *OutsourcingService) Branches(ctx context.Context, session console.Session) ([]entities.BranchOption, error) {
	return s.branchRepo.GetBranchOptions(ctx, authz.ResponsibleScope(session.Role, session.Username))
}

func (s *OutsourcingService) Assign(ctx context.Context, session console.Session, worker entities.OutsourcedWorker, branchID int64) error {
	if err := s.workerRepo.AssignBranch(ctx, worker.ID, branchID); err != nil {
		return err
	}
	s.logger.Info("Терцеиризованный распределён",
		zap.Int64("worker_id", worker.ID),
		zap.Int64("branch_id", branchID),
		zap.String("username", session.Username),
	)
	return nil
}
