package services

import (
	"context"

	"tersys/internal/console"
	"tersys/internal/entities"
	"tersys/internal/repositories"
	apperrors "tersys/pkg/errors"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const transferHistoryLimit = 20

var TransferMessages = console.AssignMessages{
	Missing:    "Selecione um equipamento e uma filial de destino.",
	SameBranch: "O equipamento já está nesta filial.",
	OutOfScope: "Filial de destino não encontrada.",
	Done:       "Equipamento transferido com sucesso!",
	Failed:     "Erro ao transferir equipamento.",
	LoadFailed: "Erro ao carregar dados.",
}

// TransferService переводит оборудование между филиалами и ведёт журнал.
type TransferService struct {
	equipmentRepo repositories.EquipmentRepositoryInterface
	branchRepo    repositories.BranchRepositoryInterface
	transferRepo  repositories.TransferRepositoryInterface
	txManager     repositories.TxManagerInterface
	logger        *zap.Logger
}

func NewTransferService(
	equipmentRepo repositories.EquipmentRepositoryInterface,
	branchRepo repositories.BranchRepositoryInterface,
	transferRepo repositories.TransferRepositoryInterface,
	txManager repositories.TxManagerInterface,
	logger *zap.Logger,
) *TransferService {
	return &TransferService{
		equipmentRepo: equipmentRepo,
		branchRepo:    branchRepo,
		transferRepo:  transferRepo,
		txManager:     txManager,
		logger:        logger,
	}
}

func (s *TransferService) Items(ctx context.Context, _ console.Session) ([]entities.Equipment, error) {
	return s.equipmentRepo.GetEquipment(ctx)
}

func (s *TransferService) Branches(ctx context.Context, _ console.Session) ([]entities.BranchOption, error) {
	return s.branchRepo.GetBranchOptions(ctx, "")
}

func (s *TransferService) Lookups(ctx context.Context, _ console.Session) (map[string]any, error) {
	history, err := s.History(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]any{"history": history}, nil
}

func (s *TransferService) History(ctx context.Context) ([]entities.EquipmentTransfer, error) {
	return s.transferRepo.GetHistory(ctx, transferHistoryLimit)
}

// Assign перечитывает строку под блокировкой: филиал мог измениться после загрузки экрана.
func (s *TransferService) Assign(ctx context.Context, session console.Session, item entities.Equipment, branchID int64) error {
	var from null.Int64
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		current, err := s.equipmentRepo.FindEquipment(ctx, tx, item.ID)
		if err != nil {
			return err
		}
		if current.BranchID.Valid && current.BranchID.Int64 == branchID {
			return apperrors.NewValidationError(TransferMessages.SameBranch, TransferMessages.SameBranch)
		}
		from = current.BranchID

		if err := s.equipmentRepo.MoveEquipment(ctx, tx, item.ID, null.Int64From(branchID)); err != nil {
			return err
		}
		_, err = s.transferRepo.CreateTransfer(ctx, tx, entities.EquipmentTransfer{
			EquipmentID:   item.ID,
			FromBranchID:  current.BranchID,
			ToBranchID:    null.Int64From(branchID),
			TransferredBy: session.Username,
		})
		return err
	})
	if err != nil {
		return err
	}

	s.logger.Info("Оборудование переведено",
		zap.Int64("equipment_id", item.ID),
		zap.Int64("from_branch_id", from.Int64),
		zap.Int64("to_branch_id", branchID),
		zap.String("username", session.Username),
	)
	return nil
}
