package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"tersys/internal/entities"
)

const transferTable = "equipment_transfers"

type TransferRepositoryInterface interface {
	CreateTransfer(ctx context.Context, tx pgx.Tx, transfer entities.EquipmentTransfer) (int64, error)
	GetHistory(ctx context.Context, limit uint64) ([]entities.EquipmentTransfer, error)
}

type TransferRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewTransferRepository(storage *pgxpool.Pool, logger *zap.Logger) TransferRepositoryInterface {
	return &TransferRepository{storage: storage, logger: logger}
}

func (r *TransferRepository) CreateTransfer(ctx context.Context, tx pgx.Tx, transfer entities.EquipmentTransfer) (int64, error) {
	var q Querier = r.storage
	if tx != nil {
		q = tx
	}

	query, args, err := psql.Insert(transferTable).
		Columns("equipment_id", "from_branch_id", "to_branch_id", "transferred_by").
		Values(transfer.EquipmentID, transfer.FromBranchID, transfer.ToBranchID, transfer.TransferredBy).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, err
	}

	var id int64
	if err := q.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// GetHistory: последние переводы, новые первыми.
func (r *TransferRepository) GetHistory(ctx context.Context, limit uint64) ([]entities.EquipmentTransfer, error) {
	builder := psql.Select(
		"t.id", "t.equipment_id", "e.name",
		"t.from_branch_id", "ff.name", "t.to_branch_id", "tf.name",
		"t.transferred_by", "t.transferred_at",
	).From(transferTable + " t").
		Join(equipmentTable + " e ON e.id = t.equipment_id").
		LeftJoin(branchTable + " ff ON ff.id = t.from_branch_id").
		LeftJoin(branchTable + " tf ON tf.id = t.to_branch_id").
		OrderBy("t.transferred_at DESC", "t.id DESC")
	if limit > 0 {
		builder = builder.Limit(limit)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	history := make([]entities.EquipmentTransfer, 0)
	for rows.Next() {
		var t entities.EquipmentTransfer
		if err := rows.Scan(
			&t.ID, &t.EquipmentID, &t.EquipmentName,
			&t.FromBranchID, &t.FromBranchName, &t.ToBranchID, &t.ToBranchName,
			&t.TransferredBy, &t.TransferredAt,
		); err != nil {
			return nil, err
		}
		history = append(history, t)
	}
	return history, rows.Err()
}
