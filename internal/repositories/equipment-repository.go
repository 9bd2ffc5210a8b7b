package repositories

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"tersys/internal/entities"
	apperrors "tersys/pkg/errors"
)

const equipmentTable = "equipment"

var equipmentColumns = []string{
	"e.id", "e.name", "e.plate", "e.branch_id", "f.name", "e.created_by", "e.created_at",
}

type EquipmentRepositoryInterface interface {
	GetEquipment(ctx context.Context) ([]entities.Equipment, error)
	FindEquipment(ctx context.Context, tx pgx.Tx, id int64) (*entities.Equipment, error)
	ExistsByName(ctx context.Context, name string, excludeID int64) (bool, error)
	CreateEquipment(ctx context.Context, equipment entities.Equipment) (int64, error)
	UpdateEquipment(ctx context.Context, equipment entities.Equipment) error
	DeleteEquipment(ctx context.Context, id int64) error
	MoveEquipment(ctx context.Context, tx pgx.Tx, id int64, branchID null.Int64) error
}

type EquipmentRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewEquipmentRepository(storage *pgxpool.Pool, logger *zap.Logger) EquipmentRepositoryInterface {
	return &EquipmentRepository{storage: storage, logger: logger}
}

func (r *EquipmentRepository) getQuerier(tx pgx.Tx) Querier {
	if tx != nil {
		return tx
	}
	return r.storage
}

func scanEquipment(row pgx.Row) (*entities.Equipment, error) {
	var e entities.Equipment
	err := row.Scan(&e.ID, &e.Name, &e.Plate, &e.BranchID, &e.BranchName, &e.CreatedBy, &e.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования оборудования: %w", err)
	}
	return &e, nil
}

func selectEquipment() sq.SelectBuilder {
	return psql.Select(equipmentColumns...).
		From(equipmentTable + " e").
		LeftJoin(branchTable + " f ON f.id = e.branch_id")
}

func (r *EquipmentRepository) GetEquipment(ctx context.Context) ([]entities.Equipment, error) {
	query, args, err := selectEquipment().OrderBy("e.name").ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]entities.Equipment, 0)
	for rows.Next() {
		item, err := scanEquipment(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// FindEquipment внутри транзакции блокирует строку до коммита.
func (r *EquipmentRepository) FindEquipment(ctx context.Context, tx pgx.Tx, id int64) (*entities.Equipment, error) {
	builder := selectEquipment().Where(sq.Eq{"e.id": id})
	if tx != nil {
		builder = builder.Suffix("FOR UPDATE OF e")
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}
	return scanEquipment(r.getQuerier(tx).QueryRow(ctx, query, args...))
}

func (r *EquipmentRepository) ExistsByName(ctx context.Context, name string, excludeID int64) (bool, error) {
	return existsWhere(ctx, r.storage, equipmentTable, "name", name, excludeID)
}

func (r *EquipmentRepository) CreateEquipment(ctx context.Context, equipment entities.Equipment) (int64, error) {
	query, args, err := psql.Insert(equipmentTable).
		Columns("name", "plate", "branch_id", "created_by").
		Values(equipment.Name, equipment.Plate, equipment.BranchID, equipment.CreatedBy).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, err
	}

	var id int64
	if err := r.storage.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return 0, mapWriteError(err)
	}
	r.logger.Info("Оборудование создано", zap.Int64("id", id), zap.String("name", equipment.Name))
	return id, nil
}

func (r *EquipmentRepository) UpdateEquipment(ctx context.Context, equipment entities.Equipment) error {
	builder := psql.Update(equipmentTable).
		Set("name", equipment.Name).
		Set("plate", equipment.Plate).
		Set("branch_id", equipment.BranchID).
		Where(sq.Eq{"id": equipment.ID})
	return execAffectingOne(ctx, r.storage, builder)
}

func (r *EquipmentRepository) DeleteEquipment(ctx context.Context, id int64) error {
	return execAffectingOne(ctx, r.storage, psql.Delete(equipmentTable).Where(sq.Eq{"id": id}))
}

func (r *EquipmentRepository) MoveEquipment(ctx context.Context, tx pgx.Tx, id int64, branchID null.Int64) error {
	builder := psql.Update(equipmentTable).Set("branch_id", branchID).Where(sq.Eq{"id": id})
	return execAffectingOne(ctx, r.getQuerier(tx), builder)
}
