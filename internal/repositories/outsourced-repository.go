package repositories

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"tersys/internal/entities"
	apperrors "tersys/pkg/errors"
)

const workerTable = "terceirizados"

type OutsourcedRepositoryInterface interface {
	GetWorkers(ctx context.Context) ([]entities.OutsourcedWorker, error)
	CreateWorker(ctx context.Context, worker entities.OutsourcedWorker) (int64, error)
	AssignBranch(ctx context.Context, workerID, branchID int64) error
}

type OutsourcedRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewOutsourcedRepository(storage *pgxpool.Pool, logger *zap.Logger) OutsourcedRepositoryInterface {
	return &OutsourcedRepository{storage: storage, logger: logger}
}

func scanWorker(row pgx.Row) (*entities.OutsourcedWorker, error) {
	var w entities.OutsourcedWorker
	err := row.Scan(&w.ID, &w.Name, &w.Document, &w.BranchID, &w.BranchName, &w.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования терцеиризованного: %w", err)
	}
	return &w, nil
}

func (r *OutsourcedRepository) GetWorkers(ctx context.Context) ([]entities.OutsourcedWorker, error) {
	query, args, err := psql.Select("t.id", "t.name", "t.document", "t.branch_id", "f.name", "t.created_at").
		From(workerTable + " t").
		LeftJoin(branchTable + " f ON f.id = t.branch_id").
		OrderBy("t.name").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	workers := make([]entities.OutsourcedWorker, 0)
	for rows.Next() {
		worker, err := scanWorker(rows)
		if err != nil {
			return nil, err
		}
		workers = append(workers, *worker)
	}
	return workers, rows.Err()
}

func (r *OutsourcedRepository) CreateWorker(ctx context.Context, worker entities.OutsourcedWorker) (int64, error) {
	query, args, err := psql.Insert(workerTable).
		Columns("name", "document", "branch_id").
		Values(worker.Name, worker.Document, worker.BranchID).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, err
	}

	var id int64
	if err := r.storage.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return 0, mapWriteError(err)
	}
	return id, nil
}

func (r *OutsourcedRepository) AssignBranch(ctx context.Context, workerID, branchID int64) error {
	builder := psql.Update(workerTable).Set("branch_id", branchID).Where(sq.Eq{"id": workerID})
	return execAffectingOne(ctx, r.storage, builder)
}
