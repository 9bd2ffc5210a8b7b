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

const branchTable = "filiais"

var branchColumns = []string{"id", "name", "responsible", "created_by_username", "created_at"}

type BranchRepositoryInterface interface {
	GetBranches(ctx context.Context, responsible string) ([]entities.Branch, error)
	GetBranchOptions(ctx context.Context, responsible string) ([]entities.BranchOption, error)
	FindBranch(ctx context.Context, id int64) (*entities.Branch, error)
	ExistsByName(ctx context.Context, name string, excludeID int64) (bool, error)
	CreateBranch(ctx context.Context, branch entities.Branch) (int64, error)
	UpdateBranch(ctx context.Context, branch entities.Branch) error
	DeleteBranch(ctx context.Context, id int64) error
}

type BranchRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewBranchRepository(storage *pgxpool.Pool, logger *zap.Logger) BranchRepositoryInterface {
	return &BranchRepository{storage: storage, logger: logger}
}

func scanBranch(row pgx.Row) (*entities.Branch, error) {
	var b entities.Branch
	err := row.Scan(&b.ID, &b.Name, &b.Responsible, &b.CreatedByUsername, &b.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования filial: %w", err)
	}
	return &b, nil
}

// scopeResponsible сужает выборку до филиалов, где пользователь ответственный.
func scopeResponsible(b sq.SelectBuilder, responsible string) sq.SelectBuilder {
	if responsible == "" {
		return b
	}
	return b.Where(sq.Eq{"responsible": responsible})
}

func (r *BranchRepository) GetBranches(ctx context.Context, responsible string) ([]entities.Branch, error) {
	builder := psql.Select(branchColumns...).From(branchTable).OrderBy("created_at DESC", "id DESC")
	builder = scopeResponsible(builder, responsible)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	branches := make([]entities.Branch, 0)
	for rows.Next() {
		branch, err := scanBranch(rows)
		if err != nil {
			return nil, err
		}
		branches = append(branches, *branch)
	}
	return branches, rows.Err()
}

func (r *BranchRepository) GetBranchOptions(ctx context.Context, responsible string) ([]entities.BranchOption, error) {
	builder := psql.Select("id", "name").From(branchTable).OrderBy("name")
	builder = scopeResponsible(builder, responsible)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	options := make([]entities.BranchOption, 0)
	for rows.Next() {
		var o entities.BranchOption
		if err := rows.Scan(&o.ID, &o.Name); err != nil {
			return nil, err
		}
		options = append(options, o)
	}
	return options, rows.Err()
}

func (r *BranchRepository) FindBranch(ctx context.Context, id int64) (*entities.Branch, error) {
	query, args, err := psql.Select(branchColumns...).From(branchTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	return scanBranch(r.storage.QueryRow(ctx, query, args...))
}

func (r *BranchRepository) ExistsByName(ctx context.Context, name string, excludeID int64) (bool, error) {
	return existsWhere(ctx, r.storage, branchTable, "name", name, excludeID)
}

func (r *BranchRepository) CreateBranch(ctx context.Context, branch entities.Branch) (int64, error) {
	query, args, err := psql.Insert(branchTable).
		Columns("name", "responsible", "created_by_username").
		Values(branch.Name, branch.Responsible, branch.CreatedByUsername).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, err
	}

	var id int64
	if err := r.storage.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return 0, mapWriteError(err)
	}
	r.logger.Info("Филиал создан", zap.Int64("id", id), zap.String("name", branch.Name))
	return id, nil
}

func (r *BranchRepository) UpdateBranch(ctx context.Context, branch entities.Branch) error {
	builder := psql.Update(branchTable).
		Set("name", branch.Name).
		Set("responsible", branch.Responsible).
		Where(sq.Eq{"id": branch.ID})
	return execAffectingOne(ctx, r.storage, builder)
}

func (r *BranchRepository) DeleteBranch(ctx context.Context, id int64) error {
	return execAffectingOne(ctx, r.storage, psql.Delete(branchTable).Where(sq.Eq{"id": id}))
}
