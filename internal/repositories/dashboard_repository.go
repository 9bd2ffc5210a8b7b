package repositories

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"tersys/internal/entities"
)

type DashboardRepositoryInterface interface {
	GetCounts(ctx context.Context) (*entities.DashboardStats, error)
	GetUserBranch(ctx context.Context, username string) (string, error)
}

type DashboardRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewDashboardRepository(storage *pgxpool.Pool, logger *zap.Logger) DashboardRepositoryInterface {
	return &DashboardRepository{storage: storage, logger: logger}
}

func countOf(table string) sq.SelectBuilder {
	return sq.Select("COUNT(*)").From(table)
}

// GetCounts: три счётчика одним запросом.
func (r *DashboardRepository) GetCounts(ctx context.Context) (*entities.DashboardStats, error) {
	query, args, err := psql.Select().
		Column(sq.Alias(countOf(equipmentTable), "equipment_count")).
		Column(sq.Alias(countOf(branchTable), "branch_count")).
		Column(sq.Alias(countOf(userTable), "user_count")).
		ToSql()
	if err != nil {
		return nil, err
	}

	stats := &entities.DashboardStats{}
	err = r.storage.QueryRow(ctx, query, args...).Scan(&stats.EquipmentCount, &stats.BranchCount, &stats.UserCount)
	return stats, err
}

// GetUserBranch возвращает пустую строку, если филиал не назначен.
func (r *DashboardRepository) GetUserBranch(ctx context.Context, username string) (string, error) {
	query, args, err := psql.Select("f.name").
		From(userTable + " u").
		LeftJoin(branchTable + " f ON f.id = u.branch_id").
		Where("LOWER(u.username) = LOWER(?)", username).
		ToSql()
	if err != nil {
		return "", err
	}

	var name null.String
	err = r.storage.QueryRow(ctx, query, args...).Scan(&name)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return name.String, nil
}
