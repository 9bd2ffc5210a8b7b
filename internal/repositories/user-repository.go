package repositories

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"tersys/internal/authz"
	"tersys/internal/entities"
	apperrors "tersys/pkg/errors"
)

const userTable = "app_users"

var userColumns = []string{
	"u.id", "u.username", "u.password_hash", "u.role", "u.branch_id", "f.name", "u.created_by", "u.created_at",
}

type UserRepositoryInterface interface {
	GetUsers(ctx context.Context) ([]entities.User, error)
	FindUserByUsername(ctx context.Context, username string) (*entities.User, error)
	ExistsByUsername(ctx context.Context, username string, excludeID int64) (bool, error)
	GetUsernamesByRole(ctx context.Context, role authz.Role) ([]string, error)
	CreateUser(ctx context.Context, user entities.User) (int64, error)
	UpdateUser(ctx context.Context, user entities.User) error
	DeleteUser(ctx context.Context, id int64) error
}

type UserRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewUserRepository(storage *pgxpool.Pool, logger *zap.Logger) UserRepositoryInterface {
	return &UserRepository{storage: storage, logger: logger}
}

func scanUser(row pgx.Row) (*entities.User, error) {
	var u entities.User
	var role string
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &role, &u.BranchID, &u.BranchName, &u.CreatedBy, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования пользователя: %w", err)
	}
	u.Role = authz.Role(role)
	return &u, nil
}

func (r *UserRepository) selectUsers() sq.SelectBuilder {
	return psql.Select(userColumns...).
		From(userTable + " u").
		LeftJoin(branchTable + " f ON f.id = u.branch_id")
}

func (r *UserRepository) GetUsers(ctx context.Context) ([]entities.User, error) {
	query, args, err := r.selectUsers().OrderBy("u.username").ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]entities.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

// FindUserByUsername ищет без учёта регистра; возвращает хеш пароля для входа.
func (r *UserRepository) FindUserByUsername(ctx context.Context, username string) (*entities.User, error) {
	query, args, err := r.selectUsers().Where("LOWER(u.username) = LOWER(?)", username).ToSql()
	if err != nil {
		return nil, err
	}
	return scanUser(r.storage.QueryRow(ctx, query, args...))
}

func (r *UserRepository) ExistsByUsername(ctx context.Context, username string, excludeID int64) (bool, error) {
	return existsWhere(ctx, r.storage, userTable, "username", username, excludeID)
}

func (r *UserRepository) GetUsernamesByRole(ctx context.Context, role authz.Role) ([]string, error) {
	query, args, err := psql.Select("username").From(userTable).
		Where(sq.Eq{"role": role.String()}).
		OrderBy("username").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (r *UserRepository) CreateUser(ctx context.Context, user entities.User) (int64, error) {
	query, args, err := psql.Insert(userTable).
		Columns("username", "password_hash", "role", "branch_id", "created_by").
		Values(user.Username, user.PasswordHash, user.Role.String(), user.BranchID, user.CreatedBy).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, err
	}

	var id int64
	if err := r.storage.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return 0, mapWriteError(err)
	}
	r.logger.Info("Пользователь создан", zap.Int64("id", id), zap.String("username", user.Username))
	return id, nil
}

// UpdateUser не трогает пароль, если PasswordHash пустой.
func (r *UserRepository) UpdateUser(ctx context.Context, user entities.User) error {
	builder := psql.Update(userTable).
		Set("username", user.Username).
		Set("role", user.Role.String()).
		Set("branch_id", user.BranchID).
		Where(sq.Eq{"id": user.ID})
	if user.PasswordHash != "" {
		builder = builder.Set("password_hash", user.PasswordHash)
	}
	return execAffectingOne(ctx, r.storage, builder)
}

func (r *UserRepository) DeleteUser(ctx context.Context, id int64) error {
	return execAffectingOne(ctx, r.storage, psql.Delete(userTable).Where(sq.Eq{"id": id}))
}
