package services

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"tersys/internal/authz"
	"tersys/internal/console"
	"tersys/internal/entities"
	"tersys/internal/repositories"
	apperrors "tersys/pkg/errors"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
)

var (
	adminSession      = console.Session{ID: "s-admin", Username: "admin", Role: authz.RoleAdministrator}
	supervisorSession = console.Session{ID: "s-sup", Username: "carlos", Role: authz.RoleSupervisor}
)

// fakeBranchRepo хранит филиалы в памяти.
type fakeBranchRepo struct {
	mu      sync.Mutex
	rows    []entities.Branch
	nextID  int64
	inserts int
	scopes  []string
	err     error
}

func (f *fakeBranchRepo) GetBranches(ctx context.Context, responsible string) ([]entities.Branch, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scopes = append(f.scopes, responsible)
	if f.err != nil {
		return nil, f.err
	}
	out := make([]entities.Branch, 0, len(f.rows))
	for _, b := range f.rows {
		if responsible == "" || b.Responsible.String == responsible {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBranchRepo) GetBranchOptions(ctx context.Context, responsible string) ([]entities.BranchOption, error) {
	rows, err := f.GetBranches(ctx, responsible)
	if err != nil {
		return nil, err
	}
	out := make([]entities.BranchOption, 0, len(rows))
	for _, b := range rows {
		out = append(out, entities.BranchOption{ID: b.ID, Name: b.Name})
	}
	return out, nil
}

func (f *fakeBranchRepo) FindBranch(ctx context.Context, id int64) (*entities.Branch, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.rows {
		if b.ID == id {
			return &b, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeBranchRepo) ExistsByName(ctx context.Context, name string, excludeID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.rows {
		if b.ID != excludeID && strings.EqualFold(b.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeBranchRepo) CreateBranch(ctx context.Context, branch entities.Branch) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	for _, b := range f.rows {
		if strings.EqualFold(b.Name, branch.Name) {
			return 0, apperrors.ErrDuplicate
		}
	}
	f.inserts++
	f.nextID++
	branch.ID = f.nextID
	f.rows = append(f.rows, branch)
	return branch.ID, nil
}

func (f *fakeBranchRepo) UpdateBranch(ctx context.Context, branch entities.Branch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.rows {
		if f.rows[i].ID == branch.ID {
			branch.CreatedByUsername = f.rows[i].CreatedByUsername
			f.rows[i] = branch
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func (f *fakeBranchRepo) DeleteBranch(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.rows {
		if f.rows[i].ID == id {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrNotFound
}

// fakeUserRepo хранит пользователей в памяти.
type fakeUserRepo struct {
	mu     sync.Mutex
	rows   []entities.User
	nextID int64
}

func (f *fakeUserRepo) GetUsers(ctx context.Context) ([]entities.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]entities.User, len(f.rows))
	copy(out, f.rows)
	return out, nil
}

func (f *fakeUserRepo) FindUserByUsername(ctx context.Context, username string) (*entities.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.rows {
		if strings.EqualFold(u.Username, username) {
			return &u, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeUserRepo) ExistsByUsername(ctx context.Context, username string, excludeID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.rows {
		if u.ID != excludeID && strings.EqualFold(u.Username, username) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserRepo) GetUsernamesByRole(ctx context.Context, role authz.Role) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var names []string
	for _, u := range f.rows {
		if u.Role == role {
			names = append(names, u.Username)
		}
	}
	return names, nil
}

func (f *fakeUserRepo) CreateUser(ctx context.Context, user entities.User) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	user.ID = f.nextID
	f.rows = append(f.rows, user)
	return user.ID, nil
}

func (f *fakeUserRepo) UpdateUser(ctx context.Context, user entities.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.rows {
		if f.rows[i].ID == user.ID {
			if user.PasswordHash == "" {
				user.PasswordHash = f.rows[i].PasswordHash
			}
			f.rows[i] = user
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func (f *fakeUserRepo) DeleteUser(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.rows {
		if f.rows[i].ID == id {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrNotFound
}

// fakeEquipmentRepo хранит оборудование в памяти.
type fakeEquipmentRepo struct {
	mu     sync.Mutex
	rows   []entities.Equipment
	nextID int64
	moves  int
}

func (f *fakeEquipmentRepo) GetEquipment(ctx context.Context) ([]entities.Equipment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]entities.Equipment, len(f.rows))
	copy(out, f.rows)
	return out, nil
}

func (f *fakeEquipmentRepo) FindEquipment(ctx context.Context, tx pgx.Tx, id int64) (*entities.Equipment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.rows {
		if e.ID == id {
			return &e, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeEquipmentRepo) ExistsByName(ctx context.Context, name string, excludeID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.rows {
		if e.ID != excludeID && strings.EqualFold(e.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeEquipmentRepo) CreateEquipment(ctx context.Context, equipment entities.Equipment) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.rows {
		if strings.EqualFold(e.Name, equipment.Name) {
			return 0, apperrors.ErrDuplicate
		}
	}
	f.nextID++
	equipment.ID = f.nextID
	f.rows = append(f.rows, equipment)
	return equipment.ID, nil
}

func (f *fakeEquipmentRepo) UpdateEquipment(ctx context.Context, equipment entities.Equipment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.rows {
		if f.rows[i].ID == equipment.ID {
			f.rows[i] = equipment
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func (f *fakeEquipmentRepo) DeleteEquipment(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.rows {
		if f.rows[i].ID == id {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func (f *fakeEquipmentRepo) MoveEquipment(ctx context.Context, tx pgx.Tx, id int64, branchID null.Int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.rows {
		if f.rows[i].ID == id {
			f.rows[i].BranchID = branchID
			f.moves++
			return nil
		}
	}
	return apperrors.ErrNotFound
}

type fakeTransferRepo struct {
	mu      sync.Mutex
	history []entities.EquipmentTransfer
}

func (f *fakeTransferRepo) CreateTransfer(ctx context.Context, tx pgx.Tx, transfer entities.EquipmentTransfer) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	transfer.ID = int64(len(f.history) + 1)
	f.history = append([]entities.EquipmentTransfer{transfer}, f.history...)
	return transfer.ID, nil
}

func (f *fakeTransferRepo) GetHistory(ctx context.Context, limit uint64) ([]entities.EquipmentTransfer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]entities.EquipmentTransfer, len(f.history))
	copy(out, f.history)
	return out, nil
}

// fakeTxManager выполняет fn без транзакции.
type fakeTxManager struct{ calls int }

func (f *fakeTxManager) RunInTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error {
	f.calls++
	return fn(nil)
}

// fakeCache: кеш в памяти с TTL по ручным часам.
type fakeCache struct {
	mu   sync.Mutex
	data map[string]string
	ttl  map[string]time.Duration
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string]string), ttl: make(map[string]time.Duration)}
}

func (f *fakeCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch v := value.(type) {
	case []byte:
		f.data[key] = string(v)
	case string:
		f.data[key] = v
	}
	f.ttl[key] = expiration
	return nil
}

func (f *fakeCache) Get(ctx context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	if !ok {
		return "", repositories.ErrCacheMiss
	}
	return v, nil
}

func (f *fakeCache) Del(ctx context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, k := range keys {
		delete(f.data, k)
		delete(f.ttl, k)
	}
	return nil
}

func (f *fakeCache) Incr(ctx context.Context, key string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, _ := strconv.ParseInt(f.data[key], 10, 64)
	n++
	f.data[key] = strconv.FormatInt(n, 10)
	return n, nil
}

func (f *fakeCache) Expire(ctx context.Context, key string, expiration time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ttl[key] = expiration
	return true, nil
}

func (f *fakeCache) TTL(ctx context.Context, key string) (time.Duration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ttl[key], nil
}
