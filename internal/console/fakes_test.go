package console

import (
	"context"
	"errors"
	"strings"
	"sync"

	"tersys/internal/authz"
	"tersys/internal/entities"
	apperrors "tersys/pkg/errors"
)

var errBackend = errors.New("backend недоступен")

type item struct {
	ID     int64
	Name   string
	Branch int64
}

func (i item) RecordID() int64  { return i.ID }
func (i item) BranchRef() int64 { return i.Branch }

// recordingToaster запоминает все показанные тосты.
type recordingToaster struct {
	mu     sync.Mutex
	toasts []Toast
}

func (r *recordingToaster) Show(message string, kind ToastKind) {
	if message == "" {
		return
	}
	r.mu.Lock()
	r.toasts = append(r.toasts, Toast{Message: message, Kind: kind})
	r.mu.Unlock()
}

func (r *recordingToaster) last() (Toast, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.toasts) == 0 {
		return Toast{}, false
	}
	return r.toasts[len(r.toasts)-1], true
}

func (r *recordingToaster) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.toasts)
}

// fakeCollection: хранилище в памяти с подсчётом вызовов записи.
type fakeCollection struct {
	mu      sync.Mutex
	rows    []item
	nextID  int64
	writes  int
	lists   int
	failOn  string
	blockOn chan struct{}
}

func newFakeCollection(rows ...item) *fakeCollection {
	f := &fakeCollection{nextID: 100}
	f.rows = append(f.rows, rows...)
	return f
}

func (f *fakeCollection) List(ctx context.Context, s Session) ([]item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists++
	if f.failOn == "list" {
		return nil, errBackend
	}
	out := make([]item, len(f.rows))
	copy(out, f.rows)
	return out, nil
}

func (f *fakeCollection) Normalize(draft item, editing bool) (item, error) {
	draft.Name = strings.TrimSpace(draft.Name)
	if draft.Name == "" {
		return draft, apperrors.NewValidationError("O nome não pode estar vazio.", "O nome não pode estar vazio.")
	}
	return draft, nil
}

func (f *fakeCollection) Conflict(ctx context.Context, row item, excludeID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rows {
		if r.ID != excludeID && strings.EqualFold(r.Name, row.Name) {
			return apperrors.NewValidationError("Já existe um registro com este nome.", "Registro já existe.")
		}
	}
	return nil
}

func (f *fakeCollection) Insert(ctx context.Context, s Session, row item) error {
	if f.blockOn != nil {
		<-f.blockOn
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failOn == "insert" {
		return errBackend
	}
	f.writes++
	f.nextID++
	row.ID = f.nextID
	f.rows = append(f.rows, row)
	return nil
}

func (f *fakeCollection) Update(ctx context.Context, s Session, row item) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failOn == "update" {
		return errBackend
	}
	f.writes++
	for i := range f.rows {
		if f.rows[i].ID == row.ID {
			f.rows[i] = row
		}
	}
	return nil
}

func (f *fakeCollection) Delete(ctx context.Context, s Session, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failOn == "delete" {
		return errBackend
	}
	f.writes++
	for i := range f.rows {
		if f.rows[i].ID == id {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeCollection) writeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.writes
}

func (f *fakeCollection) snapshot() []item {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]item, len(f.rows))
	copy(out, f.rows)
	return out
}

var testMessages = Messages[item]{
	Created:      "Registro adicionado com sucesso!",
	Updated:      "Registro atualizado com sucesso!",
	Deleted:      "Registro excluído com sucesso!",
	LoadFailed:   "Erro ao carregar registros.",
	CreateFailed: "Erro ao adicionar registro.",
	UpdateFailed: "Erro ao atualizar registro.",
	DeleteFailed: "Erro ao excluir registro.",
	ConfirmDelete: func(row item) string {
		return "Tem certeza que deseja excluir \"" + row.Name + "\"?"
	},
}

var adminSession = Session{ID: "s-admin", Username: "admin", Role: authz.RoleAdministrator}

// fakeAssignSource: источник для экрана распределения.
type fakeAssignSource struct {
	items    []item
	branches []entities.BranchOption
	assigned map[int64]int64
	fail     bool
}

func (f *fakeAssignSource) Items(ctx context.Context, s Session) ([]item, error) {
	out := make([]item, len(f.items))
	copy(out, f.items)
	return out, nil
}

func (f *fakeAssignSource) Branches(ctx context.Context, s Session) ([]entities.BranchOption, error) {
	return f.branches, nil
}

func (f *fakeAssignSource) Assign(ctx context.Context, s Session, it item, branchID int64) error {
	if f.fail {
		return errBackend
	}
	if f.assigned == nil {
		f.assigned = make(map[int64]int64)
	}
	f.assigned[it.ID] = branchID
	for i := range f.items {
		if f.items[i].ID == it.ID {
			f.items[i].Branch = branchID
		}
	}
	return nil
}
