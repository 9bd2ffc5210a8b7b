package console

import (
	"context"
	"errors"
	"sync"

	"tersys/internal/authz"
	"tersys/internal/entities"
	apperrors "tersys/pkg/errors"

	"go.uber.org/zap"
)

// Assignable: запись, привязанная к филиалу.
type Assignable interface {
	Record
	BranchRef() int64
}

// AssignSource: источник данных экрана распределения по филиалам.
// Branches уже учитывает ограничения роли.
type AssignSource[T Assignable] interface {
	Items(ctx context.Context, s Session) ([]T, error)
	Branches(ctx context.Context, s Session) ([]entities.BranchOption, error)
	Assign(ctx context.Context, s Session, item T, branchID int64) error
}

type AssignMessages struct {
	Missing    string
	SameBranch string
	OutOfScope string
	Done       string
	Failed     string
	LoadFailed string
}

type AssignView[T any] struct {
	Screen         authz.ScreenID          `json:"screen"`
	Items          []T                     `json:"items"`
	Branches       []entities.BranchOption `json:"branches"`
	Lookups        map[string]any          `json:"lookups,omitempty"`
	SelectedItem   int64                   `json:"selected_item,omitempty"`
	SelectedBranch int64                   `json:"selected_branch,omitempty"`
	Loading        bool                    `json:"loading"`
	Error          string                  `json:"error,omitempty"`
}

// Assigner: экран «выбрать запись, выбрать филиал, назначить».
type Assigner[T Assignable] struct {
	id      authz.ScreenID
	session Session
	src     AssignSource[T]
	toast   Toaster
	logger  *zap.Logger
	msgs    AssignMessages

	mu             sync.Mutex
	items          []T
	branches       []entities.BranchOption
	lookups        map[string]any
	selectedItem   int64
	selectedBranch int64
	loading        bool
	err            string
}

func NewAssigner[T Assignable](id authz.ScreenID, session Session, src AssignSource[T], msgs AssignMessages, toast Toaster, logger *zap.Logger) *Assigner[T] {
	return &Assigner[T]{
		id:      id,
		session: session,
		src:     src,
		toast:   toast,
		logger:  logger,
		msgs:    msgs,
	}
}

func (a *Assigner[T]) ScreenID() authz.ScreenID { return a.id }

func (a *Assigner[T]) Load(ctx context.Context) error {
	if err := a.begin(); err != nil {
		return err
	}
	defer a.end()

	return a.reload(ctx)
}

// Select запоминает выбор без проверки; проверка выполняется в Assign.
func (a *Assigner[T]) Select(itemID, branchID int64) {
	a.mu.Lock()
	a.selectedItem = itemID
	a.selectedBranch = branchID
	a.mu.Unlock()
}

// Assign назначает выбранную запись филиалу. Выбор сбрасывается в любом случае.
func (a *Assigner[T]) Assign(ctx context.Context, itemID, branchID int64) error {
	if err := a.begin(); err != nil {
		return err
	}
	defer a.end()

	a.Select(itemID, branchID)
	defer a.Select(0, 0)

	if itemID == 0 || branchID == 0 {
		return a.reject(apperrors.NewValidationError(a.msgs.Missing, ""))
	}

	a.mu.Lock()
	item, found := a.findItem(itemID)
	inScope := a.hasBranch(branchID)
	a.mu.Unlock()

	if !found {
		return a.reject(apperrors.NewValidationError(a.msgs.Missing, ""))
	}
	if !inScope {
		return a.reject(apperrors.NewValidationError(a.msgs.OutOfScope, a.msgs.OutOfScope))
	}
	if a.msgs.SameBranch != "" && item.BranchRef() == branchID {
		return a.reject(apperrors.NewValidationError(a.msgs.SameBranch, a.msgs.SameBranch))
	}

	if err := a.src.Assign(ctx, a.session, item, branchID); err != nil {
		var validationErr *apperrors.ValidationError
		if errors.As(err, &validationErr) {
			return a.reject(validationErr)
		}
		return a.fail(a.msgs.Failed, "assign", err)
	}

	a.mu.Lock()
	a.err = ""
	a.mu.Unlock()

	a.toast.Show(a.msgs.Done, ToastSuccess)
	return a.reload(ctx)
}

func (a *Assigner[T]) View() AssignView[T] {
	a.mu.Lock()
	defer a.mu.Unlock()

	items := make([]T, len(a.items))
	copy(items, a.items)
	branches := make([]entities.BranchOption, len(a.branches))
	copy(branches, a.branches)

	return AssignView[T]{
		Screen:         a.id,
		Items:          items,
		Branches:       branches,
		Lookups:        a.lookups,
		SelectedItem:   a.selectedItem,
		SelectedBranch: a.selectedBranch,
		Loading:        a.loading,
		Error:          a.err,
	}
}

func (a *Assigner[T]) reload(ctx context.Context) error {
	items, err := a.src.Items(ctx, a.session)
	if err != nil {
		return a.fail(a.msgs.LoadFailed, "items", err)
	}
	branches, err := a.src.Branches(ctx, a.session)
	if err != nil {
		return a.fail(a.msgs.LoadFailed, "branches", err)
	}

	var lookups map[string]any
	if loader, ok := a.src.(LookupLoader); ok {
		if lookups, err = loader.Lookups(ctx, a.session); err != nil {
			return a.fail(a.msgs.LoadFailed, "lookups", err)
		}
	}

	a.mu.Lock()
	a.items = items
	a.branches = branches
	if lookups != nil {
		a.lookups = lookups
	}
	a.mu.Unlock()
	return nil
}

func (a *Assigner[T]) begin() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.loading {
		return apperrors.ErrBusy
	}
	a.loading = true
	return nil
}

func (a *Assigner[T]) end() {
	a.mu.Lock()
	a.loading = false
	a.mu.Unlock()
}

func (a *Assigner[T]) reject(err *apperrors.ValidationError) error {
	a.mu.Lock()
	a.err = err.Inline
	a.mu.Unlock()

	a.toast.Show(err.Toast, ToastError)
	return err
}

func (a *Assigner[T]) fail(message, op string, err error) error {
	a.logger.Error("Ошибка распределения",
		zap.String("screen", string(a.id)),
		zap.String("op", op),
		zap.String("username", a.session.Username),
		zap.Error(err),
	)

	a.mu.Lock()
	a.err = message
	a.mu.Unlock()

	a.toast.Show(message, ToastError)
	return apperrors.NewOperationError(message, err)
}

func (a *Assigner[T]) findItem(id int64) (T, bool) {
	for _, item := range a.items {
		if item.RecordID() == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

func (a *Assigner[T]) hasBranch(id int64) bool {
	for _, b := range a.branches {
		if b.ID == id {
			return true
		}
	}
	return false
}
