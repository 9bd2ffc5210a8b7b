package console

import (
	"context"
	"errors"
	"sync"

	"tersys/internal/authz"
	apperrors "tersys/pkg/errors"

	"go.uber.org/zap"
)

// Record: строка таблицы экрана.
type Record interface {
	RecordID() int64
}

// Collection: всё, что экран знает о своей сущности.
// Normalize выполняется локально, до любого обращения к БД,
// и возвращает *apperrors.ValidationError при пустых или неверных полях.
// Conflict проверяет дубликат имени (excludeID = 0 при создании).
type Collection[T Record] interface {
	List(ctx context.Context, s Session) ([]T, error)
	Normalize(draft T, editing bool) (T, error)
	Conflict(ctx context.Context, row T, excludeID int64) error
	Insert(ctx context.Context, s Session, row T) error
	Update(ctx context.Context, s Session, row T) error
	Delete(ctx context.Context, s Session, id int64) error
}

// LookupLoader: необязательные справочники для выпадающих списков.
type LookupLoader interface {
	Lookups(ctx context.Context, s Session) (map[string]any, error)
}

// Blanker задаёт начальное значение формы создания.
type Blanker[T any] interface {
	Blank() T
}

// Messages: тексты уведомлений одного экрана.
type Messages[T any] struct {
	Created string
	Updated string
	Deleted string

	LoadFailed   string
	CreateFailed string
	UpdateFailed string
	DeleteFailed string

	ConfirmDelete func(row T) string
}

// Page: экран, который можно смонтировать в оболочке.
type Page interface {
	ScreenID() authz.ScreenID
	Load(ctx context.Context) error
}

type View[T any] struct {
	Screen  authz.ScreenID `json:"screen"`
	Rows    []T            `json:"rows"`
	Lookups map[string]any `json:"lookups,omitempty"`
	Form    T              `json:"form"`
	Editing *T             `json:"editing,omitempty"`
	Loading bool           `json:"loading"`
	Error   string         `json:"error,omitempty"`
}

// Screen: общий CRUD-экран. Список, форма создания, редактирование одной строки
// с откатом и удаление через подтверждение. После каждой успешной записи список
// перечитывается целиком.
type Screen[T Record] struct {
	id      authz.ScreenID
	session Session
	coll    Collection[T]
	toast   Toaster
	logger  *zap.Logger
	msgs    Messages[T]

	mu       sync.Mutex
	rows     []T
	lookups  map[string]any
	form     T
	editing  *T
	rollback *T
	loading  bool
	err      string
}

func NewScreen[T Record](id authz.ScreenID, session Session, coll Collection[T], msgs Messages[T], toast Toaster, logger *zap.Logger) *Screen[T] {
	s := &Screen[T]{
		id:      id,
		session: session,
		coll:    coll,
		toast:   toast,
		logger:  logger,
		msgs:    msgs,
	}
	s.form = s.blank()
	return s
}

func (s *Screen[T]) ScreenID() authz.ScreenID { return s.id }

func (s *Screen[T]) Load(ctx context.Context) error {
	if err := s.begin(); err != nil {
		return err
	}
	defer s.end()

	return s.reload(ctx)
}

func (s *Screen[T]) Create(ctx context.Context, draft T) error {
	if err := s.begin(); err != nil {
		return err
	}
	defer s.end()

	s.mu.Lock()
	s.form = draft
	s.mu.Unlock()

	row, err := s.coll.Normalize(draft, false)
	if err != nil {
		return s.reject(err, s.msgs.CreateFailed, "normalize")
	}
	if err := s.coll.Conflict(ctx, row, 0); err != nil {
		return s.reject(err, s.msgs.CreateFailed, "conflict")
	}
	if err := s.coll.Insert(ctx, s.session, row); err != nil {
		return s.reject(err, s.msgs.CreateFailed, "insert")
	}

	s.mu.Lock()
	s.form = s.blank()
	s.err = ""
	s.mu.Unlock()

	s.toast.Show(s.msgs.Created, ToastSuccess)
	return s.reload(ctx)
}

// BeginEdit запоминает исходную строку для отката. Если уже редактировалась
// другая строка, её изменения отбрасываются.
func (s *Screen[T]) BeginEdit(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loading {
		return apperrors.ErrBusy
	}
	idx := s.indexOf(id)
	if idx < 0 {
		return apperrors.ErrNotFound
	}
	s.restoreLocked()

	buf, original := s.rows[idx], s.rows[idx]
	s.editing = &buf
	s.rollback = &original
	s.err = ""
	return nil
}

// ChangeEdit меняет только буфер редактирования, строки таблицы не трогает.
func (s *Screen[T]) ChangeEdit(id int64, mutate func(row *T)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.editing == nil || (*s.editing).RecordID() != id {
		return apperrors.ErrNotEditing
	}
	next := *s.editing
	mutate(&next)
	if next.RecordID() != id {
		return apperrors.ErrBadRequest
	}
	s.editing = &next
	return nil
}

func (s *Screen[T]) SaveEdit(ctx context.Context) error {
	if err := s.begin(); err != nil {
		return err
	}
	defer s.end()

	s.mu.Lock()
	if s.editing == nil {
		s.mu.Unlock()
		return apperrors.ErrNotEditing
	}
	buf := *s.editing
	s.mu.Unlock()

	row, err := s.coll.Normalize(buf, true)
	if err != nil {
		return s.reject(err, s.msgs.UpdateFailed, "normalize")
	}
	if err := s.coll.Conflict(ctx, row, row.RecordID()); err != nil {
		return s.reject(err, s.msgs.UpdateFailed, "conflict")
	}
	if err := s.coll.Update(ctx, s.session, row); err != nil {
		return s.reject(err, s.msgs.UpdateFailed, "update")
	}

	s.mu.Lock()
	s.editing = nil
	s.rollback = nil
	s.err = ""
	s.mu.Unlock()

	s.toast.Show(s.msgs.Updated, ToastSuccess)
	return s.reload(ctx)
}

// CancelEdit возвращает исходную строку без обращения к БД.
func (s *Screen[T]) CancelEdit() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.editing == nil {
		return apperrors.ErrNotEditing
	}
	s.restoreLocked()
	s.err = ""
	return nil
}

// RequestDelete ничего не удаляет: возвращает модалку, подтверждение которой
// выполнит удаление.
func (s *Screen[T]) RequestDelete(id int64) (*Modal, error) {
	s.mu.Lock()
	if s.loading {
		s.mu.Unlock()
		return nil, apperrors.ErrBusy
	}
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return nil, apperrors.ErrNotFound
	}
	target := s.rows[idx]
	s.mu.Unlock()

	message := "Tem certeza que deseja excluir este registro?"
	if s.msgs.ConfirmDelete != nil {
		message = s.msgs.ConfirmDelete(target)
	}
	return NewModal(message,
		func(ctx context.Context) error { return s.remove(ctx, target.RecordID()) },
		nil,
	), nil
}

func (s *Screen[T]) View() View[T] {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := make([]T, len(s.rows))
	copy(rows, s.rows)

	var editing *T
	if s.editing != nil {
		buf := *s.editing
		editing = &buf
	}

	return View[T]{
		Screen:  s.id,
		Rows:    rows,
		Lookups: s.lookups,
		Form:    s.form,
		Editing: editing,
		Loading: s.loading,
		Error:   s.err,
	}
}

func (s *Screen[T]) remove(ctx context.Context, id int64) error {
	if err := s.begin(); err != nil {
		return err
	}
	defer s.end()

	if err := s.coll.Delete(ctx, s.session, id); err != nil {
		return s.fail(s.msgs.DeleteFailed, "delete", err)
	}

	s.mu.Lock()
	if s.editing != nil && (*s.editing).RecordID() == id {
		s.editing = nil
		s.rollback = nil
	}
	s.err = ""
	s.mu.Unlock()

	s.toast.Show(s.msgs.Deleted, ToastSuccess)
	return s.reload(ctx)
}

func (s *Screen[T]) reload(ctx context.Context) error {
	rows, err := s.coll.List(ctx, s.session)
	if err != nil {
		return s.fail(s.msgs.LoadFailed, "list", err)
	}

	var lookups map[string]any
	if loader, ok := s.coll.(LookupLoader); ok {
		if lookups, err = loader.Lookups(ctx, s.session); err != nil {
			return s.fail(s.msgs.LoadFailed, "lookups", err)
		}
	}

	s.mu.Lock()
	s.rows = rows
	if lookups != nil {
		s.lookups = lookups
	}
	s.mu.Unlock()
	return nil
}

func (s *Screen[T]) begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loading {
		return apperrors.ErrBusy
	}
	s.loading = true
	return nil
}

func (s *Screen[T]) end() {
	s.mu.Lock()
	s.loading = false
	s.mu.Unlock()
}

// reject показывает ошибку проверки; прочие ошибки считаются сбоем операции.
func (s *Screen[T]) reject(err error, failMessage, op string) error {
	var validationErr *apperrors.ValidationError
	if !errors.As(err, &validationErr) {
		return s.fail(failMessage, op, err)
	}

	s.mu.Lock()
	s.err = validationErr.Inline
	s.mu.Unlock()

	s.toast.Show(validationErr.Toast, ToastError)
	return validationErr
}

func (s *Screen[T]) fail(message, op string, err error) error {
	s.logger.Error("Ошибка операции экрана",
		zap.String("screen", string(s.id)),
		zap.String("op", op),
		zap.String("username", s.session.Username),
		zap.Error(err),
	)

	s.mu.Lock()
	s.err = message
	s.mu.Unlock()

	s.toast.Show(message, ToastError)
	return apperrors.NewOperationError(message, err)
}

func (s *Screen[T]) restoreLocked() {
	if s.rollback != nil {
		if idx := s.indexOf((*s.rollback).RecordID()); idx >= 0 {
			s.rows[idx] = *s.rollback
		}
	}
	s.editing = nil
	s.rollback = nil
}

func (s *Screen[T]) indexOf(id int64) int {
	for i, row := range s.rows {
		if row.RecordID() == id {
			return i
		}
	}
	return -1
}

func (s *Screen[T]) blank() T {
	if b, ok := s.coll.(Blanker[T]); ok {
		return b.Blank()
	}
	var zero T
	return zero
}
