package console

import (
	"context"
	"errors"
	"sync"
	"time"

	"tersys/internal/authz"
	apperrors "tersys/pkg/errors"

	"github.com/benbjohnson/clock"
)

// Workspace хранит состояние консоли одной сессии (текущий экран, тост, модалку).
type Workspace struct {
	Session Session
	Toast   *Notifier

	shell *Shell

	mu      sync.Mutex
	current authz.ScreenID
	page    Page
	modal   *Modal
}

func NewWorkspace(session Session, shell *Shell, toast *Notifier) *Workspace {
	return &Workspace{Session: session, shell: shell, Toast: toast}
}

// Navigate монтирует новый экран. Состояние прежнего экрана (редактирование,
// модалка) отбрасывается. Экран возвращается даже при ошибке первичной загрузки.
func (w *Workspace) Navigate(ctx context.Context, id authz.ScreenID) (Page, error) {
	page, err := w.shell.Build(w.Session, id, w.Toast)
	if err != nil {
		return nil, err
	}

	w.mu.Lock()
	w.current = id
	w.page = page
	w.modal = nil
	w.mu.Unlock()

	return page, page.Load(ctx)
}

func (w *Workspace) Current() (authz.ScreenID, Page) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.current, w.page
}

func (w *Workspace) Menu() []authz.NavItem {
	return w.shell.Menu(w.Session.Role)
}

func (w *Workspace) Prompt(m *Modal) {
	w.mu.Lock()
	w.modal = m
	w.mu.Unlock()
}

func (w *Workspace) PendingModal() (*Modal, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.modal, w.modal != nil
}

// ConfirmModal закрывает модалку до вызова обработчика, поэтому повторное
// подтверждение не выполнит действие дважды. Если экран занят, модалка
// возвращается на место и подтверждение можно повторить.
func (w *Workspace) ConfirmModal(ctx context.Context) error {
	m, page := w.takeModal()
	if m == nil {
		return apperrors.ErrNoPendingModal
	}
	err := m.Confirm(ctx)
	if errors.Is(err, apperrors.ErrBusy) {
		w.restoreModal(m, page)
	}
	return err
}

func (w *Workspace) CancelModal(ctx context.Context) error {
	m, _ := w.takeModal()
	if m == nil {
		return apperrors.ErrNoPendingModal
	}
	return m.Cancel(ctx)
}

func (w *Workspace) Close() {
	w.Toast.Close()
	w.mu.Lock()
	w.page = nil
	w.modal = nil
	w.current = ""
	w.mu.Unlock()
}

func (w *Workspace) takeModal() (*Modal, Page) {
	w.mu.Lock()
	defer w.mu.Unlock()
	m := w.modal
	w.modal = nil
	return m, w.page
}

// restoreModal не трогает слот, если за это время сменился экран или появилась новая модалка.
func (w *Workspace) restoreModal(m *Modal, page Page) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.modal == nil && w.page == page {
		w.modal = m
	}
}

// Open возвращает уже смонтированный экран нужного типа или монтирует его заново.
func Open[P Page](ctx context.Context, w *Workspace, id authz.ScreenID) (P, error) {
	var zero P

	current, page := w.Current()
	if current == id && page != nil {
		if p, ok := page.(P); ok {
			return p, nil
		}
	}

	page, err := w.Navigate(ctx, id)
	if page == nil {
		return zero, err
	}
	p, ok := page.(P)
	if !ok {
		return zero, apperrors.ErrNotFound
	}
	return p, err
}

// Workspaces: реестр рабочих пространств по идентификатору сессии.
// Пространство живёт не дольше записи сессии: просроченные вычищаются при каждом Get.
type Workspaces struct {
	mu         sync.Mutex
	items      map[string]*Workspace
	expires    map[string]time.Time
	shell      *Shell
	clock      clock.Clock
	toastTTL   time.Duration
	sessionTTL time.Duration
	publish    func(sessionID string, toast Toast, visible bool)
}

// NewWorkspaces: sessionTTL <= 0 отключает вычистку по времени.
func NewWorkspaces(shell *Shell, clk clock.Clock, toastTTL, sessionTTL time.Duration, publish func(sessionID string, toast Toast, visible bool)) *Workspaces {
	return &Workspaces{
		items:      make(map[string]*Workspace),
		expires:    make(map[string]time.Time),
		shell:      shell,
		clock:      clk,
		toastTTL:   toastTTL,
		sessionTTL: sessionTTL,
		publish:    publish,
	}
}

// Get создаёт пространство при первом обращении сессии.
func (r *Workspaces) Get(s Session) *Workspace {
	r.mu.Lock()
	now := r.clock.Now()
	stale := r.sweepLocked(now, s.ID)

	ws, ok := r.items[s.ID]
	if !ok || ws.Session.Username != s.Username || ws.Session.Role != s.Role {
		if ok {
			stale = append(stale, ws)
		}
		sessionID := s.ID
		notifier := NewNotifier(r.clock, r.toastTTL, func(t Toast, visible bool) {
			if r.publish != nil {
				r.publish(sessionID, t, visible)
			}
		})
		ws = NewWorkspace(s, r.shell, notifier)
		r.items[s.ID] = ws
	}
	if r.sessionTTL > 0 {
		r.expires[s.ID] = r.deadline(s, now)
	}
	r.mu.Unlock()

	for _, old := range stale {
		old.Close()
	}
	return ws
}

// deadline: срок записи сессии считается от её создания. Сессия без метки
// времени (или с расхождением часов) получает полный срок от текущего момента.
func (r *Workspaces) deadline(s Session, now time.Time) time.Time {
	if !s.CreatedAt.IsZero() {
		if d := s.CreatedAt.Add(r.sessionTTL); d.After(now) {
			return d
		}
	}
	return now.Add(r.sessionTTL)
}

// sweepLocked убирает просроченные пространства, кроме запрошенного.
// Закрывать их нужно после снятия блокировки.
func (r *Workspaces) sweepLocked(now time.Time, keep string) []*Workspace {
	var stale []*Workspace
	for id, exp := range r.expires {
		if id == keep || now.Before(exp) {
			continue
		}
		if ws, ok := r.items[id]; ok {
			stale = append(stale, ws)
		}
		delete(r.items, id)
		delete(r.expires, id)
	}
	return stale
}

func (r *Workspaces) Drop(sessionID string) {
	r.mu.Lock()
	ws, ok := r.items[sessionID]
	delete(r.items, sessionID)
	delete(r.expires, sessionID)
	r.mu.Unlock()

	if ok {
		ws.Close()
	}
}

func (r *Workspaces) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}
