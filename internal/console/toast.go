package console

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

type ToastKind string

const (
	ToastSuccess ToastKind = "success"
	ToastError   ToastKind = "error"
)

type Toast struct {
	Message string    `json:"message"`
	Kind    ToastKind `json:"kind"`
	ShownAt time.Time `json:"shown_at"`
}

// Toaster: всё, что нужно экранам от уведомлений.
type Toaster interface {
	Show(message string, kind ToastKind)
}

// ToastListener получает каждый переход hidden <-> visible.
type ToastListener func(toast Toast, visible bool)

// Notifier показывает один тост за раз (hidden -> visible -> hidden).
// Новый тост перезаписывает текущий и перезапускает таймер, очереди нет.
type Notifier struct {
	mu         sync.Mutex
	clock      clock.Clock
	ttl        time.Duration
	current    *Toast
	timer      *clock.Timer
	generation uint64
	listener   ToastListener
}

func NewNotifier(clk clock.Clock, ttl time.Duration, listener ToastListener) *Notifier {
	if clk == nil {
		clk = clock.New()
	}
	return &Notifier{clock: clk, ttl: ttl, listener: listener}
}

// Show с пустым сообщением ничего не делает.
func (n *Notifier) Show(message string, kind ToastKind) {
	if message == "" {
		return
	}

	n.mu.Lock()
	if n.timer != nil {
		n.timer.Stop()
	}
	n.generation++
	gen := n.generation
	toast := Toast{Message: message, Kind: kind, ShownAt: n.clock.Now()}
	n.current = &toast
	n.timer = n.clock.AfterFunc(n.ttl, func() { n.expire(gen) })
	n.mu.Unlock()

	n.notify(toast, true)
}

func (n *Notifier) Success(message string) { n.Show(message, ToastSuccess) }

func (n *Notifier) Error(message string) { n.Show(message, ToastError) }

// Close скрывает тост вручную. Повторный вызов безопасен.
func (n *Notifier) Close() {
	n.mu.Lock()
	if n.current == nil {
		n.mu.Unlock()
		return
	}
	toast := *n.current
	n.current = nil
	n.generation++
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
	n.mu.Unlock()

	n.notify(toast, false)
}

func (n *Notifier) Current() (Toast, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.current == nil {
		return Toast{}, false
	}
	return *n.current, true
}

// expire срабатывает по таймеру; устаревший таймер (после Show/Close) игнорируется.
func (n *Notifier) expire(gen uint64) {
	n.mu.Lock()
	if gen != n.generation || n.current == nil {
		n.mu.Unlock()
		return
	}
	toast := *n.current
	n.current = nil
	n.timer = nil
	n.mu.Unlock()

	n.notify(toast, false)
}

func (n *Notifier) notify(toast Toast, visible bool) {
	if n.listener != nil {
		n.listener(toast, visible)
	}
}
