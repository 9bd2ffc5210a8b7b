package console

import "context"

// Modal запрашивает подтверждение. Не хранит состояния и ничего не делает сам:
// только вызывает переданные обработчики.
type Modal struct {
	Message   string
	onConfirm func(ctx context.Context) error
	onCancel  func(ctx context.Context) error
}

func NewModal(message string, onConfirm, onCancel func(ctx context.Context) error) *Modal {
	return &Modal{Message: message, onConfirm: onConfirm, onCancel: onCancel}
}

func (m *Modal) Confirm(ctx context.Context) error {
	if m.onConfirm == nil {
		return nil
	}
	return m.onConfirm(ctx)
}

func (m *Modal) Cancel(ctx context.Context) error {
	if m.onCancel == nil {
		return nil
	}
	return m.onCancel(ctx)
}
