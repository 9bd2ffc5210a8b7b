package console

import (
	"tersys/internal/authz"
	apperrors "tersys/pkg/errors"
)

// Factory создаёт экран для конкретной сессии.
type Factory func(s Session, toast Toaster) Page

// Shell сопоставляет идентификаторы экранов с фабриками и проверяет права
// при каждом монтировании, независимо от того, что было в меню.
type Shell struct {
	gate      *authz.Gatekeeper
	factories map[authz.ScreenID]Factory
}

func NewShell(gate *authz.Gatekeeper, factories map[authz.ScreenID]Factory) *Shell {
	return &Shell{gate: gate, factories: factories}
}

func (sh *Shell) Menu(role authz.Role) []authz.NavItem {
	return sh.gate.Menu(role)
}

func (sh *Shell) Build(s Session, id authz.ScreenID, toast Toaster) (Page, error) {
	if !s.Valid() {
		return nil, apperrors.ErrUnauthorized
	}
	factory, ok := sh.factories[id]
	if !ok || !sh.gate.Known(id) {
		return nil, apperrors.ErrNotFound
	}
	if !sh.gate.Can(s.Role, id) {
		return nil, apperrors.ErrForbidden
	}
	return factory(s, toast), nil
}
