package authz

// Gatekeeper: таблица возможностей роль -> экраны, собранная из NavItems.
type Gatekeeper struct {
	capabilities map[Role]map[ScreenID]bool
	items        []NavItem
}

func NewGatekeeper(items []NavItem) *Gatekeeper {
	g := &Gatekeeper{
		capabilities: make(map[Role]map[ScreenID]bool),
		items:        items,
	}
	for _, item := range items {
		for _, role := range item.Roles {
			if g.capabilities[role] == nil {
				g.capabilities[role] = make(map[ScreenID]bool)
			}
			g.capabilities[role][item.ID] = true
		}
	}
	return g
}

// Can: неизвестная роль или неизвестный экран всегда дают false.
func (g *Gatekeeper) Can(role Role, screen ScreenID) bool {
	return g.capabilities[role][screen]
}

// Menu возвращает только пункты, разрешённые роли, сохраняя порядок.
func (g *Gatekeeper) Menu(role Role) []NavItem {
	menu := make([]NavItem, 0, len(g.items))
	for _, item := range g.items {
		if g.Can(role, item.ID) {
			menu = append(menu, item)
		}
	}
	return menu
}

// Known сообщает, существует ли экран в таблице навигации.
func (g *Gatekeeper) Known(screen ScreenID) bool {
	for _, item := range g.items {
		if item.ID == screen {
			return true
		}
	}
	return false
}

// ResponsibleScope: супервизор видит только филиалы, где он ответственный.
// Пустая строка означает отсутствие ограничения.
func ResponsibleScope(role Role, username string) string {
	if role == RoleSupervisor {
		return username
	}
	return ""
}
