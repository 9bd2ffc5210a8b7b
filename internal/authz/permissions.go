// internal/authz/permissions.go
package authz

import "strings"

// Role: профиль пользователя. Значения совпадают с колонкой app_users.role.
type Role string

const (
	RoleAdministrator Role = "administrador"
	RoleSupervisor    Role = "supervisor"
	RoleDriver        Role = "motorista"
)

var allRoles = []Role{RoleAdministrator, RoleSupervisor, RoleDriver}

func Roles() []Role {
	out := make([]Role, len(allRoles))
	copy(out, allRoles)
	return out
}

func (r Role) Valid() bool {
	for _, known := range allRoles {
		if r == known {
			return true
		}
	}
	return false
}

func (r Role) String() string { return string(r) }

// ParseRole принимает значение без учёта регистра и пробелов по краям.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	return r, r.Valid()
}

// ScreenID: идентификатор экрана навигации.
type ScreenID string

const (
	ScreenDashboard   ScreenID = "dashboard"
	ScreenBranches    ScreenID = "branchManagement"
	ScreenEquipment   ScreenID = "equipmentManagement"
	ScreenUsers       ScreenID = "userManagement"
	ScreenOutsourcing ScreenID = "outsourcingDistribution"
	ScreenTransfer    ScreenID = "branchTransfer"
)

type NavItem struct {
	ID    ScreenID `json:"id"`
	Label string   `json:"label"`
	Icon  string   `json:"icon"`
	Roles []Role   `json:"-"`
}

// NavItems: статический список пунктов меню в порядке отображения.
var NavItems = []NavItem{
	{ID: ScreenDashboard, Label: "Dashboard", Icon: "LayoutDashboard", Roles: []Role{RoleAdministrator, RoleSupervisor, RoleDriver}},
	{ID: ScreenBranches, Label: "Cadastro de Filial", Icon: "Building", Roles: []Role{RoleAdministrator}},
	{ID: ScreenEquipment, Label: "Cadastro de Equipamento", Icon: "Truck", Roles: []Role{RoleAdministrator}},
	{ID: ScreenUsers, Label: "Cadastro de Usuário", Icon: "User", Roles: []Role{RoleAdministrator}},
	{ID: ScreenOutsourcing, Label: "Distribuir Terceirizado", Icon: "ArrowLeftRight", Roles: []Role{RoleAdministrator, RoleSupervisor}},
	{ID: ScreenTransfer, Label: "Transferência entre Filiais", Icon: "ArrowLeftRight", Roles: []Role{RoleAdministrator}},
}
