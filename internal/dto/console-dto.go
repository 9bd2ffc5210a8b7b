package dto

import "tersys/internal/authz"

// AssignDTO: выбор записи и филиала на экранах распределения.
type AssignDTO struct {
	ItemID   int64 `json:"item_id" validate:"gte=0"`
	BranchID int64 `json:"branch_id" validate:"gte=0"`
}

type ShellDTO struct {
	Username string          `json:"username"`
	Role     authz.Role      `json:"role"`
	Menu     []authz.NavItem `json:"menu"`
	Current  authz.ScreenID  `json:"current,omitempty"`
}

type ModalDTO struct {
	Message string `json:"message"`
}
