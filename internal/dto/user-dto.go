package dto

import (
	"tersys/internal/authz"
	"tersys/internal/entities"

	"github.com/aarondl/null/v8"
)

type CreateUserDTO struct {
	Username string `json:"username" validate:"max=50"`
	Password string `json:"password" validate:"max=72"`
	Role     string `json:"role" validate:"omitempty,role"`
	BranchID int64  `json:"branch_id" validate:"gte=0"`
}

// ToEntity: пустая роль остаётся пустой, значение по умолчанию подставляет экран.
func (d CreateUserDTO) ToEntity() entities.User {
	u := entities.User{
		Username: d.Username,
		Password: d.Password,
		BranchID: optionalID(d.BranchID),
	}
	if role, ok := authz.ParseRole(d.Role); ok {
		u.Role = role
	}
	return u
}

// Пустой пароль при редактировании оставляет прежний.
type UpdateUserDTO struct {
	Username null.String `json:"username" validate:"omitempty,max=50"`
	Password null.String `json:"password" validate:"omitempty,max=72"`
	Role     null.String `json:"role" validate:"omitempty,role"`
	BranchID null.Int64  `json:"branch_id" validate:"omitempty,gte=0"`
}

func (d UpdateUserDTO) Apply(u *entities.User) {
	if d.Username.Valid {
		u.Username = d.Username.String
	}
	if d.Password.Valid {
		u.Password = d.Password.String
	}
	if d.Role.Valid {
		if role, ok := authz.ParseRole(d.Role.String); ok {
			u.Role = role
		}
	}
	if d.BranchID.Valid {
		u.BranchID = optionalID(d.BranchID.Int64)
		u.BranchName = null.String{}
	}
}
