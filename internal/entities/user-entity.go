// Файл: internal/entities/user-entity.go
package entities

import (
	"time"

	"tersys/internal/authz"

	"github.com/aarondl/null/v8"
)

// User: учётная запись (таблица app_users).
type User struct {
	ID       int64  `json:"id" db:"id"`
	Username string `json:"username" db:"username"`

	// Password приходит из формы и живёт только до хеширования.
	Password     string `json:"-" db:"-"`
	PasswordHash string `json:"-" db:"password_hash"`

	Role       authz.Role  `json:"role" db:"role"`
	BranchID   null.Int64  `json:"branch_id" db:"branch_id"`
	BranchName null.String `json:"branch_name" db:"-"`
	CreatedBy  null.String `json:"created_by" db:"created_by"`
	CreatedAt  time.Time   `json:"created_at" db:"created_at"`
}

func (u User) RecordID() int64 { return u.ID }
