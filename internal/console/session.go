package console

import (
	"time"

	"tersys/internal/authz"
)

// Session: неизменяемое значение текущего пользователя.
// Экраны получают его явно при создании и никогда не меняют.
type Session struct {
	ID        string     `json:"id"`
	Username  string     `json:"username"`
	Role      authz.Role `json:"role"`
	CreatedAt time.Time  `json:"created_at"`
}

func (s Session) Valid() bool {
	return s.ID != "" && s.Username != "" && s.Role.Valid()
}
