package entities

import (
	"time"

	"github.com/aarondl/null/v8"
)

// Branch: филиал (таблица filiais).
type Branch struct {
	ID                int64       `json:"id" db:"id"`
	Name              string      `json:"name" db:"name"`
	Responsible       null.String `json:"responsible" db:"responsible"`
	CreatedByUsername string      `json:"created_by_username" db:"created_by_username"`
	CreatedAt         time.Time   `json:"created_at" db:"created_at"`
}

func (b Branch) RecordID() int64 { return b.ID }

// BranchOption: облегчённая запись филиала для выпадающих списков.
type BranchOption struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}
