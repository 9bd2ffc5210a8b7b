package entities

import (
	"time"

	"github.com/aarondl/null/v8"
)

// OutsourcedWorker: терцеиризованный сотрудник (таблица terceirizados).
type OutsourcedWorker struct {
	ID         int64       `json:"id" db:"id"`
	Name       string      `json:"name" db:"name"`
	Document   null.String `json:"document" db:"document"`
	BranchID   null.Int64  `json:"branch_id" db:"branch_id"`
	BranchName null.String `json:"branch_name" db:"-"`
	CreatedAt  time.Time   `json:"created_at" db:"created_at"`
}

func (w OutsourcedWorker) RecordID() int64 { return w.ID }

func (w OutsourcedWorker) BranchRef() int64 { return w.BranchID.Int64 }
