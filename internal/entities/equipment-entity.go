package entities

import (
	"time"

	"github.com/aarondl/null/v8"
)

type Equipment struct {
	ID         int64       `json:"id" db:"id"`
	Name       string      `json:"name" db:"name"`
	Plate      null.String `json:"plate" db:"plate"`
	BranchID   null.Int64  `json:"branch_id" db:"branch_id"`
	BranchName null.String `json:"branch_name" db:"-"`
	CreatedBy  null.String `json:"created_by" db:"created_by"`
	CreatedAt  time.Time   `json:"created_at" db:"created_at"`
}

func (e Equipment) RecordID() int64 { return e.ID }

// BranchRef: текущий филиал оборудования, 0 если не назначен.
func (e Equipment) BranchRef() int64 { return e.BranchID.Int64 }

// EquipmentTransfer: запись журнала переводов между филиалами.
type EquipmentTransfer struct {
	ID             int64       `json:"id" db:"id"`
	EquipmentID    int64       `json:"equipment_id" db:"equipment_id"`
	EquipmentName  string      `json:"equipment_name" db:"-"`
	FromBranchID   null.Int64  `json:"from_branch_id" db:"from_branch_id"`
	FromBranchName null.String `json:"from_branch_name" db:"-"`
	ToBranchID     null.Int64  `json:"to_branch_id" db:"to_branch_id"`
	ToBranchName   null.String `json:"to_branch_name" db:"-"`
	TransferredBy  string      `json:"transferred_by" db:"transferred_by"`
	TransferredAt  time.Time   `json:"transferred_at" db:"transferred_at"`
}
