package dto

import (
	"strings"

	"tersys/internal/entities"

	"github.com/aarondl/null/v8"
)

type CreateEquipmentDTO struct {
	Name     string `json:"name" validate:"max=100"`
	Plate    string `json:"plate" validate:"max=20"`
	BranchID int64  `json:"branch_id" validate:"gte=0"`
}

func (d CreateEquipmentDTO) ToEntity() entities.Equipment {
	e := entities.Equipment{Name: d.Name}
	if p := strings.TrimSpace(d.Plate); p != "" {
		e.Plate = null.StringFrom(p)
	}
	if d.BranchID > 0 {
		e.BranchID = null.Int64From(d.BranchID)
	}
	return e
}

// branch_id = 0 снимает выбор филиала.
type UpdateEquipmentDTO struct {
	Name     null.String `json:"name" validate:"omitempty,max=100"`
	Plate    null.String `json:"plate" validate:"omitempty,max=20"`
	BranchID null.Int64  `json:"branch_id" validate:"omitempty,gte=0"`
}

func (d UpdateEquipmentDTO) Apply(e *entities.Equipment) {
	if d.Name.Valid {
		e.Name = d.Name.String
	}
	if d.Plate.Valid {
		if p := strings.TrimSpace(d.Plate.String); p != "" {
			e.Plate = null.StringFrom(p)
		} else {
			e.Plate = null.String{}
		}
	}
	if d.BranchID.Valid {
		e.BranchID = optionalID(d.BranchID.Int64)
		e.BranchName = null.String{}
	}
}

func optionalID(id int64) null.Int64 {
	if id <= 0 {
		return null.Int64{}
	}
	return null.Int64From(id)
}
