package dto

import (
	"strings"

	"tersys/internal/entities"

	"github.com/aarondl/null/v8"
)

// Пустое имя проверяется экраном, чтобы вернуть локализованное сообщение.
type CreateBranchDTO struct {
	Name        string `json:"name" validate:"max=100"`
	Responsible string `json:"responsible" validate:"max=100"`
}

func (d CreateBranchDTO) ToEntity() entities.Branch {
	b := entities.Branch{Name: d.Name}
	if r := strings.TrimSpace(d.Responsible); r != "" {
		b.Responsible = null.StringFrom(r)
	}
	return b
}

// UpdateBranchDTO меняет только переданные поля буфера редактирования.
type UpdateBranchDTO struct {
	Name        null.String `json:"name" validate:"omitempty,max=100"`
	Responsible null.String `json:"responsible" validate:"omitempty,max=100"`
}

func (d UpdateBranchDTO) Apply(b *entities.Branch) {
	if d.Name.Valid {
		b.Name = d.Name.String
	}
	if d.Responsible.Valid {
		if r := strings.TrimSpace(d.Responsible.String); r != "" {
			b.Responsible = null.StringFrom(r)
		} else {
			b.Responsible = null.String{}
		}
	}
}
