package models

import "github.com/google/uuid"

// Personnel - сотрудник службы безопасности из внешнего ростера.
// Движок только читает эти данные, владеет ими система планирования смен.
type Personnel struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Role   string    `json:"role"`
	OnDuty bool      `json:"on_duty"`
}
