package models

import (
	"time"

	"github.com/google/uuid"
)

// IncidentStatus - статус инцидента в жизненном цикле
type IncidentStatus string

const (
	IncidentStatusNew        IncidentStatus = "new"
	IncidentStatusInProgress IncidentStatus = "in-progress"
	IncidentStatusResolved   IncidentStatus = "resolved"
)

// ResponseLogEntry - одна запись журнала реагирования.
// Журнал append-only, временные метки внутри одного инцидента не убывают.
type ResponseLogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Actor     string    `json:"actor"`
	Action    string    `json:"action"`
	Details   string    `json:"details,omitempty"`
}

// Incident представляет зарегистрированное происшествие с журналом реагирования
type Incident struct {
	ID                uuid.UUID          `json:"id"`
	Kind              string             `json:"kind"`
	Location          string             `json:"location"`
	Coordinates       *Point             `json:"coordinates,omitempty"`
	ReportedBy        string             `json:"reported_by"`
	Status            IncidentStatus     `json:"status"`
	CreatedAt         time.Time          `json:"created_at"`
	AssignedPersonnel []uuid.UUID        `json:"assigned_personnel"`
	AuditTrail        []ResponseLogEntry `json:"audit_trail"`
}

// Clone возвращает глубокую копию инцидента, чтобы не отдавать внутренние ссылки
func (i *Incident) Clone() *Incident {
	if i == nil {
		return nil
	}

	cloned := *i
	if i.Coordinates != nil {
		coords := *i.Coordinates
		cloned.Coordinates = &coords
	}
	cloned.AssignedPersonnel = append([]uuid.UUID(nil), i.AssignedPersonnel...)
	cloned.AuditTrail = append([]ResponseLogEntry(nil), i.AuditTrail...)

	return &cloned
}

// IsAssigned сообщает, назначен ли сотрудник на инцидент
func (i *Incident) IsAssigned(personnelID uuid.UUID) bool {
	for _, id := range i.AssignedPersonnel {
		if id == personnelID {
			return true
		}
	}
	return false
}
