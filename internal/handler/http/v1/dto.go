package v1

import (
	"time"

	"github.com/google/uuid"
)

// PointDTO - точка границы зоны или координаты инцидента
// @Description Географическая точка в WGS84
type PointDTO struct {
	Lat float64 `json:"lat" validate:"latitude"`
	Lng float64 `json:"lng" validate:"longitude"`
}

// CreateZoneRequest DTO для создания зоны
// @Description DTO для создания зоны
type CreateZoneRequest struct {
	Name         string     `json:"name" validate:"required,min=2,max=255"`
	Description  string     `json:"description,omitempty"`
	Kind         string     `json:"kind" validate:"required,oneof=safe monitored restricted high-security"`
	AlertLevel   string     `json:"alert_level" validate:"required,oneof=low medium high"`
	Boundary     []PointDTO `json:"boundary" validate:"required,min=3,dive"`
	Restrictions []string   `json:"restrictions,omitempty"`
}

// UpdateZoneRequest DTO для обновления зоны
// @Description DTO для обновления зоны
type UpdateZoneRequest struct {
	Name         string     `json:"name" validate:"required,min=2,max=255"`
	Description  string     `json:"description,omitempty"`
	Kind         string     `json:"kind" validate:"required,oneof=safe monitored restricted high-security"`
	Status       string     `json:"status" validate:"required,oneof=active inactive"`
	AlertLevel   string     `json:"alert_level" validate:"required,oneof=low medium high"`
	Boundary     []PointDTO `json:"boundary" validate:"required,min=3,dive"`
	Restrictions []string   `json:"restrictions,omitempty"`
}

// ZoneResponse DTO для ответа с информацией о зоне
// @Description DTO для ответа с информацией о зоне
type ZoneResponse struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	Description  string     `json:"description,omitempty"`
	Kind         string     `json:"kind"`
	Status       string     `json:"status"`
	AlertLevel   string     `json:"alert_level"`
	Boundary     []PointDTO `json:"boundary"`
	Restrictions []string   `json:"restrictions,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// CreateIncidentRequest DTO для регистрации инцидента
// @Description DTO для регистрации инцидента
type CreateIncidentRequest struct {
	Kind        string    `json:"kind" validate:"required,min=2,max=255"`
	Location    string    `json:"location,omitempty"`
	Coordinates *PointDTO `json:"coordinates,omitempty"`
	ReportedBy  string    `json:"reported_by" validate:"required"`
}

// ResponseLogEntryDTO - запись журнала реагирования в ответе
// @Description Запись журнала реагирования
type ResponseLogEntryDTO struct {
	Timestamp time.Time `json:"timestamp"`
	Actor     string    `json:"actor"`
	Action    string    `json:"action"`
	Details   string    `json:"details,omitempty"`
}

// IncidentResponse DTO для ответа с информацией об инциденте
// @Description DTO для ответа с информацией об инциденте
type IncidentResponse struct {
	ID                uuid.UUID             `json:"id"`
	Kind              string                `json:"kind"`
	Location          string                `json:"location,omitempty"`
	Coordinates       *PointDTO             `json:"coordinates,omitempty"`
	ReportedBy        string                `json:"reported_by"`
	Status            string                `json:"status"`
	CreatedAt         time.Time             `json:"created_at"`
	AssignedPersonnel []uuid.UUID           `json:"assigned_personnel"`
	AuditTrail        []ResponseLogEntryDTO `json:"audit_trail"`
}

// TransitionRequest DTO для смены статуса инцидента
// @Description DTO для смены статуса инцидента
type TransitionRequest struct {
	TargetStatus string `json:"target_status" validate:"required,oneof=new in-progress resolved"`
	Actor        string `json:"actor" validate:"required"`
}

// AddNoteRequest DTO для добавления заметки в журнал
// @Description DTO для добавления заметки в журнал
type AddNoteRequest struct {
	Actor string `json:"actor" validate:"required"`
	Text  string `json:"text" validate:"required"`
}

// AssignRequest DTO для назначения сотрудников на инцидент
// @Description DTO для назначения сотрудников на инцидент
type AssignRequest struct {
	PersonnelIDs []uuid.UUID `json:"personnel_ids" validate:"required,min=1"`
	Actor        string      `json:"actor" validate:"required"`
}
