package models

import (
	"time"

	"github.com/google/uuid"
)

// ZoneKind - классификация зоны безопасности
type ZoneKind string

const (
	ZoneKindSafe         ZoneKind = "safe"
	ZoneKindMonitored    ZoneKind = "monitored"
	ZoneKindRestricted   ZoneKind = "restricted"
	ZoneKindHighSecurity ZoneKind = "high-security"
)

// ZoneStatus - статус активации зоны
type ZoneStatus string

const (
	ZoneStatusActive   ZoneStatus = "active"
	ZoneStatusInactive ZoneStatus = "inactive"
)

// AlertLevel - уровень тревоги зоны
type AlertLevel string

const (
	AlertLevelLow    AlertLevel = "low"
	AlertLevelMedium AlertLevel = "medium"
	AlertLevelHigh   AlertLevel = "high"
)

// Zone представляет именованную полигональную зону с классификацией безопасности
type Zone struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	Description  string     `json:"description"`
	Kind         ZoneKind   `json:"kind"`
	Status       ZoneStatus `json:"status"`
	AlertLevel   AlertLevel `json:"alert_level"`
	Boundary     []Point    `json:"boundary"`
	Restrictions []string   `json:"restrictions"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Clone возвращает глубокую копию зоны, чтобы не отдавать внутренние ссылки
func (z *Zone) Clone() *Zone {
	if z == nil {
		return nil
	}

	cloned := *z
	cloned.Boundary = append([]Point(nil), z.Boundary...)
	cloned.Restrictions = append([]string(nil), z.Restrictions...)

	return &cloned
}
