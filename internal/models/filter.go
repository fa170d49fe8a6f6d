package models

// ZoneFilter - фильтр для выборки зон. Пустые поля означают "без ограничения".
type ZoneFilter struct {
	Kind   ZoneKind
	Status ZoneStatus
}

// IncidentFilter - фильтр для выборки инцидентов. Пустые поля означают "без ограничения".
type IncidentFilter struct {
	Status IncidentStatus
	Kind   string
}
