package v1

import "github.com/shelepin/campus_safety_system/internal/models"

func pointsToModel(points []PointDTO) []models.Point {
	boundary := make([]models.Point, len(points))
	for i, p := range points {
		boundary[i] = models.Point{Lat: p.Lat, Lng: p.Lng}
	}
	return boundary
}

func pointsToDTO(points []models.Point) []PointDTO {
	boundary := make([]PointDTO, len(points))
	for i, p := range points {
		boundary[i] = PointDTO{Lat: p.Lat, Lng: p.Lng}
	}
	return boundary
}

// DTOToZoneModel преобразует DTO создания/обновления в доменную модель.
// Используем одну функцию, так как поля совпадают.
func DTOToZoneModel(dto any) *models.Zone {
	switch v := dto.(type) {
	case CreateZoneRequest:
		return &models.Zone{
			Name:         v.Name,
			Description:  v.Description,
			Kind:         models.ZoneKind(v.Kind),
			AlertLevel:   models.AlertLevel(v.AlertLevel),
			Boundary:     pointsToModel(v.Boundary),
			Restrictions: v.Restrictions,
		}
	case UpdateZoneRequest:
		return &models.Zone{
			Name:         v.Name,
			Description:  v.Description,
			Kind:         models.ZoneKind(v.Kind),
			Status:       models.ZoneStatus(v.Status),
			AlertLevel:   models.AlertLevel(v.AlertLevel),
			Boundary:     pointsToModel(v.Boundary),
			Restrictions: v.Restrictions,
		}
	}
	return nil
}

// ModelToZoneResponse преобразует доменную модель в DTO для ответа
func ModelToZoneResponse(model *models.Zone) *ZoneResponse {
	return &ZoneResponse{
		ID:           model.ID,
		Name:         model.Name,
		Description:  model.Description,
		Kind:         string(model.Kind),
		Status:       string(model.Status),
		AlertLevel:   string(model.AlertLevel),
		Boundary:     pointsToDTO(model.Boundary),
		Restrictions: model.Restrictions,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}
}

// ModelsToZoneResponses преобразует слайс моделей в слайс DTO
func ModelsToZoneResponses(zones []*models.Zone) []*ZoneResponse {
	responses := make([]*ZoneResponse, len(zones))
	for i, zone := range zones {
		responses[i] = ModelToZoneResponse(zone)
	}
	return responses
}

// DTOToIncidentModel преобразует DTO регистрации инцидента в доменную модель
func DTOToIncidentModel(dto CreateIncidentRequest) *models.Incident {
	incident := &models.Incident{
		Kind:       dto.Kind,
		Location:   dto.Location,
		ReportedBy: dto.ReportedBy,
	}
	if dto.Coordinates != nil {
		incident.Coordinates = &models.Point{
			Lat: dto.Coordinates.Lat,
			Lng: dto.Coordinates.Lng,
		}
	}
	return incident
}

// ModelToIncidentResponse преобразует доменную модель в DTO для ответа
func ModelToIncidentResponse(model *models.Incident) *IncidentResponse {
	resp := &IncidentResponse{
		ID:                model.ID,
		Kind:              model.Kind,
		Location:          model.Location,
		ReportedBy:        model.ReportedBy,
		Status:            string(model.Status),
		CreatedAt:         model.CreatedAt,
		AssignedPersonnel: model.AssignedPersonnel,
		AuditTrail:        make([]ResponseLogEntryDTO, len(model.AuditTrail)),
	}
	if model.Coordinates != nil {
		resp.Coordinates = &PointDTO{
			Lat: model.Coordinates.Lat,
			Lng: model.Coordinates.Lng,
		}
	}
	for i, entry := range model.AuditTrail {
		resp.AuditTrail[i] = ResponseLogEntryDTO{
			Timestamp: entry.Timestamp,
			Actor:     entry.Actor,
			Action:    entry.Action,
			Details:   entry.Details,
		}
	}
	return resp
}

// ModelsToIncidentResponses преобразует слайс моделей в слайс DTO
func ModelsToIncidentResponses(incidents []*models.Incident) []*IncidentResponse {
	responses := make([]*IncidentResponse, len(incidents))
	for i, incident := range incidents {
		responses[i] = ModelToIncidentResponse(incident)
	}
	return responses
}
