package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shelepin/campus_safety_system/internal/models"
	"github.com/shelepin/campus_safety_system/pkg/keymutex"
	"github.com/sirupsen/logrus"
)

// IncidentRepository определяет контракт для работы с хранилищем инцидентов.
// UpdateStatusWithLog и AddAssignmentsWithLog атомарны: смена статуса или
// назначение никогда не сохраняется без соответствующей записи журнала.
type IncidentRepository interface {
	Create(ctx context.Context, incident *models.Incident) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Incident, error)
	List(ctx context.Context, filter models.IncidentFilter) ([]*models.Incident, error)
	UpdateStatusWithLog(ctx context.Context, id uuid.UUID, status models.IncidentStatus, entry models.ResponseLogEntry) error
	AppendLog(ctx context.Context, id uuid.UUID, entry models.ResponseLogEntry) error
	AddAssignmentsWithLog(ctx context.Context, id uuid.UUID, personnelIDs []uuid.UUID, entry models.ResponseLogEntry) error
	GetIncidentFromCache(ctx context.Context, id uuid.UUID) (*models.Incident, error)
	SetIncidentCache(ctx context.Context, incident *models.Incident) error
	InvalidateIncidentCache(ctx context.Context, id uuid.UUID) error
}

// PersonnelRoster - внешний ростер сотрудников (система планирования смен).
// Движок только читает его.
type PersonnelRoster interface {
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Personnel, error)
}

// IncidentService определяет контракт для бизнес-логики управления инцидентами
type IncidentService interface {
	CreateIncident(ctx context.Context, incident *models.Incident) error
	GetIncident(ctx context.Context, id uuid.UUID) (*models.Incident, error)
	ListIncidents(ctx context.Context, filter models.IncidentFilter) ([]*models.Incident, error)
	Transition(ctx context.Context, id uuid.UUID, target models.IncidentStatus, actor string) (*models.Incident, error)
	AddNote(ctx context.Context, id uuid.UUID, actor, text string) (*models.Incident, error)
	Assign(ctx context.Context, id uuid.UUID, personnelIDs []uuid.UUID, actor string) (*models.Incident, error)
}

type incidentService struct {
	repo   IncidentRepository
	roster PersonnelRoster
	logger *logrus.Logger

	// locks сериализует мутации одного инцидента: переходы статуса,
	// назначения и заметки проходят через один и тот же домен блокировок,
	// поэтому две конкурирующие операции не теряют записи журнала.
	locks *keymutex.KeyMutex
}

// NewIncidentService создает сервис управления инцидентами
func NewIncidentService(repo IncidentRepository, roster PersonnelRoster, logger *logrus.Logger) IncidentService {
	return &incidentService{
		repo:   repo,
		roster: roster,
		logger: logger,
		locks:  keymutex.New(),
	}
}

// CreateIncident регистрирует новый инцидент: статус "new",
// пустой журнал и пустой набор назначенных сотрудников.
func (s *incidentService) CreateIncident(ctx context.Context, incident *models.Incident) error {
	log := s.logger.WithFields(logrus.Fields{
		"service": "incident",
		"method":  "CreateIncident",
		"kind":    incident.Kind,
	})
	log.Info("Attempting to create a new incident")

	if incident.Kind == "" {
		return fmt.Errorf("incident kind is required: %w", models.ErrValidation)
	}
	if incident.ReportedBy == "" {
		return fmt.Errorf("incident reporter is required: %w", models.ErrValidation)
	}
	if incident.Coordinates != nil && !incident.Coordinates.Valid() {
		return fmt.Errorf("incident coordinates (%f, %f) are out of range: %w",
			incident.Coordinates.Lat, incident.Coordinates.Lng, models.ErrValidation)
	}

	incident.Status = models.IncidentStatusNew
	incident.AssignedPersonnel = nil
	incident.AuditTrail = nil

	if err := s.repo.Create(ctx, incident); err != nil {
		log.WithError(err).Error("Failed to create incident in repository")
		return fmt.Errorf("service: could not create incident: %w", err)
	}

	log.WithField("incident_id", incident.ID).Info("Incident created successfully")
	return nil
}

// GetIncident получает инцидент по ID, сначала из кеша, затем из хранилища
func (s *incidentService) GetIncident(ctx context.Context, id uuid.UUID) (*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "GetIncident",
		"incident_id": id,
	})

	cached, err := s.repo.GetIncidentFromCache(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Failed to read incident cache")
	}
	if cached != nil {
		return cached, nil
	}

	incident, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Failed to get incident from repository")
		return nil, fmt.Errorf("service: could not get incident: %w", err)
	}

	if err := s.repo.SetIncidentCache(ctx, incident); err != nil {
		log.WithError(err).Warn("Failed to set incident cache")
	}

	return incident, nil
}

// ListIncidents возвращает список инцидентов по фильтру
func (s *incidentService) ListIncidents(ctx context.Context, filter models.IncidentFilter) ([]*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "incident",
		"method":  "ListIncidents",
	})

	incidents, err := s.repo.List(ctx, filter)
	if err != nil {
		log.WithError(err).Error("Failed to list incidents from repository")
		return nil, fmt.Errorf("service: could not list incidents: %w", err)
	}

	log.WithField("count", len(incidents)).Info("Incidents listed successfully")
	return incidents, nil
}
