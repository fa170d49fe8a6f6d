package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shelepin/campus_safety_system/internal/models"
	"github.com/shelepin/campus_safety_system/internal/service"
)

type IncidentStore struct {
	mu        sync.RWMutex
	incidents map[uuid.UUID]*models.Incident
}

func NewIncidentStore() service.IncidentRepository {
	return &IncidentStore{
		incidents: make(map[uuid.UUID]*models.Incident),
	}
}

// Create сохраняет новый инцидент, присваивая id и дату создания
func (s *IncidentStore) Create(_ context.Context, incident *models.Incident) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	incident.ID = uuid.New()
	incident.CreatedAt = time.Now()

	s.incidents[incident.ID] = incident.Clone()
	return nil
}

// GetByID возвращает копию инцидента по id
func (s *IncidentStore) GetByID(_ context.Context, id uuid.UUID) (*models.Incident, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	incident, ok := s.incidents[id]
	if !ok {
		return nil, fmt.Errorf("incident with id %s: %w", id, models.ErrNotFound)
	}
	return incident.Clone(), nil
}

// List возвращает копии инцидентов по фильтру
func (s *IncidentStore) List(_ context.Context, filter models.IncidentFilter) ([]*models.Incident, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	incidents := make([]*models.Incident, 0, len(s.incidents))
	for _, incident := range s.incidents {
		if filter.Status != "" && incident.Status != filter.Status {
			continue
		}
		if filter.Kind != "" && incident.Kind != filter.Kind {
			continue
		}
		incidents = append(incidents, incident.Clone())
	}
	return incidents, nil
}

// UpdateStatusWithLog атомарно меняет статус и добавляет запись журнала
func (s *IncidentStore) UpdateStatusWithLog(_ context.Context, id uuid.UUID, status models.IncidentStatus, entry models.ResponseLogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	incident, ok := s.incidents[id]
	if !ok {
		return fmt.Errorf("incident with id %s: %w", id, models.ErrNotFound)
	}

	incident.Status = status
	incident.AuditTrail = append(incident.AuditTrail, stampEntry(incident, entry))
	return nil
}

// AppendLog добавляет запись в журнал инцидента
func (s *IncidentStore) AppendLog(_ context.Context, id uuid.UUID, entry models.ResponseLogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	incident, ok := s.incidents[id]
	if !ok {
		return fmt.Errorf("incident with id %s: %w", id, models.ErrNotFound)
	}

	incident.AuditTrail = append(incident.AuditTrail, stampEntry(incident, entry))
	return nil
}

// AddAssignmentsWithLog атомарно добавляет назначения и одну запись журнала
func (s *IncidentStore) AddAssignmentsWithLog(_ context.Context, id uuid.UUID, personnelIDs []uuid.UUID, entry models.ResponseLogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	incident, ok := s.incidents[id]
	if !ok {
		return fmt.Errorf("incident with id %s: %w", id, models.ErrNotFound)
	}

	for _, pid := range personnelIDs {
		if !incident.IsAssigned(pid) {
			incident.AssignedPersonnel = append(incident.AssignedPersonnel, pid)
		}
	}
	incident.AuditTrail = append(incident.AuditTrail, stampEntry(incident, entry))
	return nil
}

// stampEntry проставляет метку времени так, чтобы метки в журнале
// одного инцидента не убывали даже при сдвиге системных часов
func stampEntry(incident *models.Incident, entry models.ResponseLogEntry) models.ResponseLogEntry {
	entry.Timestamp = time.Now()
	if n := len(incident.AuditTrail); n > 0 {
		if last := incident.AuditTrail[n-1].Timestamp; entry.Timestamp.Before(last) {
			entry.Timestamp = last
		}
	}
	return entry
}

// GetIncidentFromCache - кеша у in-memory хранилища нет
func (s *IncidentStore) GetIncidentFromCache(context.Context, uuid.UUID) (*models.Incident, error) {
	return nil, nil
}

// SetIncidentCache - no-op
func (s *IncidentStore) SetIncidentCache(context.Context, *models.Incident) error {
	return nil
}

// InvalidateIncidentCache - no-op
func (s *IncidentStore) InvalidateIncidentCache(context.Context, uuid.UUID) error {
	return nil
}
