// Package memory содержит in-memory реализации репозиториев.
// Они держат индекс id -> сущность под RWMutex, копируют данные в обе
// стороны и используются в тестах и в режиме без внешнего хранилища.
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

type ZoneStore struct {
	mu    sync.RWMutex
	zones map[uuid.UUID]*models.Zone
}

func NewZoneStore() service.ZoneRepository {
	return &ZoneStore{
		zones: make(map[uuid.UUID]*models.Zone),
	}
}

// Create сохраняет новую зону, присваивая id и даты
func (s *ZoneStore) Create(_ context.Context, zone *models.Zone) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	zone.ID = uuid.New()
	now := time.Now()
	zone.CreatedAt = now
	zone.UpdatedAt = now

	s.zones[zone.ID] = zone.Clone()
	return nil
}

// GetByID возвращает копию зоны по id
func (s *ZoneStore) GetByID(_ context.Context, id uuid.UUID) (*models.Zone, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	zone, ok := s.zones[id]
	if !ok {
		return nil, fmt.Errorf("zone with id %s: %w", id, models.ErrNotFound)
	}
	return zone.Clone(), nil
}

// Update заменяет существующую зону
func (s *ZoneStore) Update(_ context.Context, zone *models.Zone) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.zones[zone.ID]
	if !ok {
		return fmt.Errorf("zone with id %s: %w", zone.ID, models.ErrNotFound)
	}

	updated := zone.Clone()
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now()
	s.zones[zone.ID] = updated

	zone.UpdatedAt = updated.UpdatedAt
	return nil
}

// Delete физически удаляет зону
func (s *ZoneStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.zones[id]; !ok {
		return fmt.Errorf("zone with id %s: %w", id, models.ErrNotFound)
	}
	delete(s.zones, id)
	return nil
}

// List возвращает копии зон по фильтру
func (s *ZoneStore) List(_ context.Context, filter models.ZoneFilter) ([]*models.Zone, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	zones := make([]*models.Zone, 0, len(s.zones))
	for _, zone := range s.zones {
		if filter.Kind != "" && zone.Kind != filter.Kind {
			continue
		}
		if filter.Status != "" && zone.Status != filter.Status {
			continue
		}
		zones = append(zones, zone.Clone())
	}
	return zones, nil
}

// GetSafeZonesFromCache - кеша у in-memory хранилища нет
func (s *ZoneStore) GetSafeZonesFromCache(context.Context) ([]*models.Zone, error) {
	return nil, nil
}

// SetSafeZonesCache - no-op
func (s *ZoneStore) SetSafeZonesCache(context.Context, []*models.Zone) error {
	return nil
}

// InvalidateSafeZonesCache - no-op
func (s *ZoneStore) InvalidateSafeZonesCache(context.Context) error {
	return nil
}
