package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shelepin/campus_safety_system/internal/models"
	"github.com/sirupsen/logrus"
)

// ZoneRepository определяет контракт для работы с хранилищем зон
type ZoneRepository interface {
	Create(ctx context.Context, zone *models.Zone) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Zone, error)
	Update(ctx context.Context, zone *models.Zone) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter models.ZoneFilter) ([]*models.Zone, error)
	GetSafeZonesFromCache(ctx context.Context) ([]*models.Zone, error)
	SetSafeZonesCache(ctx context.Context, zones []*models.Zone) error
	InvalidateSafeZonesCache(ctx context.Context) error
}

// ZoneService определяет контракт для бизнес-логики управления зонами
type ZoneService interface {
	CreateZone(ctx context.Context, zone *models.Zone) error
	GetZone(ctx context.Context, id uuid.UUID) (*models.Zone, error)
	UpdateZone(ctx context.Context, zone *models.Zone) (*models.Zone, error)
	DeleteZone(ctx context.Context, id uuid.UUID) error
	ListZones(ctx context.Context, filter models.ZoneFilter) ([]*models.Zone, error)
}

type zoneService struct {
	repo   ZoneRepository
	logger *logrus.Logger
}

// NewZoneService создает сервис управления зонами
func NewZoneService(repo ZoneRepository, logger *logrus.Logger) ZoneService {
	return &zoneService{
		repo:   repo,
		logger: logger,
	}
}

// CreateZone валидирует и создает зону
func (s *zoneService) CreateZone(ctx context.Context, zone *models.Zone) error {
	log := s.logger.WithFields(logrus.Fields{
		"service": "zone",
		"method":  "CreateZone",
		"name":    zone.Name,
	})
	log.Info("Attempting to create a new zone")

	if err := validateZone(zone); err != nil {
		log.WithError(err).Warn("Zone validation failed")
		return err
	}

	if zone.Status == "" {
		zone.Status = models.ZoneStatusActive
	}

	if err := s.repo.Create(ctx, zone); err != nil {
		log.WithError(err).Error("Failed to create zone in repository")
		return fmt.Errorf("service: could not create zone: %w", err)
	}

	if err := s.repo.InvalidateSafeZonesCache(ctx); err != nil {
		log.WithError(err).Warn("Failed to invalidate safe zones cache")
	}

	log.WithField("zone_id", zone.ID).Info("Zone created successfully")
	return nil
}

// GetZone получает зону по ID
func (s *zoneService) GetZone(ctx context.Context, id uuid.UUID) (*models.Zone, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "zone",
		"method":  "GetZone",
		"zone_id": id,
	})

	zone, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Failed to get zone from repository")
		return nil, fmt.Errorf("service: could not get zone: %w", err)
	}
	return zone, nil
}

// UpdateZone валидирует и обновляет существующую зону.
// ID и дата создания неизменяемы, остальные поля заменяются целиком.
func (s *zoneService) UpdateZone(ctx context.Context, zone *models.Zone) (*models.Zone, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "zone",
		"method":  "UpdateZone",
		"zone_id": zone.ID,
	})
	log.Info("Attempting to update zone")

	if err := validateZone(zone); err != nil {
		log.WithError(err).Warn("Zone validation failed")
		return nil, err
	}

	existing, err := s.repo.GetByID(ctx, zone.ID)
	if err != nil {
		log.WithError(err).Warn("Attempted to update a non-existent zone")
		return nil, fmt.Errorf("service: zone with id %s not found for update: %w", zone.ID, err)
	}

	existing.Name = zone.Name
	existing.Description = zone.Description
	existing.Kind = zone.Kind
	existing.Status = zone.Status
	existing.AlertLevel = zone.AlertLevel
	existing.Boundary = zone.Boundary
	existing.Restrictions = zone.Restrictions

	if err := s.repo.Update(ctx, existing); err != nil {
		log.WithError(err).Error("Failed to update zone in repository")
		return nil, fmt.Errorf("service: could not update zone: %w", err)
	}

	if err := s.repo.InvalidateSafeZonesCache(ctx); err != nil {
		log.WithError(err).Warn("Failed to invalidate safe zones cache")
	}

	log.Info("Zone updated successfully")
	return existing, nil
}

// DeleteZone физически удаляет зону. История операций над инцидентами
// сохраняется в их журналах, поэтому мягкое удаление не требуется.
func (s *zoneService) DeleteZone(ctx context.Context, id uuid.UUID) error {
	log := s.logger.WithFields(logrus.Fields{
		"service": "zone",
		"method":  "DeleteZone",
		"zone_id": id,
	})
	log.Info("Attempting to delete zone")

	if err := s.repo.Delete(ctx, id); err != nil {
		log.WithError(err).Warn("Failed to delete zone in repository")
		return fmt.Errorf("service: could not delete zone: %w", err)
	}

	if err := s.repo.InvalidateSafeZonesCache(ctx); err != nil {
		log.WithError(err).Warn("Failed to invalidate safe zones cache")
	}

	log.Info("Zone deleted successfully")
	return nil
}

// ListZones возвращает список зон по фильтру
func (s *zoneService) ListZones(ctx context.Context, filter models.ZoneFilter) ([]*models.Zone, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "zone",
		"method":  "ListZones",
	})

	zones, err := s.repo.List(ctx, filter)
	if err != nil {
		log.WithError(err).Error("Failed to list zones from repository")
		return nil, fmt.Errorf("service: could not list zones: %w", err)
	}

	log.WithField("count", len(zones)).Info("Zones listed successfully")
	return zones, nil
}

// validateZone проверяет инварианты зоны: обязательное имя и граница,
// пригодная для проверки принадлежности точки (минимум 3 различные вершины,
// первая не совпадает с последней, координаты в допустимых диапазонах).
func validateZone(zone *models.Zone) error {
	if zone.Name == "" {
		return fmt.Errorf("zone name is required: %w", models.ErrValidation)
	}

	if len(zone.Boundary) < 3 {
		return fmt.Errorf("zone boundary must have at least 3 vertices, got %d: %w",
			len(zone.Boundary), models.ErrValidation)
	}

	first := zone.Boundary[0]
	last := zone.Boundary[len(zone.Boundary)-1]
	if first == last {
		return fmt.Errorf("zone boundary must not repeat the first vertex: %w", models.ErrValidation)
	}

	distinct := make(map[models.Point]struct{}, len(zone.Boundary))
	for _, p := range zone.Boundary {
		if !p.Valid() {
			return fmt.Errorf("zone boundary vertex (%f, %f) is out of range: %w",
				p.Lat, p.Lng, models.ErrValidation)
		}
		distinct[p] = struct{}{}
	}
	if len(distinct) < 3 {
		return fmt.Errorf("zone boundary must have at least 3 distinct vertices: %w", models.ErrValidation)
	}

	return nil
}
