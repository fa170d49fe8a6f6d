package service

import (
	"context"
	"fmt"

	"github.com/shelepin/campus_safety_system/internal/config"
	"github.com/shelepin/campus_safety_system/internal/geometry"
	"github.com/shelepin/campus_safety_system/internal/models"
	"github.com/sirupsen/logrus"
)

// AlertService определяет контракт для вычисления незащищенных инцидентов
type AlertService interface {
	FindExposedIncidents(ctx context.Context) ([]*models.Incident, error)
}

type alertService struct {
	incidents IncidentRepository
	zones     ZoneRepository
	logger    *logrus.Logger
	cfg       *config.Config
}

// NewAlertService создает сервис вычисления незащищенных инцидентов
func NewAlertService(incidents IncidentRepository, zones ZoneRepository, logger *logrus.Logger, cfg *config.Config) AlertService {
	return &alertService{
		incidents: incidents,
		zones:     zones,
		logger:    logger,
		cfg:       cfg,
	}
}

// FindExposedIncidents возвращает инциденты, координаты которых не покрыты
// ни одной активной безопасной зоной. Инциденты без координат не оцениваются
// и в результат не попадают. Выборка из хранилищ делается до геометрии,
// геометрия считается по копиям без блокировок. При превышении мягкого
// бюджета времени возвращается ErrDeadlineExceeded.
func (s *alertService) FindExposedIncidents(ctx context.Context) ([]*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "alert",
		"method":  "FindExposedIncidents",
	})
	log.Info("Scanning incidents for safe zone coverage")

	safeZones, err := s.safeZoneSnapshot(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to load safe zones")
		return nil, fmt.Errorf("service: could not load safe zones: %w", err)
	}

	incidents, err := s.incidents.List(ctx, models.IncidentFilter{})
	if err != nil {
		log.WithError(err).Error("Failed to list incidents")
		return nil, fmt.Errorf("service: could not list incidents: %w", err)
	}

	scanCtx, cancel := context.WithTimeout(ctx, s.cfg.AlertScanTimeout)
	defer cancel()

	exposed := make([]*models.Incident, 0)
	for _, incident := range incidents {
		if scanCtx.Err() != nil {
			log.WithField("checked", len(exposed)).Warn("Alert scan exceeded its time budget")
			return nil, fmt.Errorf("scan of %d incidents against %d zones: %w",
				len(incidents), len(safeZones), models.ErrDeadlineExceeded)
		}

		if incident.Coordinates == nil {
			continue
		}

		covered := false
		for _, zone := range safeZones {
			inside, err := geometry.Contains(zone.Boundary, *incident.Coordinates)
			if err != nil {
				// Вырожденная зона не участвует в покрытии, но и не валит скан
				log.WithError(err).WithField("zone_id", zone.ID).Warn("Skipping degenerate zone")
				continue
			}
			if inside {
				covered = true
				break
			}
		}

		if !covered {
			exposed = append(exposed, incident)
		}
	}

	log.WithFields(logrus.Fields{
		"incidents": len(incidents),
		"exposed":   len(exposed),
	}).Info("Alert scan completed")
	return exposed, nil
}

// safeZoneSnapshot возвращает активные безопасные зоны, по возможности из кеша
func (s *alertService) safeZoneSnapshot(ctx context.Context) ([]*models.Zone, error) {
	log := s.logger.WithField("service", "alert")

	cached, err := s.zones.GetSafeZonesFromCache(ctx)
	if err != nil {
		log.WithError(err).Warn("Failed to read safe zones cache")
	}
	if cached != nil {
		return cached, nil
	}

	zones, err := s.zones.List(ctx, models.ZoneFilter{
		Kind:   models.ZoneKindSafe,
		Status: models.ZoneStatusActive,
	})
	if err != nil {
		return nil, err
	}

	if err := s.zones.SetSafeZonesCache(ctx, zones); err != nil {
		log.WithError(err).Warn("Failed to set safe zones cache")
	}

	return zones, nil
}
