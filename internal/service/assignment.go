package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shelepin/campus_safety_system/internal/models"
	"github.com/sirupsen/logrus"
)

// Assign назначает сотрудников на инцидент. Любой сотрудник не на смене
// отклоняет весь вызов без частичного назначения. Повторное назначение
// уже назначенного сотрудника - no-op; запись журнала появляется только
// когда набор действительно пополнился, и перечисляет только новых.
func (s *incidentService) Assign(ctx context.Context, id uuid.UUID, personnelIDs []uuid.UUID, actor string) (*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "Assign",
		"incident_id": id,
	})
	log.Info("Attempting to assign personnel to incident")

	if actor == "" {
		return nil, fmt.Errorf("actor is required: %w", models.ErrValidation)
	}
	if len(personnelIDs) == 0 {
		return nil, fmt.Errorf("personnel ids are required: %w", models.ErrValidation)
	}

	// Сверяемся с ростером до захвата блокировки: ростер внешний,
	// читать его можно без сериализации по инциденту.
	personnel, err := s.roster.GetByIDs(ctx, personnelIDs)
	if err != nil {
		log.WithError(err).Error("Failed to resolve personnel against roster")
		return nil, fmt.Errorf("service: could not resolve personnel: %w", err)
	}

	byID := make(map[uuid.UUID]*models.Personnel, len(personnel))
	for _, p := range personnel {
		byID[p.ID] = p
	}
	for _, pid := range personnelIDs {
		p, ok := byID[pid]
		if !ok {
			log.WithField("personnel_id", pid).Warn("Personnel not found in roster")
			return nil, fmt.Errorf("personnel %s is not in the roster: %w", pid, models.ErrPersonnelUnavailable)
		}
		if !p.OnDuty {
			log.WithField("personnel_id", pid).Warn("Personnel is off duty")
			return nil, fmt.Errorf("personnel %s is off duty: %w", pid, models.ErrPersonnelUnavailable)
		}
	}

	s.locks.Lock(id.String())
	defer s.locks.Unlock(id.String())

	incident, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Attempted to assign personnel to a non-existent incident")
		return nil, fmt.Errorf("service: incident with id %s not found: %w", id, err)
	}

	// Объединение идемпотентно: оставляем только действительно новых
	newIDs := make([]uuid.UUID, 0, len(personnelIDs))
	seen := make(map[uuid.UUID]struct{}, len(personnelIDs))
	for _, pid := range personnelIDs {
		if _, dup := seen[pid]; dup {
			continue
		}
		seen[pid] = struct{}{}
		if !incident.IsAssigned(pid) {
			newIDs = append(newIDs, pid)
		}
	}

	if len(newIDs) == 0 {
		log.Info("All requested personnel already assigned, nothing to do")
		return incident, nil
	}

	names := make([]string, 0, len(newIDs))
	for _, pid := range newIDs {
		names = append(names, byID[pid].Name)
	}

	entry := models.ResponseLogEntry{
		Actor:   actor,
		Action:  "personnel assigned",
		Details: strings.Join(names, ", "),
	}
	if err := s.repo.AddAssignmentsWithLog(ctx, id, newIDs, entry); err != nil {
		log.WithError(err).Error("Failed to persist assignment in repository")
		return nil, fmt.Errorf("service: could not assign personnel: %w", err)
	}

	if err := s.repo.InvalidateIncidentCache(ctx, id); err != nil {
		log.WithError(err).Warn("Failed to invalidate incident cache")
	}

	updated, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service: could not reload incident after assignment: %w", err)
	}

	log.WithField("assigned", len(newIDs)).Info("Personnel assigned successfully")
	return updated, nil
}
