package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shelepin/campus_safety_system/internal/models"
	"github.com/sirupsen/logrus"
)

// Граф переходов статусов: соответствует кнопочному потоку диспетчерской.
// "resolved" не терминален - инцидент можно переоткрыть.
var allowedTransitions = map[models.IncidentStatus]models.IncidentStatus{
	models.IncidentStatusNew:        models.IncidentStatusInProgress,
	models.IncidentStatusInProgress: models.IncidentStatusResolved,
	models.IncidentStatusResolved:   models.IncidentStatusNew,
}

// transitionAllowed проверяет, есть ли ребро (from, to) в графе жизненного цикла
func transitionAllowed(from, to models.IncidentStatus) bool {
	next, ok := allowedTransitions[from]
	return ok && next == to
}

// Transition переводит инцидент в целевой статус. Переход валидируется до
// любой мутации: недопустимое ребро оставляет и статус, и журнал нетронутыми.
// Операция сериализована по инциденту.
func (s *incidentService) Transition(ctx context.Context, id uuid.UUID, target models.IncidentStatus, actor string) (*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "Transition",
		"incident_id": id,
		"target":      target,
	})
	log.Info("Attempting to transition incident status")

	if actor == "" {
		return nil, fmt.Errorf("actor is required: %w", models.ErrValidation)
	}

	s.locks.Lock(id.String())
	defer s.locks.Unlock(id.String())

	incident, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Attempted to transition a non-existent incident")
		return nil, fmt.Errorf("service: incident with id %s not found: %w", id, err)
	}

	if !transitionAllowed(incident.Status, target) {
		log.WithField("current", incident.Status).Warn("Status transition rejected")
		return nil, fmt.Errorf("transition %s -> %s is not allowed: %w",
			incident.Status, target, models.ErrInvalidTransition)
	}

	entry := models.ResponseLogEntry{
		Actor:  actor,
		Action: fmt.Sprintf("status changed to %s", target),
	}
	if err := s.repo.UpdateStatusWithLog(ctx, id, target, entry); err != nil {
		log.WithError(err).Error("Failed to apply status transition in repository")
		return nil, fmt.Errorf("service: could not transition incident: %w", err)
	}

	if err := s.repo.InvalidateIncidentCache(ctx, id); err != nil {
		log.WithError(err).Warn("Failed to invalidate incident cache")
	}

	updated, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service: could not reload incident after transition: %w", err)
	}

	log.WithField("status", updated.Status).Info("Incident status changed successfully")
	return updated, nil
}

// AddNote добавляет запись-заметку в журнал инцидента, не меняя статус
func (s *incidentService) AddNote(ctx context.Context, id uuid.UUID, actor, text string) (*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "AddNote",
		"incident_id": id,
	})
	log.Info("Attempting to add a note to incident")

	if actor == "" {
		return nil, fmt.Errorf("actor is required: %w", models.ErrValidation)
	}
	if text == "" {
		return nil, fmt.Errorf("note text is required: %w", models.ErrValidation)
	}

	s.locks.Lock(id.String())
	defer s.locks.Unlock(id.String())

	if _, err := s.repo.GetByID(ctx, id); err != nil {
		log.WithError(err).Warn("Attempted to add a note to a non-existent incident")
		return nil, fmt.Errorf("service: incident with id %s not found: %w", id, err)
	}

	entry := models.ResponseLogEntry{
		Actor:   actor,
		Action:  "note",
		Details: text,
	}
	if err := s.repo.AppendLog(ctx, id, entry); err != nil {
		log.WithError(err).Error("Failed to append note in repository")
		return nil, fmt.Errorf("service: could not add note: %w", err)
	}

	if err := s.repo.InvalidateIncidentCache(ctx, id); err != nil {
		log.WithError(err).Warn("Failed to invalidate incident cache")
	}

	updated, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service: could not reload incident after note: %w", err)
	}

	log.Info("Note added successfully")
	return updated, nil
}
