package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/shelepin/campus_safety_system/internal/models"
	"github.com/shelepin/campus_safety_system/internal/service"
)

// Roster - in-memory ростер сотрудников. Сам ростер принадлежит внешней
// системе планирования смен, здесь он только читается.
type Roster struct {
	mu        sync.RWMutex
	personnel map[uuid.UUID]*models.Personnel
}

func NewRoster(personnel ...*models.Personnel) service.PersonnelRoster {
	byID := make(map[uuid.UUID]*models.Personnel, len(personnel))
	for _, p := range personnel {
		cloned := *p
		byID[p.ID] = &cloned
	}
	return &Roster{personnel: byID}
}

// GetByIDs возвращает сотрудников по списку id, отсутствующие пропускаются
func (r *Roster) GetByIDs(_ context.Context, ids []uuid.UUID) ([]*models.Personnel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	personnel := make([]*models.Personnel, 0, len(ids))
	for _, id := range ids {
		if p, ok := r.personnel[id]; ok {
			cloned := *p
			personnel = append(personnel, &cloned)
		}
	}
	return personnel, nil
}
