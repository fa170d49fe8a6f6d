package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shelepin/campus_safety_system/internal/models"
	"github.com/shelepin/campus_safety_system/internal/service"
)

// PersonnelRepository читает ростер сотрудников. Таблица принадлежит
// системе планирования смен, движок ее не изменяет.
type PersonnelRepository struct {
	db *pgxpool.Pool
}

func NewPersonnelRepository(db *pgxpool.Pool) service.PersonnelRoster {
	return &PersonnelRepository{db: db}
}

// GetByIDs возвращает сотрудников по списку id. Отсутствующие id
// просто не попадают в результат, решение принимает вызывающий.
func (r *PersonnelRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Personnel, error) {
	query := `
		SELECT id, name, role, on_duty
		FROM personnel
		WHERE id = ANY($1);
	`
	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get personnel by ids: %w", err)
	}
	defer rows.Close()

	personnel := make([]*models.Personnel, 0, len(ids))
	for rows.Next() {
		p := &models.Personnel{}
		if err := rows.Scan(&p.ID, &p.Name, &p.Role, &p.OnDuty); err != nil {
			return nil, fmt.Errorf("failed to scan personnel row: %w", err)
		}
		personnel = append(personnel, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error personnel iteration: %w", err)
	}
	return personnel, nil
}
