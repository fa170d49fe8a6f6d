package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shelepin/campus_safety_system/internal/models"
	"github.com/shelepin/campus_safety_system/internal/service"
)

const incidentCacheTTL = 5 * time.Minute

type IncidentRepository struct {
	db          *pgxpool.Pool
	redisClient *redis.Client
}

func NewIncidentRepository(db *pgxpool.Pool, redisClient *redis.Client) service.IncidentRepository {
	return &IncidentRepository{
		db:          db,
		redisClient: redisClient,
	}
}

// Create создает новую запись об инциденте в бд
func (r *IncidentRepository) Create(ctx context.Context, incident *models.Incident) error {
	var lat, lng *float64
	if incident.Coordinates != nil {
		lat = &incident.Coordinates.Lat
		lng = &incident.Coordinates.Lng
	}

	query := `
		INSERT INTO incidents (kind, location, lat, lng, reported_by, status)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, created_at;
	`
	err := r.db.QueryRow(ctx, query,
		incident.Kind,
		incident.Location,
		lat,
		lng,
		incident.ReportedBy,
		incident.Status,
	).Scan(&incident.ID, &incident.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create incident: %w", err)
	}
	return nil
}

// GetByID возвращает инцидент по его UUID вместе с журналом и назначениями
func (r *IncidentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Incident, error) {
	incident := &models.Incident{}
	var lat, lng *float64

	query := `
		SELECT
			id,
			kind,
			location,
			lat,
			lng,
			reported_by,
			status,
			created_at
		FROM incidents
		WHERE id = $1;
	`
	err := r.db.QueryRow(ctx, query, id).Scan(
		&incident.ID,
		&incident.Kind,
		&incident.Location,
		&lat,
		&lng,
		&incident.ReportedBy,
		&incident.Status,
		&incident.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("incident with id %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get incident by id: %w", err)
	}

	if lat != nil && lng != nil {
		incident.Coordinates = &models.Point{Lat: *lat, Lng: *lng}
	}

	if incident.AssignedPersonnel, err = r.loadAssignments(ctx, id); err != nil {
		return nil, err
	}
	if incident.AuditTrail, err = r.loadAuditTrail(ctx, id); err != nil {
		return nil, err
	}
	return incident, nil
}

// List возвращает инциденты по фильтру вместе с журналами и назначениями
func (r *IncidentRepository) List(ctx context.Context, filter models.IncidentFilter) ([]*models.Incident, error) {
	query := `
		SELECT
			id,
			kind,
			location,
			lat,
			lng,
			reported_by,
			status,
			created_at
		FROM incidents
		WHERE ($1 = '' OR status = $1)
			AND ($2 = '' OR kind = $2)
		ORDER BY created_at DESC;
	`
	rows, err := r.db.Query(ctx, query, string(filter.Status), filter.Kind)
	if err != nil {
		return nil, fmt.Errorf("failed to list incidents: %w", err)
	}
	defer rows.Close()

	incidents := make([]*models.Incident, 0)
	for rows.Next() {
		incident := &models.Incident{}
		var lat, lng *float64
		err := rows.Scan(
			&incident.ID,
			&incident.Kind,
			&incident.Location,
			&lat,
			&lng,
			&incident.ReportedBy,
			&incident.Status,
			&incident.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan incident row: %w", err)
		}
		if lat != nil && lng != nil {
			incident.Coordinates = &models.Point{Lat: *lat, Lng: *lng}
		}
		incidents = append(incidents, incident)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error list iteration: %w", err)
	}

	for _, incident := range incidents {
		if incident.AssignedPersonnel, err = r.loadAssignments(ctx, incident.ID); err != nil {
			return nil, err
		}
		if incident.AuditTrail, err = r.loadAuditTrail(ctx, incident.ID); err != nil {
			return nil, err
		}
	}
	return incidents, nil
}

// UpdateStatusWithLog атомарно меняет статус и добавляет запись журнала.
// Транзакция гарантирует, что смена статуса без записи журнала невозможна.
func (r *IncidentRepository) UpdateStatusWithLog(ctx context.Context, id uuid.UUID, status models.IncidentStatus, entry models.ResponseLogEntry) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	cmdTag, err := tx.Exec(ctx, `UPDATE incidents SET status = $1 WHERE id = $2;`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update incident status: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("incident with id %s: %w", id, models.ErrNotFound)
	}

	if err := appendLogTx(ctx, tx, id, entry); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit status transition: %w", err)
	}
	return nil
}

// AppendLog добавляет запись в журнал инцидента
func (r *IncidentRepository) AppendLog(ctx context.Context, id uuid.UUID, entry models.ResponseLogEntry) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := appendLogTx(ctx, tx, id, entry); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit log entry: %w", err)
	}
	return nil
}

// AddAssignmentsWithLog атомарно добавляет назначения и одну запись журнала
func (r *IncidentRepository) AddAssignmentsWithLog(ctx context.Context, id uuid.UUID, personnelIDs []uuid.UUID, entry models.ResponseLogEntry) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, pid := range personnelIDs {
		_, err := tx.Exec(ctx, `
			INSERT INTO incident_personnel (incident_id, personnel_id)
			VALUES ($1, $2)
			ON CONFLICT DO NOTHING;
		`, id, pid)
		if err != nil {
			return fmt.Errorf("failed to add assignment: %w", err)
		}
	}

	if err := appendLogTx(ctx, tx, id, entry); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit assignments: %w", err)
	}
	return nil
}

// appendLogTx вставляет запись журнала внутри транзакции. Метка времени
// не убывает в пределах инцидента даже при сдвиге системных часов.
func appendLogTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, entry models.ResponseLogEntry) error {
	query := `
		INSERT INTO response_log (incident_id, ts, actor, action, details)
		VALUES (
			$1,
			GREATEST(NOW(), COALESCE((SELECT MAX(ts) FROM response_log WHERE incident_id = $1), NOW())),
			$2, $3, $4
		);
	`
	if _, err := tx.Exec(ctx, query, id, entry.Actor, entry.Action, entry.Details); err != nil {
		return fmt.Errorf("failed to append response log entry: %w", err)
	}
	return nil
}

// loadAssignments возвращает id назначенных сотрудников в порядке назначения
func (r *IncidentRepository) loadAssignments(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx, `
		SELECT personnel_id
		FROM incident_personnel
		WHERE incident_id = $1
		ORDER BY assigned_at;
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load assignments: %w", err)
	}
	defer rows.Close()

	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		var pid uuid.UUID
		if err := rows.Scan(&pid); err != nil {
			return nil, fmt.Errorf("failed to scan assignment row: %w", err)
		}
		ids = append(ids, pid)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error assignments iteration: %w", err)
	}
	return ids, nil
}

// loadAuditTrail возвращает журнал инцидента в порядке добавления
func (r *IncidentRepository) loadAuditTrail(ctx context.Context, id uuid.UUID) ([]models.ResponseLogEntry, error) {
	rows, err := r.db.Query(ctx, `
		SELECT ts, actor, action, details
		FROM response_log
		WHERE incident_id = $1
		ORDER BY id;
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load response log: %w", err)
	}
	defer rows.Close()

	trail := make([]models.ResponseLogEntry, 0)
	for rows.Next() {
		var entry models.ResponseLogEntry
		if err := rows.Scan(&entry.Timestamp, &entry.Actor, &entry.Action, &entry.Details); err != nil {
			return nil, fmt.Errorf("failed to scan response log row: %w", err)
		}
		trail = append(trail, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error response log iteration: %w", err)
	}
	return trail, nil
}

// GetIncidentFromCache пытается получить инцидент из Redis
func (r *IncidentRepository) GetIncidentFromCache(ctx context.Context, id uuid.UUID) (*models.Incident, error) {
	key := fmt.Sprintf("incident:%s", id.String())
	val, err := r.redisClient.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get incident from cache: %w", err)
	}

	incident := &models.Incident{}
	if err := json.Unmarshal(val, incident); err != nil {
		return nil, fmt.Errorf("failed to unmarshal incident from cache: %w", err)
	}
	return incident, nil
}

// SetIncidentCache сохраняет инцидент в Redis
func (r *IncidentRepository) SetIncidentCache(ctx context.Context, incident *models.Incident) error {
	key := fmt.Sprintf("incident:%s", incident.ID.String())
	val, err := json.Marshal(incident)
	if err != nil {
		return fmt.Errorf("failed to marshal incident for cache: %w", err)
	}

	if err := r.redisClient.Set(ctx, key, val, incidentCacheTTL).Err(); err != nil {
		return fmt.Errorf("failed to set incident in cache: %w", err)
	}
	return nil
}

// InvalidateIncidentCache удаляет инцидент из Redis кэша
func (r *IncidentRepository) InvalidateIncidentCache(ctx context.Context, id uuid.UUID) error {
	key := fmt.Sprintf("incident:%s", id.String())
	if err := r.redisClient.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to invalidate incident cache: %w", err)
	}
	return nil
}
