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

const safeZonesCacheKey = "zones:safe:active"

type ZoneRepository struct {
	db          *pgxpool.Pool
	redisClient *redis.Client
	cacheTTL    time.Duration
}

func NewZoneRepository(db *pgxpool.Pool, redisClient *redis.Client, cacheTTL time.Duration) service.ZoneRepository {
	return &ZoneRepository{
		db:          db,
		redisClient: redisClient,
		cacheTTL:    cacheTTL,
	}
}

// Create создает новую запись о зоне в бд
func (r *ZoneRepository) Create(ctx context.Context, zone *models.Zone) error {
	boundary, err := json.Marshal(zone.Boundary)
	if err != nil {
		return fmt.Errorf("failed to marshal zone boundary: %w", err)
	}

	query := `
		INSERT INTO zones (name, description, kind, status, alert_level, boundary, restrictions)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id, created_at, updated_at;
	`
	err = r.db.QueryRow(ctx, query,
		zone.Name,
		zone.Description,
		zone.Kind,
		zone.Status,
		zone.AlertLevel,
		boundary,
		zone.Restrictions,
	).Scan(&zone.ID, &zone.CreatedAt, &zone.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create zone: %w", err)
	}
	return nil
}

// GetByID возвращает зону по ее UUID
func (r *ZoneRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Zone, error) {
	zone := &models.Zone{}
	var boundary []byte

	query := `
		SELECT
			id,
			name,
			description,
			kind,
			status,
			alert_level,
			boundary,
			restrictions,
			created_at,
			updated_at
		FROM zones
		WHERE id = $1;
	`
	err := r.db.QueryRow(ctx, query, id).Scan(
		&zone.ID,
		&zone.Name,
		&zone.Description,
		&zone.Kind,
		&zone.Status,
		&zone.AlertLevel,
		&boundary,
		&zone.Restrictions,
		&zone.CreatedAt,
		&zone.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("zone with id %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get zone by id: %w", err)
	}

	if err := json.Unmarshal(boundary, &zone.Boundary); err != nil {
		return nil, fmt.Errorf("failed to unmarshal zone boundary: %w", err)
	}
	return zone, nil
}

// Update обновляет зону целиком, кроме id и даты создания
func (r *ZoneRepository) Update(ctx context.Context, zone *models.Zone) error {
	boundary, err := json.Marshal(zone.Boundary)
	if err != nil {
		return fmt.Errorf("failed to marshal zone boundary: %w", err)
	}

	query := `
		UPDATE zones SET
			name = $1,
			description = $2,
			kind = $3,
			status = $4,
			alert_level = $5,
			boundary = $6,
			restrictions = $7,
			updated_at = NOW()
		WHERE id = $8;
	`
	cmdTag, err := r.db.Exec(ctx, query,
		zone.Name,
		zone.Description,
		zone.Kind,
		zone.Status,
		zone.AlertLevel,
		boundary,
		zone.Restrictions,
		zone.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update zone: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("zone with id %s: %w", zone.ID, models.ErrNotFound)
	}
	return nil
}

// Delete физически удаляет зону из бд
func (r *ZoneRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM zones WHERE id = $1;`

	cmdTag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete zone: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("zone with id %s: %w", id, models.ErrNotFound)
	}
	return nil
}

// List возвращает зоны по фильтру, отсортированные по дате создания
func (r *ZoneRepository) List(ctx context.Context, filter models.ZoneFilter) ([]*models.Zone, error) {
	query := `
		SELECT
			id,
			name,
			description,
			kind,
			status,
			alert_level,
			boundary,
			restrictions,
			created_at,
			updated_at
		FROM zones
		WHERE ($1 = '' OR kind = $1)
			AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC;
	`
	rows, err := r.db.Query(ctx, query, string(filter.Kind), string(filter.Status))
	if err != nil {
		return nil, fmt.Errorf("failed to list zones: %w", err)
	}
	defer rows.Close()

	zones := make([]*models.Zone, 0)
	for rows.Next() {
		zone := &models.Zone{}
		var boundary []byte
		err := rows.Scan(
			&zone.ID,
			&zone.Name,
			&zone.Description,
			&zone.Kind,
			&zone.Status,
			&zone.AlertLevel,
			&boundary,
			&zone.Restrictions,
			&zone.CreatedAt,
			&zone.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan zone row: %w", err)
		}
		if err := json.Unmarshal(boundary, &zone.Boundary); err != nil {
			return nil, fmt.Errorf("failed to unmarshal zone boundary: %w", err)
		}
		zones = append(zones, zone)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error list iteration: %w", err)
	}
	return zones, nil
}

// GetSafeZonesFromCache пытается получить снимок активных безопасных зон из Redis
func (r *ZoneRepository) GetSafeZonesFromCache(ctx context.Context) ([]*models.Zone, error) {
	val, err := r.redisClient.Get(ctx, safeZonesCacheKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get safe zones from cache: %w", err)
	}

	var zones []*models.Zone
	if err := json.Unmarshal(val, &zones); err != nil {
		return nil, fmt.Errorf("failed to unmarshal safe zones from cache: %w", err)
	}
	return zones, nil
}

// SetSafeZonesCache сохраняет снимок активных безопасных зон в Redis
func (r *ZoneRepository) SetSafeZonesCache(ctx context.Context, zones []*models.Zone) error {
	val, err := json.Marshal(zones)
	if err != nil {
		return fmt.Errorf("failed to marshal safe zones for cache: %w", err)
	}

	if err := r.redisClient.Set(ctx, safeZonesCacheKey, val, r.cacheTTL).Err(); err != nil {
		return fmt.Errorf("failed to set safe zones in cache: %w", err)
	}
	return nil
}

// InvalidateSafeZonesCache удаляет снимок безопасных зон из Redis кэша
func (r *ZoneRepository) InvalidateSafeZonesCache(ctx context.Context) error {
	if err := r.redisClient.Del(ctx, safeZonesCacheKey).Err(); err != nil {
		return fmt.Errorf("failed to invalidate safe zones cache: %w", err)
	}
	return nil
}
