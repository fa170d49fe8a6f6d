package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shelepin/campus_safety_system/internal/config"
	. "github.com/shelepin/campus_safety_system/internal/service"
	"github.com/shelepin/campus_safety_system/internal/models"
	"github.com/shelepin/campus_safety_system/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestAlertService собирает детектор поверх in-memory хранилищ
func newTestAlertService(timeout time.Duration) (AlertService, ZoneRepository, IncidentRepository) {
	zones := memory.NewZoneStore()
	incidents := memory.NewIncidentStore()
	cfg := &config.Config{AlertScanTimeout: timeout}
	return NewAlertService(incidents, zones, newTestLogger(), cfg), zones, incidents
}

// addIncidentAt регистрирует инцидент с координатами (или без них)
func addIncidentAt(t *testing.T, repo IncidentRepository, coords *models.Point) uuid.UUID {
	t.Helper()

	incident := &models.Incident{
		Kind:        "medical",
		ReportedBy:  "dispatcher-1",
		Status:      models.IncidentStatusNew,
		Coordinates: coords,
	}
	require.NoError(t, repo.Create(context.Background(), incident))
	return incident.ID
}

func TestFindExposedIncidents_Classification(t *testing.T) {
	// Подготовка
	service, zones, incidents := newTestAlertService(time.Second)
	ctx := context.Background()

	// Активная безопасная зона-квадрат (0,0)-(0,10)-(10,10)-(10,0)
	require.NoError(t, zones.Create(ctx, &models.Zone{
		Name:       "Кампус",
		Kind:       models.ZoneKindSafe,
		Status:     models.ZoneStatusActive,
		AlertLevel: models.AlertLevelLow,
		Boundary: []models.Point{
			{Lat: 0, Lng: 0},
			{Lat: 0, Lng: 10},
			{Lat: 10, Lng: 10},
			{Lat: 10, Lng: 0},
		},
	}))

	inside := addIncidentAt(t, incidents, &models.Point{Lat: 5, Lng: 5})
	outside := addIncidentAt(t, incidents, &models.Point{Lat: 20, Lng: 20})
	noCoords := addIncidentAt(t, incidents, nil)

	// Действие
	exposed, err := service.FindExposedIncidents(ctx)

	// Проверки: только инцидент вне зоны попадает в результат,
	// инцидент без координат не оценивается вовсе
	require.NoError(t, err)
	require.Len(t, exposed, 1)
	assert.Equal(t, outside, exposed[0].ID)
	for _, incident := range exposed {
		assert.NotEqual(t, inside, incident.ID)
		assert.NotEqual(t, noCoords, incident.ID)
	}
}

func TestFindExposedIncidents_InactiveSafeZoneDoesNotCover(t *testing.T) {
	// Подготовка
	service, zones, incidents := newTestAlertService(time.Second)
	ctx := context.Background()

	require.NoError(t, zones.Create(ctx, &models.Zone{
		Name:       "Отключенная зона",
		Kind:       models.ZoneKindSafe,
		Status:     models.ZoneStatusInactive,
		AlertLevel: models.AlertLevelLow,
		Boundary: []models.Point{
			{Lat: 0, Lng: 0},
			{Lat: 0, Lng: 10},
			{Lat: 10, Lng: 10},
			{Lat: 10, Lng: 0},
		},
	}))

	id := addIncidentAt(t, incidents, &models.Point{Lat: 5, Lng: 5})

	// Действие
	exposed, err := service.FindExposedIncidents(ctx)

	// Проверки: неактивная зона не покрывает, инцидент незащищен
	require.NoError(t, err)
	require.Len(t, exposed, 1)
	assert.Equal(t, id, exposed[0].ID)
}

func TestFindExposedIncidents_MonitoredZoneDoesNotCover(t *testing.T) {
	// Подготовка
	service, zones, incidents := newTestAlertService(time.Second)
	ctx := context.Background()

	// Покрытие дает только kind == safe
	require.NoError(t, zones.Create(ctx, &models.Zone{
		Name:       "Наблюдаемая зона",
		Kind:       models.ZoneKindMonitored,
		Status:     models.ZoneStatusActive,
		AlertLevel: models.AlertLevelMedium,
		Boundary: []models.Point{
			{Lat: 0, Lng: 0},
			{Lat: 0, Lng: 10},
			{Lat: 10, Lng: 10},
			{Lat: 10, Lng: 0},
		},
	}))

	addIncidentAt(t, incidents, &models.Point{Lat: 5, Lng: 5})

	// Действие
	exposed, err := service.FindExposedIncidents(ctx)

	// Проверки
	require.NoError(t, err)
	assert.Len(t, exposed, 1)
}

func TestFindExposedIncidents_DeadlineExceeded(t *testing.T) {
	// Подготовка: нулевой бюджет времени валит скан на первом инциденте
	service, _, incidents := newTestAlertService(-time.Millisecond)
	ctx := context.Background()

	addIncidentAt(t, incidents, &models.Point{Lat: 5, Lng: 5})

	// Действие
	_, err := service.FindExposedIncidents(ctx)

	// Проверки
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrDeadlineExceeded)
}

func TestFindExposedIncidents_EmptyStores(t *testing.T) {
	// Подготовка
	service, _, _ := newTestAlertService(time.Second)

	// Действие
	exposed, err := service.FindExposedIncidents(context.Background())

	// Проверки
	require.NoError(t, err)
	assert.Empty(t, exposed)
}
