package service_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shelepin/campus_safety_system/internal/models"
	"github.com/shelepin/campus_safety_system/internal/repository/memory"
	. "github.com/shelepin/campus_safety_system/internal/service"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestLogger создает логгер без вывода для тестов
func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах
	return logger
}

// newTestZoneService создает сервис зон поверх in-memory хранилища
func newTestZoneService() (ZoneService, ZoneRepository) {
	repo := memory.NewZoneStore()
	return NewZoneService(repo, newTestLogger()), repo
}

// validZone возвращает корректную безопасную зону-квадрат
func validZone() *models.Zone {
	return &models.Zone{
		Name:       "Главный корпус",
		Kind:       models.ZoneKindSafe,
		AlertLevel: models.AlertLevelLow,
		Boundary: []models.Point{
			{Lat: 0, Lng: 0},
			{Lat: 0, Lng: 10},
			{Lat: 10, Lng: 10},
			{Lat: 10, Lng: 0},
		},
	}
}

func TestCreateZone_Success(t *testing.T) {
	// Подготовка
	service, _ := newTestZoneService()
	ctx := context.Background()
	zone := validZone()

	// Действие
	err := service.CreateZone(ctx, zone)

	// Проверки
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, zone.ID)
	assert.Equal(t, models.ZoneStatusActive, zone.Status)
}

func TestCreateZone_DegenerateBoundaryRejected(t *testing.T) {
	// Подготовка
	service, _ := newTestZoneService()
	ctx := context.Background()
	zone := validZone()
	zone.Boundary = zone.Boundary[:2] // Две вершины - полигон вырожден

	// Действие
	err := service.CreateZone(ctx, zone)

	// Проверки
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrValidation)

	// Зона не должна попасть в хранилище
	zones, listErr := service.ListZones(ctx, models.ZoneFilter{})
	require.NoError(t, listErr)
	assert.Empty(t, zones)
}

func TestCreateZone_ClosedRingRejected(t *testing.T) {
	// Подготовка
	service, _ := newTestZoneService()
	ctx := context.Background()
	zone := validZone()
	// Первая вершина повторена в конце - граница хранится без замыкания
	zone.Boundary = append(zone.Boundary, zone.Boundary[0])

	// Действие
	err := service.CreateZone(ctx, zone)

	// Проверки
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestCreateZone_MissingNameRejected(t *testing.T) {
	// Подготовка
	service, _ := newTestZoneService()
	ctx := context.Background()
	zone := validZone()
	zone.Name = ""

	// Действие
	err := service.CreateZone(ctx, zone)

	// Проверки
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestUpdateZone_Success(t *testing.T) {
	// Подготовка
	service, _ := newTestZoneService()
	ctx := context.Background()
	zone := validZone()
	require.NoError(t, service.CreateZone(ctx, zone))

	patch := validZone()
	patch.ID = zone.ID
	patch.Name = "Обновленная зона"
	patch.Status = models.ZoneStatusInactive

	// Действие
	updated, err := service.UpdateZone(ctx, patch)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, zone.ID, updated.ID)
	assert.Equal(t, "Обновленная зона", updated.Name)
	assert.Equal(t, models.ZoneStatusInactive, updated.Status)
}

func TestUpdateZone_NotFound(t *testing.T) {
	// Подготовка
	service, _ := newTestZoneService()
	ctx := context.Background()
	zone := validZone()
	zone.ID = uuid.New()
	zone.Status = models.ZoneStatusActive

	// Действие
	_, err := service.UpdateZone(ctx, zone)

	// Проверки
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestDeleteZone_HardRemoval(t *testing.T) {
	// Подготовка
	service, _ := newTestZoneService()
	ctx := context.Background()
	zone := validZone()
	require.NoError(t, service.CreateZone(ctx, zone))

	// Действие
	err := service.DeleteZone(ctx, zone.ID)

	// Проверки
	require.NoError(t, err)

	_, getErr := service.GetZone(ctx, zone.ID)
	assert.ErrorIs(t, getErr, models.ErrNotFound)
}

func TestListZones_Filter(t *testing.T) {
	// Подготовка
	service, _ := newTestZoneService()
	ctx := context.Background()

	safe := validZone()
	require.NoError(t, service.CreateZone(ctx, safe))

	restricted := validZone()
	restricted.Name = "Склад"
	restricted.Kind = models.ZoneKindRestricted
	require.NoError(t, service.CreateZone(ctx, restricted))

	// Действие
	zones, err := service.ListZones(ctx, models.ZoneFilter{Kind: models.ZoneKindSafe})

	// Проверки
	require.NoError(t, err)
	require.Len(t, zones, 1)
	assert.Equal(t, safe.ID, zones[0].ID)
}
