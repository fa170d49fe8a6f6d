package v1

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shelepin/campus_safety_system/internal/config"
	"github.com/shelepin/campus_safety_system/internal/models"
	"github.com/shelepin/campus_safety_system/internal/service/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// newTestHandler создает новый экземпляр Handler с мокированными сервисами
func newTestHandler(t *testing.T) (*mocks.MockZoneService, *mocks.MockIncidentService, *mocks.MockAlertService, *gin.Engine) {
	ctrl := gomock.NewController(t)
	zoneMock := mocks.NewMockZoneService(ctrl)
	incidentMock := mocks.NewMockIncidentService(ctrl)
	alertMock := mocks.NewMockAlertService(ctrl)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	cfg := &config.Config{
		APIKeys: []string{"test-api-key"},
	}

	handler := NewHandler(zoneMock, incidentMock, alertMock, logger, cfg)

	// Настройка Gin роутера для тестов
	gin.SetMode(gin.TestMode)
	router := gin.New()
	api := router.Group("/api/v1")
	handler.RegisterRoutes(api)

	return zoneMock, incidentMock, alertMock, router
}

// makeRequest - вспомогательная функция для выполнения HTTP-запросов
func makeRequest(router *gin.Engine, method, url string, body io.Reader, headers ...map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, url, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, h := range headers {
		for key, value := range h {
			req.Header.Set(key, value)
		}
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func squareBoundaryDTO() []PointDTO {
	return []PointDTO{
		{Lat: 0, Lng: 0},
		{Lat: 0, Lng: 10},
		{Lat: 10, Lng: 10},
		{Lat: 10, Lng: 0},
	}
}

func TestCreateZone_Success(t *testing.T) {
	zoneMock, _, _, router := newTestHandler(t)
	zoneID := uuid.New()
	reqBody := CreateZoneRequest{
		Name:       "Main Quad",
		Kind:       "safe",
		AlertLevel: "low",
		Boundary:   squareBoundaryDTO(),
	}

	zoneMock.EXPECT().
		CreateZone(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, zone *models.Zone) error {
			zone.ID = zoneID
			zone.Status = models.ZoneStatusActive
			zone.CreatedAt = time.Now()
			zone.UpdatedAt = time.Now()
			return nil
		}).Times(1)

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "POST", "/api/v1/zones", bytes.NewBuffer(bodyBytes), map[string]string{"X-API-Key": "test-api-key"})

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp ZoneResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, zoneID, resp.ID)
	assert.Equal(t, "active", resp.Status)
}

func TestCreateZone_TooFewVertices(t *testing.T) {
	zoneMock, _, _, router := newTestHandler(t)

	zoneMock.EXPECT().CreateZone(gomock.Any(), gomock.Any()).Times(0) // Сервис не должен вызываться

	reqBody := CreateZoneRequest{
		Name:       "Broken Zone",
		Kind:       "safe",
		AlertLevel: "low",
		Boundary:   squareBoundaryDTO()[:2],
	}
	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "POST", "/api/v1/zones", bytes.NewBuffer(bodyBytes), map[string]string{"X-API-Key": "test-api-key"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateZone_InvalidJSON(t *testing.T) {
	zoneMock, _, _, router := newTestHandler(t)

	zoneMock.EXPECT().CreateZone(gomock.Any(), gomock.Any()).Times(0)

	w := makeRequest(router, "POST", "/api/v1/zones", bytes.NewBufferString(`{"name": "test"`), map[string]string{"X-API-Key": "test-api-key"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid request body")
}

func TestGetZone_NotFound(t *testing.T) {
	zoneMock, _, _, router := newTestHandler(t)
	zoneID := uuid.New()

	zoneMock.EXPECT().
		GetZone(gomock.Any(), zoneID).
		Return(nil, fmt.Errorf("service: could not get zone: %w", models.ErrNotFound)).
		Times(1)

	w := makeRequest(router, "GET", "/api/v1/zones/"+zoneID.String(), nil, map[string]string{"X-API-Key": "test-api-key"})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteZone_NoContent(t *testing.T) {
	zoneMock, _, _, router := newTestHandler(t)
	zoneID := uuid.New()

	zoneMock.EXPECT().DeleteZone(gomock.Any(), zoneID).Return(nil).Times(1)

	w := makeRequest(router, "DELETE", "/api/v1/zones/"+zoneID.String(), nil, map[string]string{"X-API-Key": "test-api-key"})

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestCreateIncident_Success(t *testing.T) {
	_, incidentMock, _, router := newTestHandler(t)
	incidentID := uuid.New()
	reqBody := CreateIncidentRequest{
		Kind:        "intrusion",
		Location:    "Library, floor 2",
		Coordinates: &PointDTO{Lat: 5, Lng: 5},
		ReportedBy:  "dispatcher-1",
	}

	incidentMock.EXPECT().
		CreateIncident(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, incident *models.Incident) error {
			incident.ID = incidentID
			incident.Status = models.IncidentStatusNew
			incident.CreatedAt = time.Now()
			return nil
		}).Times(1)

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "POST", "/api/v1/incidents", bytes.NewBuffer(bodyBytes), map[string]string{"X-API-Key": "test-api-key"})

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp IncidentResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, incidentID, resp.ID)
	assert.Equal(t, "new", resp.Status)
}

func TestGetIncident_NotFound(t *testing.T) {
	_, incidentMock, _, router := newTestHandler(t)
	incidentID := uuid.New()

	incidentMock.EXPECT().
		GetIncident(gomock.Any(), incidentID).
		Return(nil, fmt.Errorf("service: could not get incident: %w", models.ErrNotFound)).
		Times(1)

	w := makeRequest(router, "GET", "/api/v1/incidents/"+incidentID.String(), nil, map[string]string{"X-API-Key": "test-api-key"})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTransitionIncident_Success(t *testing.T) {
	_, incidentMock, _, router := newTestHandler(t)
	incidentID := uuid.New()
	reqBody := TransitionRequest{
		TargetStatus: "in-progress",
		Actor:        "operator-1",
	}
	updated := &models.Incident{
		ID:     incidentID,
		Kind:   "intrusion",
		Status: models.IncidentStatusInProgress,
		AuditTrail: []models.ResponseLogEntry{
			{Actor: "operator-1", Action: "status changed to in-progress"},
		},
	}

	incidentMock.EXPECT().
		Transition(gomock.Any(), incidentID, models.IncidentStatusInProgress, "operator-1").
		Return(updated, nil).
		Times(1)

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "POST", "/api/v1/incidents/"+incidentID.String()+"/status", bytes.NewBuffer(bodyBytes), map[string]string{"X-API-Key": "test-api-key"})

	assert.Equal(t, http.StatusOK, w.Code)

	var resp IncidentResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "in-progress", resp.Status)
	require.Len(t, resp.AuditTrail, 1)
	assert.Equal(t, "status changed to in-progress", resp.AuditTrail[0].Action)
}

func TestTransitionIncident_Conflict(t *testing.T) {
	_, incidentMock, _, router := newTestHandler(t)
	incidentID := uuid.New()
	reqBody := TransitionRequest{
		TargetStatus: "resolved",
		Actor:        "operator-1",
	}

	incidentMock.EXPECT().
		Transition(gomock.Any(), incidentID, models.IncidentStatusResolved, "operator-1").
		Return(nil, fmt.Errorf("transition new -> resolved is not allowed: %w", models.ErrInvalidTransition)).
		Times(1)

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "POST", "/api/v1/incidents/"+incidentID.String()+"/status", bytes.NewBuffer(bodyBytes), map[string]string{"X-API-Key": "test-api-key"})

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "invalid status transition")
}

func TestTransitionIncident_UnknownStatus(t *testing.T) {
	_, incidentMock, _, router := newTestHandler(t)
	incidentID := uuid.New()

	incidentMock.EXPECT().Transition(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	bodyBytes, _ := json.Marshal(TransitionRequest{TargetStatus: "closed", Actor: "operator-1"})
	w := makeRequest(router, "POST", "/api/v1/incidents/"+incidentID.String()+"/status", bytes.NewBuffer(bodyBytes), map[string]string{"X-API-Key": "test-api-key"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAddNote_EmptyText(t *testing.T) {
	_, incidentMock, _, router := newTestHandler(t)
	incidentID := uuid.New()

	incidentMock.EXPECT().AddNote(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	bodyBytes, _ := json.Marshal(AddNoteRequest{Actor: "operator-1", Text: ""})
	w := makeRequest(router, "POST", "/api/v1/incidents/"+incidentID.String()+"/notes", bytes.NewBuffer(bodyBytes), map[string]string{"X-API-Key": "test-api-key"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAssignPersonnel_OffDutyConflict(t *testing.T) {
	_, incidentMock, _, router := newTestHandler(t)
	incidentID := uuid.New()
	personnelID := uuid.New()
	reqBody := AssignRequest{
		PersonnelIDs: []uuid.UUID{personnelID},
		Actor:        "operator-1",
	}

	incidentMock.EXPECT().
		Assign(gomock.Any(), incidentID, []uuid.UUID{personnelID}, "operator-1").
		Return(nil, fmt.Errorf("personnel %s is off duty: %w", personnelID, models.ErrPersonnelUnavailable)).
		Times(1)

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "POST", "/api/v1/incidents/"+incidentID.String()+"/assignments", bytes.NewBuffer(bodyBytes), map[string]string{"X-API-Key": "test-api-key"})

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "personnel unavailable")
}

func TestListExposedIncidents_Success(t *testing.T) {
	_, _, alertMock, router := newTestHandler(t)
	exposed := []*models.Incident{
		{ID: uuid.New(), Kind: "medical", Coordinates: &models.Point{Lat: 20, Lng: 20}},
	}

	alertMock.EXPECT().
		FindExposedIncidents(gomock.Any()).
		Return(exposed, nil).
		Times(1)

	w := makeRequest(router, "GET", "/api/v1/alerts/exposed", nil, map[string]string{"X-API-Key": "test-api-key"})

	assert.Equal(t, http.StatusOK, w.Code)

	var resp []IncidentResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	require.Len(t, resp, 1)
	assert.Equal(t, exposed[0].ID, resp[0].ID)
}

func TestListExposedIncidents_DeadlineExceeded(t *testing.T) {
	_, _, alertMock, router := newTestHandler(t)

	alertMock.EXPECT().
		FindExposedIncidents(gomock.Any()).
		Return(nil, fmt.Errorf("scan of 100000 incidents against 50 zones: %w", models.ErrDeadlineExceeded)).
		Times(1)

	w := makeRequest(router, "GET", "/api/v1/alerts/exposed", nil, map[string]string{"X-API-Key": "test-api-key"})

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestHealthCheck(t *testing.T) {
	_, _, _, router := newTestHandler(t)

	w := makeRequest(router, "GET", "/api/v1/system/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}
