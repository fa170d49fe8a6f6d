package v1

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes регистрирует все маршруты API v1
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	// Маршруты для управления зонами (CRUD)
	zones := api.Group("/zones")
	{
		zones.POST("", h.createZone)
		zones.GET("", h.listZones)
		zones.GET("/:id", h.getZone)
		zones.PUT("/:id", h.updateZone)
		zones.DELETE("/:id", h.deleteZone)
	}

	// Маршруты для инцидентов и их жизненного цикла
	incidents := api.Group("/incidents")
	{
		incidents.POST("", h.createIncident)
		incidents.GET("", h.listIncidents)
		incidents.GET("/:id", h.getIncident)
		incidents.POST("/:id/status", h.transitionIncident)
		incidents.POST("/:id/notes", h.addNote)
		incidents.POST("/:id/assignments", h.assignPersonnel)
	}

	// Маршрут для незащищенных инцидентов
	api.GET("/alerts/exposed", h.listExposedIncidents)

	// Маршрут Health-check
	api.GET("/system/health", h.healthCheck)
}
