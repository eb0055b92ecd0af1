package leaderboard

import (
	"net/http"
	"time"

	"creativehub/internal/domain"
	"creativehub/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/leaderboard", h.GetLeaderboard)
}

// RegisterInternalRoutes mounts the manual trigger, normally driven by the
// scheduler through cmd/leaderboard.
func (h *Handler) RegisterInternalRoutes(rg *gin.RouterGroup) {
	rg.POST("/leaderboard/run", h.RunAggregation)
}

func (h *Handler) GetLeaderboard(c *gin.Context) {
	city := c.Query("city")
	role := domain.UserRole(c.Query("role"))
	if city == "" || !role.IsCreator() {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "city and a creator role are required")
		return
	}

	entries, err := h.service.Snapshot(c.Request.Context(), city, role)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load leaderboard")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"leaderboard": entries})
}

func (h *Handler) RunAggregation(c *gin.Context) {
	result, err := h.service.Run(c.Request.Context(), time.Now().UTC())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Leaderboard aggregation failed")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"run": result})
}
