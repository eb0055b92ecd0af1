package xp

import (
	"errors"
	"net/http"
	"strconv"

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

// RegisterRoutes mounts the user-facing progress endpoints.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/users/:uid/progress", h.GetProgress)
	rg.GET("/users/:uid/xp-transactions", h.ListTransactions)
}

// RegisterInternalRoutes mounts the award and penalty endpoints, reachable
// only with the internal service token.
func (h *Handler) RegisterInternalRoutes(rg *gin.RouterGroup) {
	rg.POST("/xp/awards", h.Award)
	rg.POST("/users/:uid/tier-freeze", h.TierFreeze)
	rg.POST("/users/:uid/late-delivery", h.LateDelivery)
}

func (h *Handler) Award(c *gin.Context) {
	var req AwardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	result, err := h.service.AwardXP(c.Request.Context(), req.UID, domain.XPEvent(req.Event), AwardOptions{
		ContextID:  req.ContextID,
		QuickReply: req.QuickReply,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrUnknownEvent):
			response.Error(c, http.StatusBadRequest, "UNKNOWN_EVENT", "Event is not in the reward table")
		case errors.Is(err, ErrTransient):
			response.Error(c, http.StatusServiceUnavailable, "TRANSIENT", "Progress record is busy, retry later")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to award XP")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"award": result})
}

func (h *Handler) GetProgress(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	progress, err := h.service.GetProgress(c.Request.Context(), uid)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load progress")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"progress": progress})
}

func (h *Handler) ListTransactions(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	items, err := h.service.ListTransactions(c.Request.Context(), uid, limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load transactions")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"transactions": items})
}

func (h *Handler) TierFreeze(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	var req TierFreezeRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Frozen == nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	if err := h.service.SetTierFrozen(c.Request.Context(), uid, *req.Frozen); err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update tier freeze")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"uid": uid, "frozen": *req.Frozen})
}

func (h *Handler) LateDelivery(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	if err := h.service.RecordLateDelivery(c.Request.Context(), uid); err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to record late delivery")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"uid": uid})
}

func userID(c *gin.Context) (int64, bool) {
	uid, err := strconv.ParseInt(c.Param("uid"), 10, 64)
	if err != nil || uid <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid user ID")
		return 0, false
	}
	return uid, true
}
