package refund

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"creativehub/internal/domain"
	"creativehub/internal/gateway"
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
	rg.GET("/bookings/:id/refund-preview", h.PreviewRefund)
	rg.POST("/bookings/:id/refund", h.ProcessRefund)
}

func (h *Handler) PreviewRefund(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid booking ID")
		return
	}
	isEmergency := c.Query("emergency") == "true"

	preview, err := h.service.PreviewByID(c.Request.Context(), id, time.Now().UTC(), isEmergency)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Booking not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to compute refund preview")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"preview": preview})
}

func (h *Handler) ProcessRefund(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid booking ID")
		return
	}

	var req ProcessRefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	requester := Requester{
		UID:  c.GetInt64("user_id"),
		Role: domain.UserRole(c.GetString("role")),
	}

	result, err := h.service.ProcessRefund(c.Request.Context(), id, requester, req.Reason, req.IsEmergency)
	if err != nil {
		var declined *gateway.DeclinedError
		switch {
		case errors.Is(err, ErrNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Booking not found")
		case errors.Is(err, ErrNotEligible):
			response.Error(c, http.StatusUnprocessableEntity, "NOT_ELIGIBLE", "Booking is not eligible for a refund")
		case errors.Is(err, ErrForbidden):
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "Not a party to this booking")
		case errors.As(err, &declined):
			response.Error(c, http.StatusPaymentRequired, "GATEWAY_DECLINED", "Payment gateway declined the refund")
		case gateway.IsRetryable(err):
			response.Error(c, http.StatusBadGateway, "GATEWAY_UNAVAILABLE", "Payment gateway unavailable, retry later")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to process refund")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"refund": result})
}
