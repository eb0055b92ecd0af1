package booking

import (
	"errors"
	"net/http"
	"strconv"

	"creativehub/internal/domain"
	"creativehub/internal/gateway"
	"creativehub/internal/modules/refund"
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
	rg.POST("/bookings", h.CreateBooking)
	rg.GET("/bookings/mine", h.MyBookings)
	rg.GET("/bookings/:id", h.GetBooking)
	rg.POST("/bookings/:id/status", h.TransitionBooking)
}

func (h *Handler) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", err.Error())
		return
	}
	req.ClientUID = c.GetInt64("user_id")

	b, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrValidation) {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid booking request")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create booking")
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"booking": b})
}

func (h *Handler) GetBooking(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}

	b, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Booking not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load booking")
		return
	}

	uid := c.GetInt64("user_id")
	if uid != b.ClientUID && uid != b.ProviderUID && c.GetString("role") != string(domain.RoleAdmin) {
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Not your booking")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) MyBookings(c *gin.Context) {
	limit, offset := pagination(c)
	items, err := h.service.ListByClient(c.Request.Context(), c.GetInt64("user_id"), limit, offset)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list bookings")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"bookings": items})
}

func (h *Handler) TransitionBooking(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}

	var req TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	actor := Actor{
		UID:  c.GetInt64("user_id"),
		Role: domain.UserRole(c.GetString("role")),
	}

	b, err := h.service.Transition(c.Request.Context(), id, req, actor)
	if err != nil {
		var declined *gateway.DeclinedError
		switch {
		case errors.Is(err, ErrNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Booking not found")
		case errors.Is(err, ErrInvalidTransition):
			response.Error(c, http.StatusConflict, "INVALID_TRANSITION", "Status transition not allowed")
		case errors.Is(err, ErrForbidden):
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "Not allowed to perform this transition")
		case errors.Is(err, refund.ErrNotEligible):
			response.Error(c, http.StatusUnprocessableEntity, "NOT_ELIGIBLE", "Booking is not eligible for a refund")
		case errors.As(err, &declined):
			response.Error(c, http.StatusPaymentRequired, "GATEWAY_DECLINED", "Payment gateway declined the refund")
		case gateway.IsRetryable(err):
			response.Error(c, http.StatusBadGateway, "GATEWAY_UNAVAILABLE", "Payment gateway unavailable, retry later")
		case errors.Is(err, ErrTransient):
			response.Error(c, http.StatusServiceUnavailable, "TRANSIENT", "Booking is busy, retry later")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update booking status")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func bookingID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid booking ID")
		return 0, false
	}
	return id, true
}

func pagination(c *gin.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
