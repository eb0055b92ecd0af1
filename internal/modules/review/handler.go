package review

import (
	"errors"
	"net/http"
	"strconv"

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
	rg.POST("/bookings/:id/review", h.SubmitReview)
	rg.GET("/providers/:uid/reviews", h.ProviderReviews)
}

func (h *Handler) SubmitReview(c *gin.Context) {
	bookingID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || bookingID <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid booking ID")
		return
	}

	var req SubmitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	rev, err := h.service.Submit(c.Request.Context(), bookingID, c.GetInt64("user_id"), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrValidation):
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Rating must be between 1 and 5")
		case errors.Is(err, ErrNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Booking not found")
		case errors.Is(err, ErrForbidden):
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "Only the booking's client may review it")
		case errors.Is(err, ErrAlreadyReviewed):
			response.Error(c, http.StatusConflict, "ALREADY_REVIEWED", "Booking already has a review")
		case errors.Is(err, ErrNotReviewable):
			response.Error(c, http.StatusUnprocessableEntity, "NOT_REVIEWABLE", "Booking must be completed before review")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to submit review")
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"review": rev})
}

func (h *Handler) ProviderReviews(c *gin.Context) {
	providerUID, err := strconv.ParseInt(c.Param("uid"), 10, 64)
	if err != nil || providerUID <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid provider ID")
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	items, err := h.service.ListByProvider(c.Request.Context(), providerUID, limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load reviews")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"reviews": items})
}
