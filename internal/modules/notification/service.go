package notification

import (
	"context"
	"encoding/json"

	"creativehub/internal/domain"
)

// Service is the in-platform rendering of the notification dispatcher.
// Delivery is fire-and-forget from every caller's perspective: errors are
// returned for logging but must never roll back the triggering operation.
type Service struct {
	notifications NotificationRepository
	loggerf       func(format string, args ...interface{})
}

func NewService(notifications NotificationRepository, loggerf func(format string, args ...interface{})) *Service {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Service{notifications: notifications, loggerf: loggerf}
}

// Notify persists one notification row for the user.
func (s *Service) Notify(ctx context.Context, uid int64, templateKey domain.NotificationTemplate, data map[string]any) error {
	var payload string
	if len(data) > 0 {
		raw, err := json.Marshal(data)
		if err != nil {
			return err
		}
		payload = string(raw)
	}

	n := &domain.Notification{UID: uid, TemplateKey: templateKey, Payload: payload}
	if err := s.notifications.Create(ctx, n); err != nil {
		s.loggerf("level=error msg=notification write failed uid=%d template=%s err=%v", uid, templateKey, err)
		return err
	}
	return nil
}

func (s *Service) NotifyBookingConfirmed(ctx context.Context, clientUID, bookingID int64) error {
	return s.Notify(ctx, clientUID, domain.TemplateBookingConfirmed, map[string]any{"booking_id": bookingID})
}

func (s *Service) NotifyBookingCancelled(ctx context.Context, clientUID, bookingID int64, reason string) error {
	data := map[string]any{"booking_id": bookingID}
	if reason != "" {
		data["reason"] = reason
	}
	return s.Notify(ctx, clientUID, domain.TemplateBookingCancelled, data)
}

func (s *Service) NotifyRefundProcessed(ctx context.Context, clientUID, bookingID, amountMinor int64) error {
	return s.Notify(ctx, clientUID, domain.TemplateRefundProcessed, map[string]any{
		"booking_id":   bookingID,
		"amount_minor": amountMinor,
	})
}

func (s *Service) NotifyTierChanged(ctx context.Context, uid int64, tier domain.Tier) error {
	return s.Notify(ctx, uid, domain.TemplateTierChanged, map[string]any{"tier": string(tier)})
}

func (s *Service) ListForUser(ctx context.Context, uid int64, limit int) ([]domain.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.notifications.ListByUser(ctx, uid, limit)
}
