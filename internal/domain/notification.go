package domain

import "time"

type NotificationTemplate string

const (
	TemplateBookingConfirmed NotificationTemplate = "booking_confirmed"
	TemplateBookingCancelled NotificationTemplate = "booking_cancelled"
	TemplateRefundProcessed  NotificationTemplate = "refund_processed"
	TemplateTierChanged      NotificationTemplate = "tier_changed"
)

type Notification struct {
	ID          int64                `json:"id"`
	UID         int64                `json:"uid"`
	TemplateKey NotificationTemplate `json:"template_key"`
	Payload     string               `json:"payload,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
	ReadAt      *time.Time           `json:"read_at,omitempty"`
}
