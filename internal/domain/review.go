package domain

import "time"

type Review struct {
	ID          int64     `json:"id"`
	BookingID   int64     `json:"booking_id"`
	AuthorUID   int64     `json:"author_uid"`
	ProviderUID int64     `json:"provider_uid"`
	Rating      int       `json:"rating" validate:"required,min=1,max=5"`
	Comment     string    `json:"comment,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
