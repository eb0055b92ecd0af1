package domain

import "time"

type UserRole string

const (
	RoleClient   UserRole = "client"
	RoleArtist   UserRole = "artist"
	RoleEngineer UserRole = "engineer"
	RoleProducer UserRole = "producer"
	RoleStudio   UserRole = "studio"
	RoleAdmin    UserRole = "admin"
)

// CreatorRoles are the provider-side roles that compete on leaderboards.
var CreatorRoles = []UserRole{RoleArtist, RoleEngineer, RoleProducer, RoleStudio}

func (r UserRole) IsCreator() bool {
	for _, cr := range CreatorRoles {
		if r == cr {
			return true
		}
	}
	return false
}

type User struct {
	ID          int64     `json:"id"`
	Email       string    `json:"email" validate:"required,email"`
	DisplayName string    `json:"display_name"`
	Role        UserRole  `json:"role"`
	City        string    `json:"city,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
