package model

import (
	"time"

	"github.com/google/uuid"
)

// Vendor represents a counterparty billed for items, belonging to one route.
// Deleting a route that still has vendors is blocked by the FK constraint.
type Vendor struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	RouteID   uuid.UUID `gorm:"type:uuid;not null;index" json:"route_id"`
	Route     *Route    `gorm:"foreignKey:RouteID;constraint:OnDelete:RESTRICT" json:"route,omitempty"`
	Contact   string    `gorm:"type:varchar(50)" json:"contact"`
	Address   string    `gorm:"type:text" json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
