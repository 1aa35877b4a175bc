package model

import (
	"time"

	"github.com/google/uuid"
)

// Role constants
const (
	RoleAdmin    = "admin"
	RoleOperator = "operator"
)

// User is an operator account allowed to log in and mutate data.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Username  string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"username"`
	Password  string    `gorm:"type:varchar(255);not null" json:"-"` // bcrypt hash, never serialized
	Role      string    `gorm:"type:varchar(50);not null;default:'operator'" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
