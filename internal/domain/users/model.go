package users

import (
	"time"

	"heritage-gallery/internal/domain/access"
)

type User struct {
	ID           uint `gorm:"primaryKey"`
	Name         string
	Lastname     string
	Email        string  `gorm:"not null;uniqueIndex:idx_users_email"`
	Password     *string `gorm:""`
	AuthProvider string  `gorm:"type:varchar(20);not null;default:'local'"`
	GoogleSub    *string `gorm:"uniqueIndex:idx_users_google_sub"`
	Role         string  `gorm:"type:varchar(20);not null;default:'viewer'"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Actor is the permission view of u.
func (u User) Actor() access.Actor {
	return access.Actor{
		ID:        access.UserID(u.ID),
		FirstName: u.Name,
		LastName:  u.Lastname,
		Role:      access.ParseRole(u.Role),
	}
}

// DisplayName is the denormalized uploader name stored on records.
func (u User) DisplayName() string {
	return u.Actor().DisplayName()
}
