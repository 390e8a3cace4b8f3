package user

import (
	"time"
)

// User is an account identified by its normalized email.
type User struct {
	ID        string    `gorm:"primaryKey;type:text" json:"id"`
	Email     string    `gorm:"uniqueIndex;not null;type:text" json:"email"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

// TableName returns the table name for the User entity.
func (User) TableName() string {
	return "users"
}

// Identity is the resolved caller attached to an authenticated request.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}
