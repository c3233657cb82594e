package models

import (
	"time"
)

const (
	RoleAdmin    = 1
	RoleCustomer = 2
)

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string    `gorm:"size:50;not null;uniqueIndex" json:"username"`
	Email        string    `gorm:"size:100;not null;uniqueIndex" json:"email"`
	PhoneNumber  string    `gorm:"size:20;not null;uniqueIndex" json:"phone_number"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	RoleID       int       `gorm:"not null;index" json:"role_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func RoleName(roleID int) string {
	switch roleID {
	case RoleAdmin:
		return "admin"
	case RoleCustomer:
		return "customer"
	default:
		return "unknown"
	}
}

func (u *User) IsAdmin() bool {
	return u.RoleID == RoleAdmin
}
