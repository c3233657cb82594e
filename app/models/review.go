package models

import (
	"time"
)

const (
	MinRating        = 1
	MaxRating        = 5
	MaxCommentLength = 500
)

type Review struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	PerfumeID uint      `gorm:"not null;uniqueIndex:idx_review_perfume_user" json:"perfume_id"`
	Perfume   *Perfume  `gorm:"foreignKey:PerfumeID" json:"-"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_review_perfume_user;index" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID" json:"-"`
	Rating    int       `gorm:"not null" json:"rating"`
	Comment   string    `gorm:"size:500;not null" json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}
