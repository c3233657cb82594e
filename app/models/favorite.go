package models

import "time"

type Favorite struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_favorite_user_perfume" json:"user_id"`
	PerfumeID uint      `gorm:"not null;uniqueIndex:idx_favorite_user_perfume" json:"perfume_id"`
	Perfume   *Perfume  `gorm:"foreignKey:PerfumeID" json:"-"`
	AddedAt   time.Time `gorm:"not null" json:"added_at"`
}
