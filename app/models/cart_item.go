package models

import (
	"time"
)

type CartItem struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_cart_user_perfume_size" json:"user_id"`
	PerfumeID uint      `gorm:"not null;uniqueIndex:idx_cart_user_perfume_size" json:"perfume_id"`
	Perfume   *Perfume  `gorm:"foreignKey:PerfumeID" json:"-"`
	Size      string    `gorm:"size:20;not null;default:'';uniqueIndex:idx_cart_user_perfume_size" json:"size"`
	Quantity  int       `gorm:"not null;default:1" json:"quantity"`
	AddedAt   time.Time `gorm:"not null;index" json:"added_at"`
}
