package models

import (
	"github.com/shopspring/decimal"
)

// OrderItem is a purchase-time snapshot and is never updated after insert.
type OrderItem struct {
	ID        uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   uint            `gorm:"not null;index" json:"order_id"`
	PerfumeID uint            `gorm:"not null;index" json:"perfume_id"`
	Perfume   *Perfume        `gorm:"foreignKey:PerfumeID" json:"-"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	Size      *string         `gorm:"size:20" json:"size"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"`
}

func (oi *OrderItem) Subtotal() decimal.Decimal {
	return oi.UnitPrice.Mul(decimal.NewFromInt(int64(oi.Quantity)))
}
