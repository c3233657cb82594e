package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Discount struct {
	ID                 uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	PerfumeID          uint            `gorm:"not null;index" json:"perfume_id"`
	Perfume            *Perfume        `gorm:"foreignKey:PerfumeID" json:"-"`
	DiscountPercentage decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"discount_percentage"`
	StartDate          time.Time       `gorm:"type:date;not null" json:"start_date"`
	EndDate            time.Time       `gorm:"type:date;not null;index" json:"end_date"`
	CreatedAt          time.Time       `json:"created_at"`
}

// Today truncates t to midnight in its own location.
func Today(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func (d *Discount) IsActive(now time.Time) bool {
	return !d.EndDate.Before(Today(now))
}
