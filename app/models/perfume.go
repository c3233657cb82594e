package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	CategoryMen    = "men"
	CategoryWomen  = "women"
	CategoryUnisex = "unisex"

	LowStockThreshold = 5
)

type Perfume struct {
	ID           uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string          `gorm:"size:255;not null;index" json:"name"`
	Description  string          `gorm:"type:text" json:"description"`
	Price        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Quantity     int             `gorm:"not null;default:0" json:"quantity"`
	Available    bool            `gorm:"not null;index" json:"available"`
	Category     string          `gorm:"size:10;not null;index" json:"category"`
	Sizes        SizeList        `gorm:"column:size;type:varchar(255)" json:"size"`
	TopNotes     string          `gorm:"size:500" json:"top_notes"`
	HeartNotes   string          `gorm:"size:500" json:"heart_notes"`
	BaseNotes    string          `gorm:"size:500" json:"base_notes"`
	Photo        []byte          `gorm:"type:longblob" json:"-"`
	PhotoType    string          `gorm:"size:50" json:"-"`
	IsBestSeller bool            `gorm:"not null;default:false" json:"is_best_seller"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	DeletedAt    gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (p *Perfume) InStock() bool {
	return p.Available && p.Quantity > 0
}

func (p *Perfume) StockLevel() string {
	if p.Quantity <= LowStockThreshold {
		return "low"
	}
	return "available"
}

// DefaultSize is the first listed size, or "" when none is configured.
func (p *Perfume) DefaultSize() string {
	if len(p.Sizes) == 0 {
		return ""
	}
	return p.Sizes[0]
}

func (p *Perfume) HasSize(size string) bool {
	if len(p.Sizes) == 0 {
		return size == ""
	}
	for _, s := range p.Sizes {
		if s == size {
			return true
		}
	}
	return false
}

func (p *Perfume) HasPhoto() bool {
	return len(p.Photo) > 0
}
