package models

import "time"

// PaymentDetail never holds more of the card number than its last four digits.
type PaymentDetail struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID       uint      `gorm:"not null;uniqueIndex" json:"order_id"`
	PaymentMethod string    `gorm:"size:10;not null" json:"payment_method"`
	CardLast4     string    `gorm:"size:4;not null" json:"card_last4"`
	CardName      string    `gorm:"size:100;not null" json:"card_name"`
	Expiry        string    `gorm:"size:10;not null" json:"expiry"`
	CreatedAt     time.Time `json:"created_at"`
}
