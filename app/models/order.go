package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusPaid       OrderStatus = "paid"
	OrderStatusCODPending OrderStatus = "cod_pending"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

const (
	PaymentMethodCard = "card"
	PaymentMethodCOD  = "cod"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusPaid, OrderStatusCODPending, OrderStatusCancelled},
	OrderStatusPaid:       {OrderStatusCancelled},
	OrderStatusCODPending: {OrderStatusCancelled},
}

// CanTransition reports whether an order may move from one status to another.
// Statuses only move forward; nothing returns to pending.
func CanTransition(from, to OrderStatus) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusPaid, OrderStatusCODPending, OrderStatusCancelled:
		return true
	}
	return false
}

// StatusAfterPayment is the status a freshly placed order settles on.
func StatusAfterPayment(method string) OrderStatus {
	if method == PaymentMethodCard {
		return OrderStatusPaid
	}
	return OrderStatusCODPending
}

type Order struct {
	ID            uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderCode     string          `gorm:"type:varchar(32);uniqueIndex;not null" json:"order_code"`
	UserID        uint            `gorm:"not null;index" json:"user_id"`
	User          *User           `gorm:"foreignKey:UserID" json:"-"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	ShippingCost  decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"shipping_cost"`
	TaxAmount     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"tax_amount"`
	FirstName     string          `gorm:"size:100;not null" json:"first_name"`
	LastName      string          `gorm:"size:100;not null" json:"last_name"`
	Email         string          `gorm:"size:100;not null" json:"email"`
	Phone         string          `gorm:"size:20;not null" json:"phone"`
	Address       string          `gorm:"type:text;not null" json:"address"`
	City          string          `gorm:"size:100;not null" json:"city"`
	State         string          `gorm:"size:100;not null" json:"state"`
	Zip           string          `gorm:"size:20;not null" json:"zip"`
	PaymentMethod string          `gorm:"size:10;not null;index" json:"payment_method"`
	Status        OrderStatus     `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	OrderItems    []OrderItem     `gorm:"foreignKey:OrderID" json:"items,omitempty"`
	PaymentDetail *PaymentDetail  `gorm:"foreignKey:OrderID" json:"-"`
	CreatedAt     time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) (err error) {
	if o.OrderCode == "" {
		o.OrderCode = NewOrderCode(time.Now())
	}
	return
}

func NewOrderCode(now time.Time) string {
	return fmt.Sprintf("INV-%s-%s", now.Format("20060102"), strings.ToUpper(uuid.New().String()[:8]))
}

// GrandTotal is the sum of the three stored aggregates.
func (o *Order) GrandTotal() decimal.Decimal {
	return o.TotalAmount.Add(o.ShippingCost).Add(o.TaxAmount)
}
