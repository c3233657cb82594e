package migrations

import (
	"github.com/Rakhulsr/go-perfumery/app/models"
	"gorm.io/gorm"
)

func Models() []any {
	return []any{
		&models.User{},
		&models.Perfume{},
		&models.Discount{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.PaymentDetail{},
		&models.Favorite{},
		&models.Review{},
	}
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
