package seeders

import (
	"fmt"

	"github.com/Rakhulsr/go-perfumery/app/db/fakers"
	"github.com/Rakhulsr/go-perfumery/app/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Seeder struct {
	Seeder any
}

type Options struct {
	AdminUsername string
	AdminPassword string
	Perfumes      int
}

func SeedersRegister(opts Options) ([]Seeder, error) {
	admin, err := fakers.UserFaker(opts.AdminUsername, opts.AdminPassword, models.RoleAdmin)
	if err != nil {
		return nil, err
	}

	seeders := []Seeder{{Seeder: admin}}
	for i := 0; i < opts.Perfumes; i++ {
		seeders = append(seeders, Seeder{Seeder: fakers.PerfumeFaker()})
	}
	return seeders, nil
}

// DBSeed is idempotent for the admin account: an existing username is left
// untouched.
func DBSeed(db *gorm.DB, logger *zap.Logger, opts Options) error {
	seeders, err := SeedersRegister(opts)
	if err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for _, seeder := range seeders {
			if user, ok := seeder.Seeder.(*models.User); ok {
				res := tx.Where(models.User{Username: user.Username}).FirstOrCreate(user)
				if res.Error != nil {
					return fmt.Errorf("seed admin: %w", res.Error)
				}
				logger.Info("admin account ready", zap.String("username", user.Username), zap.Bool("created", res.RowsAffected > 0))
				continue
			}
			if err := tx.Create(seeder.Seeder).Error; err != nil {
				return fmt.Errorf("seed %T: %w", seeder.Seeder, err)
			}
		}
		logger.Info("seed complete", zap.Int("perfumes", opts.Perfumes))
		return nil
	})
}
