package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Rakhulsr/go-perfumery/app/utils/apperror"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// inTransaction runs fn inside one database transaction. Any error or panic
// from fn rolls everything back.
func inTransaction(ctx context.Context, db *gorm.DB, logger *zap.Logger, fn func(tx *gorm.DB) error) (err error) {
	tx := db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}

	defer func() {
		if r := recover(); r != nil {
			logger.Error("rolling back transaction after panic", zap.Any("panic", r))
			tx.Rollback()
			panic(r)
		}
	}()

	if err = fn(tx); err != nil {
		if rbErr := tx.Rollback().Error; rbErr != nil {
			logger.Warn("rollback failed", zap.Error(rbErr))
		}
		return err
	}

	if err = tx.Commit().Error; err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// asAppError finds an application error anywhere in err's chain, so one
// returned from inside a transaction keeps its kind after wrapping.
func asAppError(err error) (*apperror.Error, bool) {
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
