package configs

import (
	"fmt"
	"net"
	"time"

	"github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func (c *Config) DSN() string {
	mc := mysql.NewConfig()
	mc.User = c.DBUser
	mc.Passwd = c.DBPassword
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(c.DBHost, c.DBPort)
	mc.DBName = c.DBName
	mc.ParseTime = true
	mc.Loc = time.Local
	mc.Params = map[string]string{"charset": "utf8mb4"}
	return mc.FormatDSN()
}

func NewGormLogger(logger *zap.Logger) gormlogger.Interface {
	return gormlogger.New(zap.NewStdLog(logger.Named("gorm")), gormlogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  gormlogger.Warn,
		IgnoreRecordNotFoundError: true,
	})
}

func OpenConnection(cfg *Config, logger *zap.Logger) (*gorm.DB, error) {
	maxRetries := cfg.DBMaxRetries
	if maxRetries < 1 {
		maxRetries = 1
	}
	retryDelay := cfg.DBRetryDelay
	addr := net.JoinHostPort(cfg.DBHost, cfg.DBPort)

	var lastErr error
	for i := 0; i < maxRetries; i++ {
		logger.Info("connecting to database",
			zap.String("addr", addr),
			zap.String("db", cfg.DBName),
			zap.Int("attempt", i+1),
			zap.Int("max_attempts", maxRetries),
		)

		db, err := gorm.Open(gormmysql.Open(cfg.DSN()), &gorm.Config{Logger: NewGormLogger(logger)})
		if err == nil {
			sqlDB, pingErr := db.DB()
			if pingErr == nil {
				pingErr = sqlDB.Ping()
				if pingErr == nil {
					sqlDB.SetMaxOpenConns(25)
					sqlDB.SetMaxIdleConns(10)
					sqlDB.SetConnMaxLifetime(30 * time.Minute)
					logger.Info("database connection established")
					return db, nil
				}
			}
			lastErr = pingErr
			logger.Warn("failed to ping database", zap.Error(pingErr), zap.Duration("retry_in", retryDelay))
		} else {
			lastErr = err
			logger.Warn("failed to open gorm connection", zap.Error(err), zap.Duration("retry_in", retryDelay))
		}

		if i < maxRetries-1 {
			time.Sleep(retryDelay)
		}
	}

	return nil, fmt.Errorf("failed to connect to the database at %s after %d attempts: %w", addr, maxRetries, lastErr)
}
