package cmd

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Rakhulsr/go-perfumery/app/configs"
	"github.com/Rakhulsr/go-perfumery/app/db/seeders"
	"github.com/Rakhulsr/go-perfumery/app/models/migrations"
	"github.com/Rakhulsr/go-perfumery/app/routes"
	"github.com/Rakhulsr/go-perfumery/app/utils/metrics"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

func bootstrap() (*configs.Config, *zap.Logger, error) {
	cfg, err := configs.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	logger, err := configs.NewLogger(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

func openDB(cfg *configs.Config, logger *zap.Logger) (*gorm.DB, error) {
	db, err := configs.OpenConnection(cfg, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("database connected")
	return db, nil
}

func serve(ctx context.Context) error {
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}
	defer logger.Sync()

	if err := cfg.RequireSecret(); err != nil {
		return err
	}
	db, err := openDB(cfg, logger)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              cfg.Port,
		Handler:           routes.NewRouter(db, cfg, logger, metrics.New()),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("addr", server.Addr), zap.String("env", cfg.AppEnv))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func RunCli() {
	cmd := &cli.Command{
		Name:  "perfumery",
		Usage: "Perfume store HTTP API",
		Action: func(ctx context.Context, c *cli.Command) error {
			return serve(ctx)
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Start the HTTP server",
				Action: func(ctx context.Context, c *cli.Command) error {
					return serve(ctx)
				},
			},
			{
				Name:  "migrate",
				Usage: "Run database migration",
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, logger, err := bootstrap()
					if err != nil {
						return err
					}
					defer logger.Sync()

					db, err := openDB(cfg, logger)
					if err != nil {
						return err
					}
					if err := migrations.AutoMigrate(db); err != nil {
						return err
					}
					logger.Info("migration complete")
					return nil
				},
			},
			{
				Name:  "seed",
				Usage: "Create the admin account and a sample catalog",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "admin-username", Value: "admin", Usage: "username of the seeded admin"},
					&cli.StringFlag{Name: "admin-password", Value: "admin123", Usage: "password of the seeded admin"},
					&cli.IntFlag{Name: "perfumes", Value: 20, Usage: "number of sample perfumes"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, logger, err := bootstrap()
					if err != nil {
						return err
					}
					defer logger.Sync()

					db, err := openDB(cfg, logger)
					if err != nil {
						return err
					}
					return seeders.DBSeed(db.WithContext(ctx), logger, seeders.Options{
						AdminUsername: c.String("admin-username"),
						AdminPassword: c.String("admin-password"),
						Perfumes:      int(c.Int("perfumes")),
					})
				},
			},
			{
				Name:  "generate-secret",
				Usage: "Generate a new JWT_SECRET for .env",
				Action: func(ctx context.Context, c *cli.Command) error {
					return configs.GenerateAndPrintSecret(os.Stdout)
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
