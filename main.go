package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"inventory/internal/app"
	"inventory/internal/config"
	"inventory/internal/logger"
	"inventory/internal/models"
	"inventory/internal/repositories"
	"inventory/internal/services"
	"inventory/internal/store"
	"inventory/pkg/ptr"
	"inventory/pkg/rabbitmq"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped with error", slog.Any("error", err))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server, cleanup, err := setup(ctx, cfg, log)
	if err != nil {
		return err
	}

	listenErr := make(chan error, 1)
	go func() {
		log.Info("starting server",
			slog.String("addr", cfg.AppPort),
			slog.String("store", cfg.Store.Driver),
			slog.String("update_merge", cfg.UpdateMerge.String()),
			slog.Bool("auth_required", cfg.Auth.Required))
		listenErr <- server.Listen(cfg.AppPort)
	}()

	select {
	case err = <-listenErr:
		err = fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
		log.Info("shutting down server")
		if shutdownErr := server.ShutdownWithTimeout(shutdownTimeout); shutdownErr != nil {
			err = fmt.Errorf("shutdown: %w", shutdownErr)
		}
	}

	closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if cleanupErr := cleanup(closeCtx); cleanupErr != nil {
		err = errors.Join(err, cleanupErr)
	}

	if err == nil {
		log.Info("server gracefully stopped")
	}
	return err
}

// setup opens the store and the event publisher and assembles the app.
// cleanup releases both.
func setup(ctx context.Context, cfg config.Config, log *slog.Logger) (*app.App, func(context.Context) error, error) {
	st, err := store.Open(ctx, cfg.Store, log)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}

	var (
		publisher services.EventPublisher
		mqClient  *rabbitmq.Client
	)
	if cfg.RabbitMQ.URL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQ.URL, Queue: cfg.RabbitMQ.Queue}, log)
		if err != nil {
			return nil, nil, errors.Join(fmt.Errorf("connect rabbitmq: %w", err), st.Close(ctx))
		}
		publisher = mqClient
	} else {
		log.Info("RABBITMQ_URL not set, product events disabled")
	}

	if cfg.SeedDemoData {
		seedProducts(ctx, st.Products, log)
	}

	server := app.New(app.Deps{
		Config:    cfg,
		Logger:    log,
		Store:     st,
		Publisher: publisher,
		AccessLog: os.Stdout,
	})

	cleanup := func(ctx context.Context) error {
		var errs []error
		if mqClient != nil {
			errs = append(errs, mqClient.Close())
		}
		errs = append(errs, st.Close(ctx))
		return errors.Join(errs...)
	}

	return server, cleanup, nil
}

// seedProducts populates the product repository with some initial data.
func seedProducts(ctx context.Context, repo repositories.ProductRepository, log *slog.Logger) {
	products := []models.Product{
		{Name: "Laptop", Quantity: ptr.New(10), Supplier: "Northwind"},
		{Name: "Keyboard", Quantity: ptr.New(25), Supplier: "Contoso"},
		{Name: "Mouse", Quantity: ptr.New(50)},
	}

	for i := range products {
		if err := repo.Create(ctx, &products[i]); err != nil {
			log.Error("failed to seed product", slog.String("name", products[i].Name), slog.Any("error", err))
			continue
		}
		log.Debug("seeded product", slog.String("name", products[i].Name), slog.String("id", products[i].ID))
	}
}
