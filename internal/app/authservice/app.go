// Package authservice собирает зависимости сервиса аутентификации и управляет
// жизненным циклом HTTP-сервера.
package authservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/auth-service/internal/config"
	"github.com/magabrotheeeer/auth-service/internal/events"
	"github.com/magabrotheeeer/auth-service/internal/lib/jwt"
	"github.com/magabrotheeeer/auth-service/internal/lib/metrics"
	"github.com/magabrotheeeer/auth-service/internal/lib/password"
	"github.com/magabrotheeeer/auth-service/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/auth-service/internal/lib/sl"
	"github.com/magabrotheeeer/auth-service/internal/migrations"
	authservice "github.com/magabrotheeeer/auth-service/internal/services/auth"
	userservice "github.com/magabrotheeeer/auth-service/internal/services/users"
	"github.com/magabrotheeeer/auth-service/internal/storage/mongodb"
	"github.com/magabrotheeeer/auth-service/internal/storage/postgresql"
)

const shutdownTimeout = 15 * time.Second

// userStore — хранилище пользователей с освобождением ресурсов.
type userStore interface {
	userservice.UserRepository
	Close(ctx context.Context) error
}

type App struct {
	server *http.Server
	logger *slog.Logger
	store  userStore
	mqConn *amqp.Connection
	mqCh   *amqp.Channel
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "app.authservice.New"

	store, err := openStorage(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	app := &App{logger: logger, store: store}

	var publisher authservice.EventPublisher = events.Noop{}
	if cfg.RabbitMQ.URL != "" {
		conn, err := rabbitmq.Connect(cfg.RabbitMQ.URL, 5, 2*time.Second)
		if err != nil {
			app.close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		app.mqConn = conn
		ch, err := rabbitmq.SetupExchange(conn, cfg.Exchange)
		if err != nil {
			app.close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		app.mqCh = ch
		publisher = events.NewPublisher(ch, cfg.Exchange)
		logger.Info("publishing events", slog.String("exchange", cfg.Exchange))
	} else {
		logger.Info("rabbitmq url is empty, events are disabled")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	userService := userservice.NewUserService(store, logger)
	authService := authservice.NewAuthService(
		logger,
		userService,
		password.NewHasher(cfg.HashCost),
		jwtMaker,
		publisher,
		m,
	)

	app.server = &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      NewRouter(logger, authService, jwtMaker, m, reg),
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return app, nil
}

// openStorage подключает хранилище по драйверу из конфига.
// Для PostgreSQL перед стартом применяются миграции.
func openStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (userStore, error) {
	switch cfg.Driver {
	case config.DriverMongo:
		s, err := mongodb.New(ctx, cfg.ConnectionString, cfg.Database)
		if err != nil {
			return nil, err
		}
		logger.Info("storage ready", slog.String("driver", cfg.Driver), slog.String("database", cfg.Database))
		return s, nil
	case config.DriverPostgres:
		s, err := postgresql.New(ctx, cfg.ConnectionString)
		if err != nil {
			return nil, err
		}
		if err := migrations.Run(s.DB, cfg.MigrationsPath); err != nil {
			_ = s.Close(ctx)
			return nil, err
		}
		logger.Info("storage ready", slog.String("driver", cfg.Driver))
		return s, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.close()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.close()
		return err
	}
}

func (a *App) close() {
	if a.mqCh != nil {
		if err := a.mqCh.Close(); err != nil {
			a.logger.Warn("failed to close rabbitmq channel", sl.Err(err))
		}
	}
	if a.mqConn != nil {
		if err := a.mqConn.Close(); err != nil {
			a.logger.Warn("failed to close rabbitmq connection", sl.Err(err))
		}
	}
	if a.store != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.store.Close(ctx); err != nil {
			a.logger.Warn("failed to close storage", sl.Err(err))
		}
	}
}
