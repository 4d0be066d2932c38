// Package app assembles storage, services and the HTTP server from config.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rogerio-castellano/kasir/internal/alert"
	"github.com/rogerio-castellano/kasir/internal/auth"
	"github.com/rogerio-castellano/kasir/internal/config"
	"github.com/rogerio-castellano/kasir/internal/db"
	"github.com/rogerio-castellano/kasir/internal/events"
	api "github.com/rogerio-castellano/kasir/internal/http"
	"github.com/rogerio-castellano/kasir/internal/http/handlers"
	"github.com/rogerio-castellano/kasir/internal/http/middleware"
	rl "github.com/rogerio-castellano/kasir/internal/http/rate_limiter"
	"github.com/rogerio-castellano/kasir/internal/i18n"
	"github.com/rogerio-castellano/kasir/internal/logger"
	"github.com/rogerio-castellano/kasir/internal/menu"
	"github.com/rogerio-castellano/kasir/internal/objectstore"
	"github.com/rogerio-castellano/kasir/internal/qrcode"
	"github.com/rogerio-castellano/kasir/internal/redissvc"
	"github.com/rogerio-castellano/kasir/internal/repo"
	"github.com/rogerio-castellano/kasir/internal/service"
	"github.com/rogerio-castellano/kasir/pkg/closer"
)

const startupTimeout = 10 * time.Second

type App struct {
	cfg    *config.Config
	log    *logger.Logger
	closer *closer.Closer

	products     repo.ProductRepository
	transactions repo.TransactionRepository
	users        repo.UserRepository
	alerts       alert.Recorder
	publisher    events.Publisher
	archiver     service.Archiver

	Products     *service.ProductService
	Transactions *service.TransactionService
	Dashboard    *service.DashboardService
	QR           *service.QRService
	Auth         *service.AuthService
	Monitor      *alert.Monitor
}

// New connects the configured backends and builds the services. Call Close
// to release whatever was opened, including on error paths after New returns.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	a := &App{
		cfg:    cfg,
		log:    log,
		closer: closer.New(cfg.HTTP.ShutdownTimeout),
	}

	ctx, cancel := context.WithTimeout(ctx, startupTimeout)
	defer cancel()

	if err := a.initStorage(ctx); err != nil {
		a.closer.Close(context.Background())
		return nil, err
	}
	if err := a.initIntegrations(ctx); err != nil {
		a.closer.Close(context.Background())
		return nil, err
	}

	auth.SetConfig(auth.Config{
		Secret:     cfg.JWT.Secret,
		Expiration: time.Duration(cfg.JWT.Expiration) * time.Minute,
		Issuer:     cfg.JWT.Issuer,
	})
	i18n.SetDefault(i18n.Parse(cfg.App.Locale))

	emitter := events.NewEmitter(a.publisher, log)
	a.Monitor = alert.NewMonitor(a.alerts, log)
	a.Products = service.NewProductService(a.products, emitter)
	a.Transactions = service.NewTransactionService(a.products, a.transactions, a.Monitor, emitter, log)
	a.Dashboard = service.NewDashboardService(a.products, a.transactions)
	a.Auth = service.NewAuthService(a.users)
	a.QR = service.NewQRService(
		a.products,
		menu.Settings{RestaurantName: cfg.Menu.RestaurantName, Contact: cfg.Menu.Contact},
		cfg.Menu.MenuURL(),
		qrcode.Options{
			Size:   cfg.QR.Size,
			Margin: cfg.QR.Margin,
			Dark:   cfg.QR.DarkColor,
			Light:  cfg.QR.LightColor,
		},
		a.archiver,
		log,
	)
	return a, nil
}

func (a *App) initStorage(ctx context.Context) error {
	switch a.cfg.Storage.Driver {
	case config.DriverMemory:
		a.products = repo.NewInMemoryProductRepository()
		a.transactions = repo.NewInMemoryTransactionRepository()
		a.users = repo.NewInMemoryUserRepository()
		a.alerts = alert.NewMemoryRecorder()

	case config.DriverRedis:
		rdb, err := a.connectRedis(ctx)
		if err != nil {
			return err
		}
		prefix := a.cfg.Redis.Prefix
		a.products = repo.NewRedisProductRepository(rdb, prefix)
		a.transactions = repo.NewRedisTransactionRepository(rdb, prefix)
		a.users = repo.NewRedisUserRepository(rdb, prefix)
		a.alerts = alert.NewRedisRecorder(rdb, prefix)

	case config.DriverPostgres:
		database, err := a.connectPostgres(ctx)
		if err != nil {
			return err
		}
		if err := db.Migrate(database); err != nil {
			return err
		}
		a.products = repo.NewPostgresProductRepository(database)
		a.transactions = repo.NewPostgresTransactionRepository(database)
		a.users = repo.NewPostgresUserRepository(database)

		a.alerts = alert.NewMemoryRecorder()

	default:
		return fmt.Errorf("unknown storage driver %q", a.cfg.Storage.Driver)
	}

	a.log.Info().Str("driver", a.cfg.Storage.Driver).Msg("storage ready")
	return nil
}

func (a *App) connectRedis(ctx context.Context) (*redis.Client, error) {
	rdb, err := redissvc.Connect(ctx, redissvc.Options{
		Addr:     a.cfg.Redis.Addr,
		Password: a.cfg.Redis.Password,
		DB:       a.cfg.Redis.DB,
	})
	if err != nil {
		return nil, err
	}
	a.closer.AddErr(rdb.Close)
	return rdb, nil
}

func (a *App) connectPostgres(ctx context.Context) (*sql.DB, error) {
	database, err := db.Connect(ctx, a.cfg.Storage.DatabaseURL)
	if err != nil {
		return nil, err
	}
	a.closer.AddErr(database.Close)
	return database, nil
}

// OpenDatabase connects to Postgres for one-off commands such as migrate.
func OpenDatabase(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	return db.Connect(ctx, cfg.Storage.DatabaseURL)
}

func (a *App) initIntegrations(ctx context.Context) error {
	if a.cfg.Kafka.Enabled() {
		pub := events.NewKafkaPublisher(a.cfg.Kafka.Brokers, a.cfg.Kafka.Topic, a.log)
		a.closer.AddErr(pub.Close)
		a.publisher = pub
		a.log.Info().Strs("brokers", a.cfg.Kafka.Brokers).Str("topic", a.cfg.Kafka.Topic).Msg("publishing events to kafka")
	} else {
		a.publisher = events.NewLogPublisher(a.log)
	}

	if a.cfg.MinIO.Enabled() {
		store, err := objectstore.New(objectstore.Config{
			Endpoint:  a.cfg.MinIO.Endpoint,
			AccessKey: a.cfg.MinIO.AccessKey,
			SecretKey: a.cfg.MinIO.SecretKey,
			Bucket:    a.cfg.MinIO.Bucket,
			UseSSL:    a.cfg.MinIO.UseSSL,
		})
		if err != nil {
			return err
		}
		if err := store.EnsureBucket(ctx); err != nil {
			return err
		}
		a.archiver = store
		a.log.Info().Str("endpoint", a.cfg.MinIO.Endpoint).Str("bucket", a.cfg.MinIO.Bucket).Msg("archiving artifacts to object storage")
	}
	return nil
}

// SeedAdmin creates the configured admin account if it does not exist yet.
func (a *App) SeedAdmin(ctx context.Context) error {
	created, err := a.Auth.EnsureAdmin(ctx, a.cfg.Admin.Username, a.cfg.Admin.Password)
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if created {
		a.log.Info().Str("username", a.cfg.Admin.Username).Msg("admin account created")
	}
	return nil
}

// Router registers the services with the HTTP layer and returns the handler.
func (a *App) Router() http.Handler {
	handlers.SetLogger(a.log)
	handlers.SetProductService(a.Products)
	handlers.SetTransactionService(a.Transactions)
	handlers.SetDashboardService(a.Dashboard)
	handlers.SetQRService(a.QR)
	handlers.SetAuthService(a.Auth)
	handlers.SetAlertMonitor(a.Monitor)

	middleware.SetLogger(a.log)
	middleware.SetTrustProxy(a.cfg.HTTP.TrustProxy)
	middleware.SetRateLimit(a.cfg.Limits.RPS, a.cfg.Limits.Burst)

	return api.NewRouter()
}

// Run serves HTTP until ctx is cancelled, then shuts everything down.
func (a *App) Run(ctx context.Context) error {
	if err := a.SeedAdmin(ctx); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              a.cfg.HTTP.Addr(),
		Handler:           a.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	a.closer.Add(srv.Shutdown)

	cleanupCtx, stopCleanup := context.WithCancel(context.Background())
	a.closer.Add(func(context.Context) error {
		stopCleanup()
		return nil
	})
	go rl.StartVisitorCleanupLoop(cleanupCtx)

	errCh := make(chan error, 1)
	go func() {
		a.log.Info().Str("addr", srv.Addr).Str("env", a.cfg.App.Env).Msg("HTTP server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	var runErr error
	select {
	case runErr = <-errCh:
		a.log.Error().Err(runErr).Msg("HTTP server failed")
	case <-ctx.Done():
		a.log.Info().Msg("received shutdown signal, stopping gracefully")
	}

	if err := a.Close(); err != nil {
		a.log.Error().Err(err).Msg("shutdown error")
	} else {
		a.log.Info().Msg("application shutdown complete")
	}
	return runErr
}

// Close releases every resource LIFO within the configured shutdown timeout.
func (a *App) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.HTTP.ShutdownTimeout)
	defer cancel()
	return a.closer.Close(ctx)
}
