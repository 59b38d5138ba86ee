package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"carepoint/config"
	_ "carepoint/docs"
	"carepoint/internal/domain"
	"carepoint/internal/events"
	"carepoint/internal/otp"
	"carepoint/internal/repository"
	"carepoint/internal/repository/snapshot"
	"carepoint/internal/seed"
	"carepoint/internal/service"
	"carepoint/internal/storage"
	"carepoint/internal/transport/rest"
	"carepoint/internal/transport/websocket"
	"carepoint/pkg/database"
	"carepoint/pkg/logger"
)

// @title CarePoint API
// @version 1.0
// @description Patient engagement backend: symptom triage, doctor matching and appointment booking
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@carepoint.local

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
func main() {
	rootCmd := &cobra.Command{
		Use:           "carepoint",
		Short:         "CarePoint patient engagement API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending Postgres migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}
			defer log.Sync()

			if cfg.Storage.Driver != config.StorageDriverPostgres {
				return fmt.Errorf("migrate requires STORAGE_DRIVER=%s", config.StorageDriverPostgres)
			}

			ctx := cmd.Context()
			db, err := database.NewPostgresDB(ctx, cfg.Postgres, log)
			if err != nil {
				return err
			}
			defer db.Close()

			return database.RunMigrations(ctx, db, cfg.Storage.MigrationsDir, log)
		},
	}
}

func seedCmd() *cobra.Command {
	var (
		demo     int
		randSeed uint64
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the default doctors and accounts",
		Long:  "Loads the default doctor registry when it is empty and creates any missing default account. With --demo N also generates N queries and N appointments.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}
			defer log.Sync()

			ctx := cmd.Context()
			repos, closeStore, err := openRepositories(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer closeStore()

			seeder := seed.NewSeeder(repos, log)
			if err := seeder.Run(ctx); err != nil {
				return err
			}

			if randSeed == 0 {
				randSeed = uint64(time.Now().UnixNano())
			}
			return seeder.Demo(ctx, demo, rand.New(rand.NewPCG(randSeed, randSeed>>1)), time.Now())
		},
	}

	cmd.Flags().IntVar(&demo, "demo", 0, "number of demo queries and appointments to generate")
	cmd.Flags().Uint64Var(&randSeed, "rand-seed", 0, "seed for the demo generator (0 picks one)")
	return cmd
}

func bootstrap() (*config.Config, *zap.Logger, error) {
	cfg, err := config.NewConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	log, err := logger.NewLogger(cfg.Environment, cfg.LogLevel, cfg.Name)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}

	return cfg, log, nil
}

// openRepositories connects the configured backend. Postgres is migrated
// on open; the embedded store seeds its own defaults.
func openRepositories(ctx context.Context, cfg *config.Config, log *zap.Logger) (*repository.Repositories, func(), error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverSQLite:
		defaults, err := seed.Defaults()
		if err != nil {
			return nil, nil, err
		}
		store, err := snapshot.NewStore(ctx, cfg.Storage.DataDir, defaults, log)
		if err != nil {
			return nil, nil, fmt.Errorf("open embedded store: %w", err)
		}
		log.Info("using embedded store", zap.String("path", store.Path()))
		return store.Repositories(), func() { store.Close() }, nil

	default:
		db, err := database.NewPostgresDB(ctx, cfg.Postgres, log)
		if err != nil {
			return nil, nil, err
		}
		if err := database.RunMigrations(ctx, db, cfg.Storage.MigrationsDir, log); err != nil {
			db.Close()
			return nil, nil, err
		}
		return repository.NewRepositories(db), db.Close, nil
	}
}

// lazyTokens lets the dashboard hub validate tokens with the auth service
// that is built after it.
type lazyTokens struct {
	services *service.Services
}

func (l *lazyTokens) ParseToken(ctx context.Context, token string) (int64, domain.UserRole, error) {
	return l.services.Auth.ParseToken(ctx, token)
}

func runServer() error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repos, closeStore, err := openRepositories(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	var fileStorage storage.FileStorage
	if cfg.S3.Enabled() {
		s3Storage, err := storage.NewS3Storage(ctx, cfg.S3, log)
		if err != nil {
			return fmt.Errorf("init object storage: %w", err)
		}
		fileStorage = s3Storage
		log.Info("object storage ready", zap.String("endpoint", cfg.S3.Endpoint), zap.String("bucket", cfg.S3.Bucket))
	} else {
		log.Warn("object storage not configured, profile photo uploads are disabled")
	}

	var verifier otp.Verifier = otp.Unconfigured{}
	if cfg.Twilio.Enabled() {
		verifier = otp.NewTwilioVerifier(cfg.Twilio, log)
	} else {
		log.Warn("twilio not configured, OTP booking will fail")
	}

	tokens := &lazyTokens{}
	hub := websocket.NewDashboardHub(tokens, cfg.HTTP.CORSOrigins, log)
	go hub.Run(ctx)

	publishers := events.Multi{hub}
	if cfg.Kafka.Enabled() {
		kafkaPublisher := events.NewKafkaPublisher(cfg.Kafka, log)
		defer kafkaPublisher.Close()
		publishers = append(publishers, kafkaPublisher)
		log.Info("publishing events to kafka", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	}

	services := service.NewServices(service.Deps{
		Repos:       repos,
		Logger:      log,
		Config:      cfg,
		FileStorage: fileStorage,
		Publisher:   publishers,
		Verifier:    verifier,
	})
	tokens.services = services

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	handler := rest.NewHandler(services, log, cfg, hub)
	handler.InitRoutes(router)

	srv := &http.Server{
		Addr:           ":" + cfg.HTTP.Port,
		Handler:        router,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderMB << 20,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	log.Info("server started", zap.String("addr", srv.Addr), zap.String("storage", cfg.Storage.Driver))

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}
	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	log.Info("server stopped")
	return nil
}
