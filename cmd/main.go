package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ecommerce-multivendor/internal/config"
	"ecommerce-multivendor/internal/domain/address"
	"ecommerce-multivendor/internal/domain/event"
	"ecommerce-multivendor/internal/domain/product"
	"ecommerce-multivendor/internal/domain/transaction"
	domainUser "ecommerce-multivendor/internal/domain/user"
	"ecommerce-multivendor/internal/infrastructure/database/memory"
	"ecommerce-multivendor/internal/infrastructure/database/postgres"
	"ecommerce-multivendor/internal/infrastructure/messaging"
	"ecommerce-multivendor/internal/logger"
	"ecommerce-multivendor/internal/routes"
	"ecommerce-multivendor/internal/usecase/auth"
	"ecommerce-multivendor/internal/usecase/user"
	pkgmqtt "ecommerce-multivendor/pkg/mqtt"

	"go.uber.org/zap"
)

type store struct {
	users      domainUser.Repository
	addresses  address.Repository
	products   product.Repository
	transactor transaction.Transactor
	health     routes.HealthChecker
	close      func() error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("Failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	env := cfg.Server.Environment
	if env == "" {
		env = "development"
	}
	if err := logger.Init(env, logger.Options{
		FilePath:   cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	}); err != nil {
		os.Stderr.WriteString("Failed to initialize logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("environment", env),
		zap.String("database_driver", cfg.Database.Driver),
	)

	if err := cfg.Validate(); err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}

	st, err := openStore(cfg)
	if err != nil {
		logger.Fatal("Failed to open credential store", zap.Error(err))
	}
	defer func() {
		if err := st.close(); err != nil {
			logger.Error("Failed to close database connection", zap.Error(err))
		}
	}()

	publisher, stopPublisher := newPublisher(cfg)
	defer stopPublisher()

	authenticator := auth.NewAuthenticator(st.users, cfg)
	userService := user.NewService(st.users, st.addresses, st.products, st.transactor, authenticator, publisher)

	done := make(chan struct{})
	defer close(done)

	router := routes.SetupRoutes(cfg, routes.Dependencies{
		UserService:   userService,
		Authenticator: authenticator,
		Store:         st.health,
		Done:          done,
	})

	addr := net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Server starting", zap.String("address", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Failed to shutdown server", zap.Error(err))
		return
	}

	logger.Info("Server exited properly")
}

func openStore(cfg *config.Config) (*store, error) {
	if cfg.Database.Driver == config.DriverMemory {
		logger.Warn("Using the in-memory store; data is lost on exit")

		mem := memory.NewStore()
		return &store{
			users:      memory.NewUserRepository(mem),
			addresses:  memory.NewAddressRepository(mem),
			products:   memory.NewProductRepository(mem),
			transactor: mem,
			health:     mem,
			close:      func() error { return nil },
		}, nil
	}

	db, err := postgres.NewDB(cfg)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &store{
		users:      postgres.NewUserRepository(db),
		addresses:  postgres.NewAddressRepository(db),
		products:   postgres.NewProductRepository(db),
		transactor: postgres.NewTxManager(db),
		health:     db,
		close:      db.Close,
	}, nil
}

// newPublisher connects to MQTT when a broker is configured. Without one, or
// when the broker is unreachable, account events are dropped.
func newPublisher(cfg *config.Config) (event.Publisher, func()) {
	if cfg.MQTT.Broker == "" {
		logger.Info("MQTT broker not configured, account events are disabled")
		return event.NopPublisher{}, func() {}
	}

	client := pkgmqtt.NewClient(&pkgmqtt.Config{
		Broker:               cfg.MQTT.Broker,
		ClientID:             cfg.MQTT.ClientID,
		Username:             cfg.MQTT.Username,
		Password:             cfg.MQTT.Password,
		CleanSession:         true,
		KeepAlive:            30,
		ConnectTimeout:       10,
		AutoReconnect:        true,
		MaxReconnectInterval: time.Minute,
		PublishTimeout:       5 * time.Second,
	}, logger.Logger)

	publisher, err := messaging.NewMQTTPublisher(messaging.MQTTPublisherConfig{
		TopicPrefix: cfg.MQTT.TopicPrefix,
		QoS:         1,
	}, client, logger.Logger)
	if err != nil {
		logger.Error("Failed to create event publisher", zap.Error(err))
		return event.NopPublisher{}, func() {}
	}

	if err := publisher.Start(); err != nil {
		logger.Error("MQTT broker unreachable, account events are disabled", zap.Error(err))
		return event.NopPublisher{}, func() {}
	}

	return publisher, publisher.Stop
}
