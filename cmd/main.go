package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	amqpAdapter "tablebook/internal/adapter/amqp"
	httpAdapter "tablebook/internal/adapter/http"
	"tablebook/internal/adapter/logger"
	"tablebook/internal/adapter/postgres"
	"tablebook/internal/adapter/rabbitmq"
	"tablebook/internal/app/menu"
	"tablebook/internal/app/reservation"
	"tablebook/internal/config"
)

func main() {
	mode := flag.String("mode", "api-service", "Service mode: api-service, notification-subscriber")
	port := flag.Int("port", 0, "HTTP port (overrides config)")
	configPath := flag.String("config", "config.yaml", "Path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if *port != 0 {
		cfg.Server.Port = *port
	}

	ctx := context.Background()

	lgr := logger.New(*mode)

	mqConn, err := rabbitmq.Connect(cfg.RabbitMQ)
	if err != nil {
		log.Fatalf("Failed to connect to RabbitMQ: %v", err)
	}
	defer mqConn.Close()

	lgr.Info("rabbitmq_connected", "Connected to RabbitMQ", "startup", map[string]interface{}{
		"host": cfg.RabbitMQ.Host,
	})

	switch *mode {
	case "api-service":
		db, err := postgres.Connect(ctx, cfg.Database)
		if err != nil {
			log.Fatalf("Failed to connect to PostgreSQL: %v", err)
		}
		defer db.Close()

		lgr.Info("db_connected", "Connected to PostgreSQL database", "startup", map[string]interface{}{
			"host": cfg.Database.Host,
			"db":   cfg.Database.Database,
		})

		runAPIService(db, mqConn, lgr, cfg.Server.Port)

	case "notification-subscriber":
		runNotificationSubscriber(ctx, mqConn, lgr)

	default:
		log.Fatalf("Invalid mode: %s", *mode)
	}
}

func runAPIService(db postgres.DB, mqConn rabbitmq.Connection, lgr logger.Logger, port int) {
	reservationRepo := postgres.NewReservationRepository(db)
	menuRepo := postgres.NewMenuItemRepository(db)

	publisher := rabbitmq.NewPublisher(mqConn)

	reservationService := reservation.NewService(reservationRepo, publisher, lgr)
	menuService := menu.NewService(menuRepo, lgr)

	reservationHandler := httpAdapter.NewReservationHandler(reservationService, lgr)
	menuHandler := httpAdapter.NewMenuHandler(menuService, lgr)

	mux := http.NewServeMux()
	mux.HandleFunc("/reservations", reservationHandler.HandleReservations)
	mux.HandleFunc("/reservations/", reservationHandler.HandleReservation)
	mux.HandleFunc("/menu", menuHandler.HandleMenu)
	mux.HandleFunc("/menu/", menuHandler.HandleMenuItem)

	handler := httpAdapter.LoggingMiddleware(lgr)(mux)
	handler = httpAdapter.RecoveryMiddleware(lgr)(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	lgr.Info("service_started", fmt.Sprintf("Reservation API started on port %d", port), "startup", map[string]interface{}{
		"port": port,
	})

	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		<-sigint

		lgr.Info("shutdown_initiated", "Shutting down Reservation API", "shutdown", nil)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			lgr.Error("shutdown_error", "Error during shutdown", "shutdown", nil, err)
		}
	}()

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		lgr.Error("server_error", "Server error", "runtime", nil, err)
	}
}

func runNotificationSubscriber(ctx context.Context, mqConn rabbitmq.Connection, lgr logger.Logger) {
	consumer := rabbitmq.NewConsumer(mqConn)
	notificationHandler := amqpAdapter.NewNotificationHandler(lgr)

	lgr.Info("service_started", "Notification Subscriber started", "startup", nil)

	go func() {
		if err := consumer.ConsumeReservationNotifications(ctx, notificationHandler.HandleReservationCreated); err != nil {
			lgr.Error("consumer_error", "Error consuming notifications", "runtime", nil, err)
		}
	}()

	sigint := make(chan os.Signal, 1)
	signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
	<-sigint

	lgr.Info("shutdown_initiated", "Shutting down Notification Subscriber", "shutdown", nil)
}
