package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/uknown4ever/parking/internal/api"
	"github.com/uknown4ever/parking/internal/config"
	"github.com/uknown4ever/parking/internal/repository/postgresql"
	"github.com/uknown4ever/parking/internal/service"

	"github.com/sirupsen/logrus"
)

func main() {
	cfg := config.Load()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	db, err := postgresql.NewDB(cfg)
	if err != nil {
		log.Fatalf("could not connect to database: %v", err)
	}
	defer db.Close()
	log.Info("database connection established")

	if err := postgresql.Migrate(db); err != nil {
		log.Fatalf("could not run migrations: %v", err)
	}
	log.Info("schema is up to date")

	spaceRepo := postgresql.NewPgSpaceRepository(db)
	vehicleRepo := postgresql.NewPgVehicleRepository(db)
	sessionRepo := postgresql.NewPgSessionRepository(db)

	parkingService := service.NewParkingService(spaceRepo, vehicleRepo, sessionRepo, log)

	router := api.SetupRouter(parkingService)

	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	go func() {
		log.Infof("server listening on port %s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("ListenAndServe: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Info("server stopped")
}
