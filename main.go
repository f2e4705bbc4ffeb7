package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"campusfeed/config"
	"campusfeed/database"
	"campusfeed/handlers"
	"campusfeed/logger"
	"campusfeed/routes"
	"campusfeed/store"
	"campusfeed/validation"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("config: %v", err)
	}

	log := logger.New(cfg.ReleaseMode)
	if cfg.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}
	validation.Init()

	client, err := connectWithRetry(log, cfg.MongoURI)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to MongoDB")
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = client.Disconnect(ctx)
	}()

	db := client.Database(cfg.MongoDatabase)
	if err := database.EnsureIndexes(context.Background(), db); err != nil {
		log.WithError(err).Fatal("failed to create indexes")
	}
	log.Info("MongoDB connected")

	var uploader handlers.MediaUploader
	if cfg.CloudinaryURL != "" {
		uploader, err = handlers.NewCloudinaryUploader(cfg.CloudinaryURL)
		if err != nil {
			log.WithError(err).Fatal("cloudinary configuration error")
		}
	} else {
		log.Warn("CLOUDINARY_URL not set, media uploads disabled")
	}

	h := handlers.New(store.NewMongo(db), uploader, log)
	router := routes.SetupRouter(h, cfg.AllowedOrigins)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.WithField("port", cfg.Port).Info("server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("forced shutdown")
	}
	log.Info("server stopped")
}

func connectWithRetry(log *logrus.Logger, uri string) (*mongo.Client, error) {
	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		client, err := database.Connect(context.Background(), uri)
		if err == nil {
			return client, nil
		}
		lastErr = err
		log.WithError(err).Warnf("MongoDB connection attempt %d failed", attempt)
		time.Sleep(2 * time.Second)
	}
	return nil, lastErr
}
