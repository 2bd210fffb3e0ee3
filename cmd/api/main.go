package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/modavia/modavia-golang/internal/config"
	"github.com/modavia/modavia-golang/internal/database"
	"github.com/modavia/modavia-golang/internal/handlers"
	"github.com/modavia/modavia-golang/internal/logger"
	"github.com/modavia/modavia-golang/internal/mail"
	"github.com/modavia/modavia-golang/internal/metrics"
	"github.com/modavia/modavia-golang/internal/routes"
	"github.com/modavia/modavia-golang/internal/store"
	"github.com/modavia/modavia-golang/internal/uploads"
)

func main() {
	// --- Load Environment Variables (.env) ---
	if err := godotenv.Load(); err != nil {
		// Not fatal: production deployments use real environment variables.
		logger.Get().Warn("could not load .env file, relying on system environment")
	}

	log := logger.Get()
	defer log.Sync()

	cfg := config.Load()
	metrics.Init(cfg.Metrics.Prefix)

	// --- Database Connection ---
	// Opened here and closed on shutdown; the handle is injected into the
	// stores rather than living in a lazily-created global.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, cfg.Database.URI, cfg.Database.Name)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	subscriberStore := store.NewMongoSubscriberStore(db)
	if err := subscriberStore.EnsureIndexes(ctx); err != nil {
		log.Fatal("failed to ensure subscriber indexes", zap.Error(err))
	}

	// --- Image Host ---
	cloud, err := uploads.NewCloudinaryUploader(
		cfg.Cloudinary.CloudName,
		cfg.Cloudinary.APIKey,
		cfg.Cloudinary.APISecret,
	)
	if err != nil {
		log.Fatal("failed to initialize image host", zap.Error(err))
	}

	// --- Application Setup ---
	app := &handlers.Handlers{
		Products:    store.NewMongoProductStore(db),
		Subscribers: subscriberStore,
		Looks:       store.NewMongoLookStore(db),
		Mailer:      mail.NewSMTPSender(cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.User, cfg.Mail.Password, cfg.Mail.From),
		Cloud:       cloud,
		Local:       uploads.NewLocalUploader(cfg.Uploads.Dir, cfg.Server.BaseURL),
		Logger:      log,
	}

	router := routes.SetupRouter(app, routes.Options{
		AllowedOrigin: cfg.Server.CORSOrigin,
		AdminToken:    cfg.Admin.Token,
		UploadDir:     cfg.Uploads.Dir,
	})

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		log.Info("starting Modavia API server", zap.String("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown failed", zap.Error(err))
	}
	if err := db.Close(shutdownCtx); err != nil {
		log.Error("database shutdown failed", zap.Error(err))
	}
}
