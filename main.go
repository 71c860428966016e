package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"candyshop/config"
	"candyshop/controllers"
	"candyshop/middleware"
	"candyshop/routes"
	"candyshop/utils"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()
	client, err := utils.ConnectDB(ctx, cfg.MongoURI)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.WithError(err).Error("mongo disconnect failed")
		}
	}()
	log.Info("Connected to database")

	db := client.Database(cfg.DBName)
	if err := utils.EnsureIndexes(ctx, db); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}

	tokens := utils.NewTokenService(cfg.JWTSecret, cfg.JWTExpiry)
	emailService := utils.NewEmailService(cfg.PostmarkToken, cfg.EmailSender, log)
	if emailService == nil {
		log.Info("Email disabled (no POSTMARK_API_TOKEN)")
	}

	userController := controllers.NewUserController(db, tokens, cfg, log)
	productController := controllers.NewProductController(db, log)
	orderController := controllers.NewOrderController(db, emailService, log)
	uploadController, err := controllers.NewUploadController(cfg.UploadDir, log)
	if err != nil {
		log.Fatalf("Failed to prepare upload directory: %v", err)
	}
	statsController := controllers.NewStatsController(db, log)

	auth := middleware.NewAuthenticator(tokens)
	cors := middleware.NewCORSMiddleware(cfg.AllowedOrigins)

	router := mux.NewRouter()
	routes.Register(router, auth, routes.Table(
		userController, productController, orderController, uploadController, statsController,
	))
	router.PathPrefix("/uploads/").Handler(uploadController.ServeUploads())

	// CORS wraps the router itself so preflight requests are answered even
	// when no route matches the OPTIONS method.
	handler := middleware.RequestLogger(log)(
		cors.Handler(
			middleware.BodyLimit(cfg.MaxBodyBytes)(router)))

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler,
	}

	go func() {
		log.Infof("Server running on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Info("Server exiting")
}
