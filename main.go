// main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/harshptk02/storefront-api/controllers"
	"github.com/harshptk02/storefront-api/middleware"
	"github.com/harshptk02/storefront-api/repository"
	"github.com/harshptk02/storefront-api/routes"
	"github.com/harshptk02/storefront-api/services"
	"github.com/harshptk02/storefront-api/store"
	"github.com/harshptk02/storefront-api/utils"
)

const dbName = "storefront"

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("no .env file found, proceeding with environment variables")
	}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Set the JWT secret key
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		utils.JwtKey = []byte(secret)
	}

	// Connect to MongoDB
	client := utils.ConnectDB()
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("failed to disconnect from MongoDB")
		}
	}()
	db := client.Database(dbName)

	// Initialize EmailService
	emailService := utils.NewEmailService()

	// Repositories and in-memory stores
	productRepo := repository.NewProductRepo(db)
	orderRepo := repository.NewOrderRepo(db)
	cartStore := store.NewCartStore()
	wishlistStore := store.NewWishlistStore()
	orderService := services.NewOrderService(productRepo, orderRepo)

	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "uploads"
	}
	uploadController, err := controllers.NewUploadController(uploadDir)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize uploads")
	}

	// Set up the router
	router := mux.NewRouter()
	router.Use(middleware.LoggerMiddleware)
	routes.RegisterRoutes(router, routes.Controllers{
		Users:      controllers.NewUserController(client, dbName),
		Products:   controllers.NewProductController(client, dbName),
		Categories: controllers.NewCategoryController(client, dbName),
		Brands:     controllers.NewBrandController(client, dbName),
		Cart:       controllers.NewCartController(cartStore, productRepo),
		Wishlist:   controllers.NewWishlistController(wishlistStore),
		Orders:     controllers.NewOrderController(orderService, orderRepo, emailService),
		Admin:      controllers.NewAdminController(client, dbName, orderRepo),
		Upload:     uploadController,
	}, uploadDir)

	corsOrigin := os.Getenv("CORS_ORIGIN")
	if corsOrigin == "" {
		corsOrigin = "*"
	}
	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{corsOrigin}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Origin", "Content-Type", "Authorization"}),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      cors(router),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Info().Str("port", port).Msg("server is running")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("server stopped")
}
