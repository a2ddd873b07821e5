package main

import (
	"context"
	"log"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/billeasy/backend/internal/client"
	"github.com/billeasy/backend/internal/config"
	"github.com/billeasy/backend/internal/db"
	"github.com/billeasy/backend/internal/handler"
	"github.com/billeasy/backend/internal/service"
)

// @title Bill Easy Book Review API
// @version 1.0
// @description Book catalog with per-user reviews and token-based authentication.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	cfg := config.Load()
	ctx := context.Background()

	pool, err := db.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		log.Fatalf("Failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	store := &db.Postgres{Pool: pool}
	if err := store.EnsureSchema(ctx); err != nil {
		log.Fatalf("Failed to ensure schema: %v", err)
	}

	authService, err := service.NewAuthService(store, cfg.Auth)
	if err != nil {
		log.Fatalf("Failed to init auth service: %v", err)
	}

	// Similar-books is optional: without an API key the catalog runs
	// without embeddings.
	var embeddingService *service.EmbeddingService
	if cfg.Embedding.APIKey != "" {
		embeddingClient, err := client.NewEmbeddingClient(ctx, cfg.Embedding)
		if err != nil {
			log.Fatalf("Failed to init embedding client: %v", err)
		}
		if err := store.EnsureEmbeddingSchema(ctx); err != nil {
			log.Fatalf("Failed to ensure embedding schema: %v", err)
		}
		embeddingService = service.NewEmbeddingService(store, embeddingClient)
	} else {
		log.Printf("AI_API_KEY not set, similar-books disabled")
	}

	bookService := service.NewBookService(store, store, embeddingService)
	reviewService := service.NewReviewService(store, store)

	router := gin.Default()
	router.Use(handler.RequestIDMiddleware())
	if cfg.Server.AllowedOrigins != "" {
		router.Use(handler.CORSMiddleware(strings.Split(cfg.Server.AllowedOrigins, ",")))
	}

	authHandler := handler.NewAuthHandler(authService)
	bookHandler := handler.NewBookHandler(bookService)
	reviewHandler := handler.NewReviewHandler(reviewService)
	authRequired := handler.AuthMiddleware(authService)

	router.GET("/", handler.Root)
	router.GET("/ping", handler.Ping)
	router.GET("/openapi.json", handler.OpenAPIDoc)

	auth := router.Group("/auth")
	{
		auth.POST("/signup", authHandler.Signup)
		auth.POST("/login", authHandler.Login)
		auth.POST("/logout", authHandler.Logout)
		auth.GET("/me", authRequired, authHandler.Me)
	}

	if cfg.OIDC.IssuerURL != "" {
		oidcService, err := service.NewOIDCService(ctx, cfg.OIDC, store, authService)
		if err != nil {
			log.Fatalf("Failed to init OIDC: %v", err)
		}
		oidcHandler := handler.NewOIDCHandler(oidcService, authService)
		auth.GET("/oidc/login", oidcHandler.Login)
		auth.GET("/oidc/callback", oidcHandler.Callback)
	}

	books := router.Group("/books")
	{
		books.POST("", authRequired, bookHandler.AddBook)
		books.GET("", bookHandler.GetBooks)
		books.GET("/:id", bookHandler.GetBookByID)
		books.GET("/:id/similar", bookHandler.GetSimilarBooks)
		books.POST("/:id/reviews", authRequired, reviewHandler.AddReview)
	}

	reviews := router.Group("/reviews", authRequired)
	{
		reviews.PUT("/:id", reviewHandler.UpdateReview)
		reviews.DELETE("/:id", reviewHandler.DeleteReview)
	}

	log.Printf("Bill Easy API listening on :%s", cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
