package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/foodgram/backend/config"
	"github.com/foodgram/backend/internal/api"
	"github.com/foodgram/backend/internal/middleware"
	"github.com/foodgram/backend/internal/router"
	"github.com/foodgram/backend/internal/service"
)

// Server wires the services and handlers together and owns the HTTP
// listener. The redis client and S3 config may be nil: the server then
// runs without rate limiting or image uploads.
type Server struct {
	router *gin.Engine
	http   *http.Server
	db     *gorm.DB
}

// New creates a new server instance
func New(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, s3cfg *config.S3Config) *Server {
	authService := service.NewAuthService(db, cfg.JWTSecret)
	userService := service.NewUserService(db)
	socialService := service.NewSocialService(db)
	catalogService := service.NewCatalogService(db)
	recipeService := service.NewRecipeService(db)
	cartService := service.NewCartService(db)

	var imageService *service.ImageService
	if s3cfg != nil {
		imageService = service.NewImageService(s3cfg)
	}

	var rateLimiter *middleware.RateLimiter
	if redisClient != nil {
		rateLimiter = middleware.NewRecipeCreationRateLimiter(redisClient)
	}

	authHandler := api.NewAuthHandler(authService)
	userHandler := api.NewUserHandler(userService, socialService, authService, cfg.PageSize)
	catalogHandler := api.NewCatalogHandler(catalogService)
	recipeHandler := api.NewRecipeHandler(
		recipeService, socialService, cartService, imageService,
		authService, rateLimiter, cfg.PageSize, cfg.PDFFontPath,
	)

	r := router.SetupRouter(authHandler, userHandler, catalogHandler, recipeHandler)

	return &Server{
		router: r,
		db:     db,
		http: &http.Server{
			Addr:    cfg.ServerHost + ":" + cfg.ServerPort,
			Handler: r,
		},
	}
}

// Start starts the server and blocks until it stops.
func (s *Server) Start() error {
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
