package app

import (
	"net/http"

	"cookiegallery/config"
	"cookiegallery/pkg/logger"
	"cookiegallery/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
)

var defaultOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173"}

func NewGinEngine() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(logger.CorrelationMiddleware(), metrics.GinMiddleware(), logger.RequestLogger(), gin.Recovery())
	return engine
}

// WithCORS allows the storefront dev origins plus CORS_ORIGIN, with credentials.
func WithCORS(cfg config.Config, handler http.Handler) http.Handler {
	origins := append([]string{}, defaultOrigins...)
	if cfg.CORSOrigin != "" {
		origins = append(origins, cfg.CORSOrigin)
	}

	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(handler)
}
