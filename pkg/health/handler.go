package health

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// LivenessHandler answers 200 while the process is serving.
func LivenessHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")
		c.JSON(http.StatusOK, gin.H{"status": StatusUp})
	}
}

// ReadinessHandler answers 503 when any registered dependency is down and logs the ones that are.
// Optional dependencies that were never wired are not registered, so they never fail readiness.
func ReadinessHandler(registry *Registry, timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		response := registry.CheckAll(ctx)

		status := http.StatusOK
		if response.Status == StatusDown {
			status = http.StatusServiceUnavailable
			for _, check := range response.Checks {
				if check.Status == StatusDown {
					slog.WarnContext(c.Request.Context(), "Readiness check failed",
						"dependency", check.Name, "message", check.Message)
				}
			}
		}
		c.Header("Cache-Control", "no-store")
		c.JSON(status, response)
	}
}
