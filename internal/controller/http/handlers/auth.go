package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"cookiegallery/internal/domain/identity"
	"cookiegallery/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// RequireIdentity verifies the bearer ID token and stores the caller in the request context.
// A nil verifier means the identity provider is not configured.
func RequireIdentity(verifier identity.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if verifier == nil {
			metrics.ConfigurationErrorsTotal.WithLabelValues(c.FullPath()).Inc()
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"success": false, "message": "Authentication not configured on server."})
			return
		}

		parts := strings.Split(c.GetHeader("Authorization"), " ")
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized: missing or invalid Authorization header"})
			return
		}

		caller, err := verifier.Verify(c.Request.Context(), parts[1])
		if err != nil {
			if errors.Is(err, identity.ErrVerifierUnavailable) {
				slog.ErrorContext(c.Request.Context(), "Identity verifier unavailable", "error", err)
				c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"success": false, "message": "Authentication temporarily unavailable."})
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized: invalid ID token", "error": err.Error()})
			return
		}

		c.Request = c.Request.WithContext(identity.WithIdentity(c.Request.Context(), caller))
		c.Next()
	}
}

func callerFrom(c *gin.Context) identity.Identity {
	caller, _ := identity.FromContext(c.Request.Context())
	return caller
}
