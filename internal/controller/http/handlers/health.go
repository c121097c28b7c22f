package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const aliveText = "Cookie Gallery Backend API is alive and kicking! Ready for payment processing."

type HealthHandler struct {
	bootID string
}

// NewHealthHandler takes the per-process boot id clients use to detect restarts.
func NewHealthHandler(bootID string) HealthHandler {
	return HealthHandler{bootID: bootID}
}

func (h *HealthHandler) Root(c *gin.Context) {
	c.String(http.StatusOK, aliveText)
}

func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "boot_id": h.bootID})
}
