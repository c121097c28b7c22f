package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"cookiegallery/internal/domain/customer"

	"github.com/gin-gonic/gin"
)

type CustomerHandler struct {
	service *customer.Service
}

// NewCustomerHandler accepts a nil service when persistence is not configured.
func NewCustomerHandler(s *customer.Service) CustomerHandler {
	return CustomerHandler{service: s}
}

type saveUserRequest struct {
	DisplayName string `json:"displayName"`
	PhoneNumber string `json:"phoneNumber"`
}

func (h *CustomerHandler) SaveUser(c *gin.Context) {
	if h.service == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "message": "Persistence not configured on server."})
		return
	}

	var req saveUserRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body."})
		return
	}

	_, err := h.service.Save(c.Request.Context(), callerFrom(c), customer.SaveRequest{
		DisplayName: req.DisplayName,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		if errors.Is(err, customer.ErrEmailRequired) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Authenticated email not available on token."})
			return
		}
		slog.ErrorContext(c.Request.Context(), "Failed to save user", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to save user."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "User saved."})
}
