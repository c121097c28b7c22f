package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"cookiegallery/internal/domain/money"
	"cookiegallery/internal/domain/order"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

const (
	defaultCurrency = "INR"
	defaultPageSize = 10
)

type OrderHandler struct {
	service *order.OrderService
}

// NewOrderHandler accepts a nil service when persistence is not configured.
func NewOrderHandler(s *order.OrderService) OrderHandler {
	return OrderHandler{service: s}
}

type saveOrderRequest struct {
	OrderID         string           `json:"orderId"`
	Items           json.RawMessage  `json:"items"`
	PaymentStatus   string           `json:"paymentStatus"`
	PaymentAmount   *decimal.Decimal `json:"paymentAmount"`
	PaymentCurrency string           `json:"paymentCurrency"`
}

// SaveOrderData stores the client's order snapshot. paymentStatus is kept as reported_status only.
func (h *OrderHandler) SaveOrderData(c *gin.Context) {
	if h.service == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "message": "Persistence not configured on server."})
		return
	}

	var req saveOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing required order data."})
		return
	}
	if req.OrderID == "" || req.PaymentStatus == "" || len(req.Items) == 0 || string(req.Items) == "null" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing required order data."})
		return
	}

	userID := callerFrom(c).Key()
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Authenticated email not available on token."})
		return
	}

	var amount *int64
	if req.PaymentAmount != nil {
		minor, err := money.ToMinor(*req.PaymentAmount)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid payment amount.", "error": err.Error()})
			return
		}
		amount = &minor
	}

	currency := strings.TrimSpace(req.PaymentCurrency)
	if currency == "" {
		currency = defaultCurrency
	}

	err := h.service.SaveDetails(c.Request.Context(), order.Details{
		OrderID:        req.OrderID,
		UserID:         userID,
		Items:          req.Items,
		ReportedStatus: req.PaymentStatus,
		Amount:         amount,
		Currency:       currency,
	})
	if err != nil {
		if errors.Is(err, order.ErrInvalidDetails) {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		if errors.Is(err, order.ErrNotOwner) {
			slog.WarnContext(c.Request.Context(), "Order details rejected for non-owner", "order_id", req.OrderID)
			c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Order belongs to another account."})
			return
		}
		slog.ErrorContext(c.Request.Context(), "Failed to save order data", "order_id", req.OrderID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to save order data."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Order data saved successfully."})
}

func (h *OrderHandler) Get(c *gin.Context) {
	if h.service == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": "Persistence not configured on server."})
		return
	}

	orderID := c.Param("order_id")
	if orderID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing order_id"})
		return
	}

	res, err := h.service.GetOrder(c.Request.Context(), orderID, callerFrom(c).Key())
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
			return
		}
		slog.ErrorContext(c.Request.Context(), "Failed to get order", "order_id", orderID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, res)
}

type FilterParams struct {
	Status     string `form:"status" url:"status,omitempty"`
	PageSize   int    `form:"page_size" url:"page_size,omitempty"`
	PageNumber int    `form:"page" url:"page,omitempty"`
}

// Filter lists the caller's own orders.
func (h *OrderHandler) Filter(c *gin.Context) {
	if h.service == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": "Persistence not configured on server."})
		return
	}

	query, err := h.createFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	res, err := h.service.GetOrders(c.Request.Context(), *query)
	if err != nil {
		if errors.Is(err, order.ErrInvalidQuery) {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		slog.ErrorContext(c.Request.Context(), "Failed to filter orders", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *OrderHandler) createFilter(c *gin.Context) (*order.OrdersQuery, error) {
	var params FilterParams
	if err := c.ShouldBindQuery(&params); err != nil {
		return nil, err
	}

	var statuses []order.PaymentStatus
	if params.Status != "" {
		for _, v := range strings.Split(params.Status, ",") {
			s, err := order.ParseStatus(strings.TrimSpace(v))
			if err != nil {
				return nil, err
			}
			statuses = append(statuses, s)
		}
	}

	if params.PageSize == 0 {
		params.PageSize = defaultPageSize
	}
	if params.PageNumber == 0 {
		params.PageNumber = 1
	}

	return order.NewOrdersQueryBuilder().
		WithUserIDs(callerFrom(c).Key()).
		WithStatuses(statuses...).
		WithPagination(order.Pagination{
			PageSize:   params.PageSize,
			PageNumber: params.PageNumber,
		}).Build()
}
