package http

import (
	"time"

	"cookiegallery/internal/controller/http/handlers"
	"cookiegallery/internal/domain/identity"
	"cookiegallery/pkg/health"
	"cookiegallery/pkg/metrics"

	"github.com/gin-gonic/gin"
)

const readinessTimeout = 3 * time.Second

type Router struct {
	checkout handlers.CheckoutHandler
	webhook  handlers.WebhookHandler
	order    handlers.OrderHandler
	customer handlers.CustomerHandler
	health   handlers.HealthHandler

	verifier  identity.Verifier
	readiness *health.Registry
}

func (r *Router) SetUp(engine *gin.Engine) {
	engine.GET("/", r.health.Root)
	engine.GET("/health", r.health.Health)
	engine.GET("/health/live", health.LivenessHandler())
	engine.GET("/health/ready", health.ReadinessHandler(r.readiness, readinessTimeout))
	engine.GET("/metrics", gin.WrapH(metrics.Handler()))

	engine.POST("/create-order", r.checkout.CreateOrder)
	engine.POST("/verify-signature", r.checkout.VerifySignature)
	engine.POST("/api/razorpay-webhook", r.webhook.Razorpay)

	authed := engine.Group("", handlers.RequireIdentity(r.verifier))
	authed.POST("/save-order-data", r.order.SaveOrderData)
	authed.POST("/save-user", r.customer.SaveUser)
	authed.GET("/orders", r.order.Filter)
	authed.GET("/orders/:order_id", r.order.Get)
}

type RouterDeps struct {
	Checkout  handlers.CheckoutHandler
	Webhook   handlers.WebhookHandler
	Order     handlers.OrderHandler
	Customer  handlers.CustomerHandler
	Health    handlers.HealthHandler
	Verifier  identity.Verifier
	Readiness *health.Registry
}

func NewRouter(deps RouterDeps) *Router {
	return &Router{
		checkout:  deps.Checkout,
		webhook:   deps.Webhook,
		order:     deps.Order,
		customer:  deps.Customer,
		health:    deps.Health,
		verifier:  deps.Verifier,
		readiness: deps.Readiness,
	}
}
