package httpapi

import (
	"context"
	"net/http"
	"time"

	"orderdesk/internal/dataapi"
	"orderdesk/internal/draft"
	"orderdesk/internal/invoice"
	"orderdesk/internal/metrics"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// DataAPI is the read side of the remote data API used directly by handlers.
type DataAPI interface {
	StoreSettings(ctx context.Context) (*dataapi.StoreSettings, error)
	Orders(ctx context.Context, page, perPage int) ([]dataapi.OrderSummary, error)
	Order(ctx context.Context, id int) (*dataapi.Order, error)
}

type Handler struct {
	drafts   *draft.Registry
	api      DataAPI
	invoices *invoice.Dispatcher
	stats    *metrics.Desk
	now      func() time.Time
}

func NewHandler(drafts *draft.Registry, api DataAPI, invoices *invoice.Dispatcher, stats *metrics.Desk) *Handler {
	return &Handler{
		drafts:   drafts,
		api:      api,
		invoices: invoices,
		stats:    stats,
		now:      time.Now,
	}
}

// NewRouter wires every route under /api.
func NewRouter(h *Handler, corsOrigins []string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID", "X-Device-ID"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := router.Group("/api")
	api.GET("/health", healthHandler)
	api.GET("/metrics", h.metricsSnapshot)

	drafts := api.Group("/drafts")
	{
		drafts.POST("", h.createDraft)
		drafts.GET("/:id", h.getDraft)
		drafts.DELETE("/:id", h.discardDraft)

		drafts.GET("/:id/products", h.searchProducts)
		drafts.GET("/:id/customers", h.searchCustomers)

		drafts.POST("/:id/items", h.addItem)
		drafts.POST("/:id/custom-items", h.addCustomItem)
		drafts.PATCH("/:id/items/:itemId", h.updateItem)
		drafts.DELETE("/:id/items/:itemId", h.removeItem)

		drafts.POST("/:id/tags", h.addTag)
		drafts.DELETE("/:id/tags/:tag", h.removeTag)
		drafts.PUT("/:id/notes", h.setNotes)

		drafts.PUT("/:id/customer", h.selectCustomer)
		drafts.DELETE("/:id/customer", h.clearCustomer)
		drafts.POST("/:id/customers", h.createCustomer)

		drafts.PUT("/:id/pricing", h.updatePricing)
		drafts.POST("/:id/submit", h.submit)
	}

	orders := api.Group("/orders")
	{
		orders.GET("", h.listOrders)
		orders.GET("/:id", h.getOrder)
		orders.POST("/:id/invoices", h.sendInvoice)
	}

	return router
}

func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) metricsSnapshot(c *gin.Context) {
	c.JSON(http.StatusOK, h.stats.Snapshot())
}
