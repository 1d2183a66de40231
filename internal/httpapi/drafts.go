package httpapi

import (
	"net/http"

	"orderdesk/internal/apperror"
	"orderdesk/internal/cart"
	"orderdesk/internal/draft"
	"orderdesk/internal/logger"
	"orderdesk/internal/order"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// loadDraft resolves :id and tags the request context with it.
func (h *Handler) loadDraft(c *gin.Context) (*draft.Draft, bool) {
	d, err := h.drafts.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	c.Request = c.Request.WithContext(logger.WithDraftID(c.Request.Context(), d.ID))
	return d, true
}

func bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		logger.FromCtx(c.Request.Context()).Debug("invalid body", zap.Error(err))
		respondError(c, errInvalidBody)
		return false
	}
	return true
}

func (h *Handler) createDraft(c *gin.Context) {
	ctx := c.Request.Context()

	taxIncluded := true
	settings, err := h.api.StoreSettings(ctx)
	if err != nil {
		logger.FromCtx(ctx).Warn("store settings unavailable, assuming tax included", zap.Error(err))
	} else {
		taxIncluded = settings.TaxIncludedInPrice
	}

	d := h.drafts.Create(taxIncluded)
	h.stats.DraftsCreated.Inc()
	c.JSON(http.StatusCreated, toDraftResponse(d))
}

func (h *Handler) getDraft(c *gin.Context) {
	d, ok := h.loadDraft(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, toDraftResponse(d))
}

func (h *Handler) discardDraft(c *gin.Context) {
	if !h.drafts.Discard(c.Param("id")) {
		respondError(c, draft.ErrDraftNotFound)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) searchProducts(c *gin.Context) {
	d, ok := h.loadDraft(c)
	if !ok {
		return
	}
	products, err := d.Search.SearchProducts(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondError(c, remote("searchProducts", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": products})
}

func (h *Handler) searchCustomers(c *gin.Context) {
	d, ok := h.loadDraft(c)
	if !ok {
		return
	}
	customers, err := d.Search.SearchCustomers(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondError(c, remote("searchCustomers", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": customers})
}

func (h *Handler) addItem(c *gin.Context) {
	d, ok := h.loadDraft(c)
	if !ok {
		return
	}
	var req addItemRequest
	if !bind(c, &req) {
		return
	}

	p, err := d.Search.Product(req.ProductID)
	if err != nil {
		respondError(c, err)
		return
	}
	if _, err := d.Store.AddCatalogItem(p); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toDraftResponse(d))
}

func (h *Handler) addCustomItem(c *gin.Context) {
	d, ok := h.loadDraft(c)
	if !ok {
		return
	}
	var req addCustomItemRequest
	if !bind(c, &req) {
		return
	}

	if req.Price == nil {
		respondError(c, errMissingPrice)
		return
	}

	_, err := d.Store.AddCustomItem(cart.CustomItemInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       *req.Price,
		Quantity:    req.Quantity,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toDraftResponse(d))
}

func (h *Handler) updateItem(c *gin.Context) {
	d, ok := h.loadDraft(c)
	if !ok {
		return
	}
	var req updateItemRequest
	if !bind(c, &req) {
		return
	}

	if err := d.Store.SetQuantity(c.Param("itemId"), req.Quantity); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toDraftResponse(d))
}

func (h *Handler) removeItem(c *gin.Context) {
	d, ok := h.loadDraft(c)
	if !ok {
		return
	}
	d.Store.RemoveLineItem(c.Param("itemId"))
	c.JSON(http.StatusOK, toDraftResponse(d))
}

func (h *Handler) addTag(c *gin.Context) {
	d, ok := h.loadDraft(c)
	if !ok {
		return
	}
	var req tagRequest
	if !bind(c, &req) {
		return
	}
	d.Store.AddTag(req.Tag)
	c.JSON(http.StatusOK, toDraftResponse(d))
}

func (h *Handler) removeTag(c *gin.Context) {
	d, ok := h.loadDraft(c)
	if !ok {
		return
	}
	d.Store.RemoveTag(c.Param("tag"))
	c.JSON(http.StatusOK, toDraftResponse(d))
}

func (h *Handler) setNotes(c *gin.Context) {
	d, ok := h.loadDraft(c)
	if !ok {
		return
	}
	var req notesRequest
	if !bind(c, &req) {
		return
	}
	d.Store.SetNotes(req.Notes)
	c.JSON(http.StatusOK, toDraftResponse(d))
}

func (h *Handler) selectCustomer(c *gin.Context) {
	d, ok := h.loadDraft(c)
	if !ok {
		return
	}
	var req selectCustomerRequest
	if !bind(c, &req) {
		return
	}

	customer, err := d.Search.Customer(req.CustomerID)
	if err != nil {
		respondError(c, err)
		return
	}
	d.Store.SetCustomer(customer)
	c.JSON(http.StatusOK, toDraftResponse(d))
}

func (h *Handler) clearCustomer(c *gin.Context) {
	d, ok := h.loadDraft(c)
	if !ok {
		return
	}
	d.Store.ClearCustomer()
	c.JSON(http.StatusOK, toDraftResponse(d))
}

func (h *Handler) createCustomer(c *gin.Context) {
	d, ok := h.loadDraft(c)
	if !ok {
		return
	}
	var req order.CustomerDraft
	if !bind(c, &req) {
		return
	}

	if _, err := d.Checkout.CreateCustomerAndAttach(c.Request.Context(), req); err != nil {
		respondError(c, err)
		return
	}
	h.stats.CustomersCreated.Inc()
	c.JSON(http.StatusCreated, toDraftResponse(d))
}

func (h *Handler) updatePricing(c *gin.Context) {
	d, ok := h.loadDraft(c)
	if !ok {
		return
	}
	var req pricingRequest
	if !bind(c, &req) {
		return
	}

	if err := d.SetPricing(req.apply(d.Pricing())); err != nil {
		respondError(c, err)
		return
	}
	if req.CollectPaymentLater != nil {
		d.Store.SetCollectPaymentLater(*req.CollectPaymentLater)
	}
	c.JSON(http.StatusOK, toDraftResponse(d))
}

func (h *Handler) submit(c *gin.Context) {
	res, err := h.drafts.Submit(c.Request.Context(), c.Param("id"))
	if err != nil {
		if apperror.IsSubmission(err) {
			h.stats.OrderFailures.Inc()
		}
		respondError(c, err)
		return
	}
	h.stats.OrdersSubmitted.Inc()
	c.JSON(http.StatusCreated, toSubmitResponse(res))
}
