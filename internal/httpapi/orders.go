package httpapi

import (
	"net/http"
	"strconv"

	"orderdesk/internal/invoice"
	"orderdesk/internal/utils"

	"github.com/gin-gonic/gin"
)

const (
	defaultPerPage = 20
	maxPerPage     = 100
)

func queryInt(c *gin.Context, key string, fallback int) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

func (h *Handler) listOrders(c *gin.Context) {
	page := queryInt(c, "page", 1)
	perPage := min(queryInt(c, "perPage", defaultPerPage), maxPerPage)

	orders, err := h.api.Orders(c.Request.Context(), page, perPage)
	if err != nil {
		respondError(c, remote("orders", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":    orders,
		"page":    page,
		"perPage": perPage,
	})
}

func (h *Handler) getOrder(c *gin.Context) {
	id, err := utils.ParseID(c.Param("id"))
	if err != nil {
		respondError(c, errInvalidID)
		return
	}

	o, err := h.api.Order(c.Request.Context(), id)
	if err != nil {
		respondError(c, remote("order", err))
		return
	}
	c.JSON(http.StatusOK, o)
}

type invoiceResponse struct {
	Invoice *invoice.Invoice `json:"invoice"`
	Body    string           `json:"body"`
}

func (h *Handler) sendInvoice(c *gin.Context) {
	id, err := utils.ParseID(c.Param("id"))
	if err != nil {
		respondError(c, errInvalidID)
		return
	}
	var req invoiceRequest
	if !bind(c, &req) {
		return
	}
	ch, err := invoice.ParseChannel(req.Channel)
	if err != nil {
		respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	o, err := h.api.Order(ctx, id)
	if err != nil {
		respondError(c, remote("order", err))
		return
	}

	inv, err := invoice.Build(ch, o, h.now())
	if err != nil {
		respondError(c, err)
		return
	}

	msg, err := h.invoices.Dispatch(ctx, inv)
	if err != nil {
		respondError(c, remote("sendInvoice", err))
		return
	}

	h.stats.InvoicesSent.Inc()
	c.JSON(http.StatusAccepted, invoiceResponse{Invoice: inv, Body: msg.Body})
}
