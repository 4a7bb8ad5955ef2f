// README: Order handlers; supplier response, party view, supplier inbox and backlog.
package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"medmatch/internal/http/middleware"
	"medmatch/internal/modules/order"
	"medmatch/internal/types"
)

type OrderService interface {
	GetForParty(ctx context.Context, id, callerID types.ID) (*order.Order, error)
	Respond(ctx context.Context, cmd order.RespondCommand) (order.Status, error)
	ListBySupplier(ctx context.Context, supplierID types.ID) ([]*order.Order, error)
	Backlog(ctx context.Context, supplierID types.ID) (order.Backlog, error)
}

type OrderHandler struct {
	order OrderService
}

func NewOrderHandler(svc OrderService) *OrderHandler {
	return &OrderHandler{order: svc}
}

type respondReq struct {
	Decision string `json:"decision"`
}

// Respond records the calling supplier's decision. The supplier id comes from
// the token, never from the body.
func (h *OrderHandler) Respond(c *gin.Context) {
	var req respondReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	status, err := h.order.Respond(c.Request.Context(), order.RespondCommand{
		OrderID:    types.ID(c.Param("id")),
		SupplierID: middleware.CallerUID(c),
		Decision:   order.Status(strings.ToUpper(strings.TrimSpace(req.Decision))),
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"success": true, "status": status})
}

func (h *OrderHandler) Get(c *gin.Context) {
	o, err := h.order.GetForParty(c.Request.Context(), types.ID(c.Param("id")), middleware.CallerUID(c))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"success": true, "order": o})
}

func (h *OrderHandler) SupplierOrders(c *gin.Context) {
	orders, err := h.order.ListBySupplier(c.Request.Context(), middleware.CallerUID(c))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"success": true, "orders": orders})
}

func (h *OrderHandler) Backlog(c *gin.Context) {
	b, err := h.order.Backlog(c.Request.Context(), middleware.CallerUID(c))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, b)
}
