// README: Supplier matching endpoint for hospitals.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"medmatch/internal/http/middleware"
	"medmatch/internal/modules/matching"
)

const HeaderIdempotencyKey = "Idempotency-Key"

type MatchFinder interface {
	FindSupplier(ctx context.Context, req matching.Request) (*matching.Result, error)
}

type MatchHandler struct {
	matching MatchFinder
}

func NewMatchHandler(svc MatchFinder) *MatchHandler {
	return &MatchHandler{matching: svc}
}

type findSupplierReq struct {
	EquipmentName string `json:"equipmentName"`
	Quantity      int    `json:"quantity"`
	Urgency       string `json:"urgency"`
}

type findSupplierResp struct {
	Success bool `json:"success"`
	*matching.Result
}

func (h *MatchHandler) FindSupplier(c *gin.Context) {
	var req findSupplierReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	res, err := h.matching.FindSupplier(c.Request.Context(), matching.Request{
		HospitalID:     middleware.CallerUID(c),
		EquipmentName:  req.EquipmentName,
		Quantity:       req.Quantity,
		Urgency:        req.Urgency,
		IdempotencyKey: c.GetHeader(HeaderIdempotencyKey),
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, findSupplierResp{Success: true, Result: res})
}
