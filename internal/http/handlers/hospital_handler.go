// README: Hospital ledger and supplier directory handlers.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"medmatch/internal/http/middleware"
	"medmatch/internal/modules/hospital"
	"medmatch/internal/modules/supplier"
	"medmatch/internal/types"
)

type RequestLedger interface {
	Requests(ctx context.Context, hospitalID types.ID) ([]hospital.RequestSummary, error)
	EditRequest(ctx context.Context, hospitalID, requestID types.ID, e hospital.RequestEdit) error
	DeleteRequest(ctx context.Context, hospitalID, requestID types.ID) error
}

type SupplierDirectory interface {
	Directory(ctx context.Context) ([]supplier.Supplier, error)
}

type HospitalHandler struct {
	ledger    RequestLedger
	suppliers SupplierDirectory
}

func NewHospitalHandler(ledger RequestLedger, suppliers SupplierDirectory) *HospitalHandler {
	return &HospitalHandler{ledger: ledger, suppliers: suppliers}
}

type editRequestReq struct {
	EquipmentName string `json:"equipmentName"`
	Quantity      int    `json:"quantity"`
	Urgency       string `json:"urgency"`
}

func (h *HospitalHandler) Requests(c *gin.Context) {
	reqs, err := h.ledger.Requests(c.Request.Context(), middleware.CallerUID(c))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"success": true, "requests": reqs})
}

func (h *HospitalHandler) EditRequest(c *gin.Context) {
	var req editRequestReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	urgency, ok := types.ParseUrgency(req.Urgency)
	if !ok {
		writeError(c, http.StatusBadRequest, "urgency must be normal, urgent or critical")
		return
	}
	err := h.ledger.EditRequest(c.Request.Context(), middleware.CallerUID(c), types.ID(c.Param("requestId")), hospital.RequestEdit{
		EquipmentName: req.EquipmentName,
		Quantity:      req.Quantity,
		Urgency:       urgency,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"success": true})
}

func (h *HospitalHandler) DeleteRequest(c *gin.Context) {
	err := h.ledger.DeleteRequest(c.Request.Context(), middleware.CallerUID(c), types.ID(c.Param("requestId")))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"success": true})
}

func (h *HospitalHandler) ViewSuppliers(c *gin.Context) {
	all, err := h.suppliers.Directory(c.Request.Context())
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"success": true, "suppliers": all})
}
