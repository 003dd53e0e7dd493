package http

import (
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"

	"innsync-backend/internal/domain"
	"innsync-backend/internal/service"
)

// FolioHandler exposes the billing ledger: manual charges, payments, voids
// and invoice generation.
type FolioHandler struct {
	folios service.FolioService
}

func NewFolioHandler(folios service.FolioService) *FolioHandler {
	return &FolioHandler{folios: folios}
}

type folioResponse struct {
	Folio    *domain.Folio         `json:"folio"`
	Items    []domain.FolioItem    `json:"items"`
	Payments []domain.FolioPayment `json:"payments"`
}

type adjustmentRequest struct {
	Type        string `json:"type" validate:"required,oneof=ADJUSTMENT PENALTY SERVICE_FEE"`
	Description string `json:"description" validate:"required"`
	Quantity    int32  `json:"quantity"`
	UnitPrice   string `json:"unit_price" validate:"required"`
	Override    bool   `json:"override,omitempty"`
}

type paymentRequest struct {
	Amount    string `json:"amount" validate:"required"`
	Method    string `json:"method" validate:"required"`
	Reference string `json:"reference,omitempty"`
	Override  bool   `json:"override,omitempty"`
}

type voidRequest struct {
	Reason string `json:"reason" validate:"required"`
}

type invoiceRequest struct {
	// Close defaults to true; false produces an interim invoice and keeps the
	// folio open.
	Close *bool `json:"close,omitempty"`
}

func (h *FolioHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondBadRequest(w, "invalid folio id")
		return
	}

	folio, items, payments, err := h.folios.GetFolio(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, folioResponse{Folio: folio, Items: items, Payments: payments})
}

func (h *FolioHandler) AddAdjustment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondBadRequest(w, "invalid folio id")
		return
	}

	var req adjustmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	price, err := decimal.NewFromString(req.UnitPrice)
	if err != nil {
		respondBadRequest(w, "invalid unit_price")
		return
	}

	item, err := h.folios.AddAdjustment(r.Context(), id, service.AdjustmentRequest{
		Type:        domain.FolioItemType(req.Type),
		Description: req.Description,
		Quantity:    req.Quantity,
		UnitPrice:   price,
		Override:    req.Override,
	}, actorFrom(r))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, item)
}

func (h *FolioHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondBadRequest(w, "invalid folio id")
		return
	}

	var req paymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		respondBadRequest(w, "invalid amount")
		return
	}

	payment, err := h.folios.RecordPayment(r.Context(), id, service.PaymentRequest{
		Amount:    amount,
		Method:    req.Method,
		Reference: req.Reference,
		Override:  req.Override,
	}, actorFrom(r))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, payment)
}

func (h *FolioHandler) VoidPayment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondBadRequest(w, "invalid payment id")
		return
	}

	var req voidRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondBadRequest(w, err.Error())
		return
	}

	payment, err := h.folios.VoidPayment(r.Context(), id, req.Reason, actorFrom(r))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, payment)
}

func (h *FolioHandler) GenerateInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondBadRequest(w, "invalid folio id")
		return
	}

	closeFolio := true
	var req invoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err == nil && req.Close != nil {
		closeFolio = *req.Close
	}

	invoice, err := h.folios.GenerateInvoice(r.Context(), id, closeFolio, actorFrom(r))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, invoice)
}
