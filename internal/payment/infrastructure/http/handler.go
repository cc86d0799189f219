package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"payment-orchestrator/internal/payment/application"
	"payment-orchestrator/internal/payment/domain"
)

type Handler struct {
	log     *slog.Logger
	service *application.Service
	tracer  trace.Tracer
}

func NewHandler(log *slog.Logger, service *application.Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
		tracer:  otel.Tracer("payments-http"),
	}
}

// Amount is decoded as json.Number to keep the exact text the caller
// submitted; that text is the risk oracle's hash material.
type createPaymentReq struct {
	PayerID  string      `json:"payerId"`
	PayeeID  string      `json:"payeeId"`
	Amount   json.Number `json:"amount"`
	Currency string      `json:"currency"`
}

type paymentResp struct {
	TxnID     string  `json:"txnId"`
	Status    string  `json:"status"`
	RiskScore int     `json:"riskScore"`
	PanToken  *string `json:"panToken,omitempty"`
	IBAN      *string `json:"iban,omitempty"`
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Post("/payments", h.createPayment)
	r.Get("/payments/health", h.health)
	r.Get("/payments/{txnId}", h.getPayment)

	return r
}

func (h *Handler) createPayment(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "CreatePayment")
	defer span.End()

	var req createPaymentReq
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	domReq, err := domain.NewPaymentRequest(req.PayerID, req.PayeeID, req.Amount.String(), req.Currency)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	resp, err := h.service.CreatePayment(ctx, domReq)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, toResp(resp))
}

func (h *Handler) getPayment(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "GetPayment")
	defer span.End()

	resp, err := h.service.GetPayment(ctx, chi.URLParam(r, "txnId"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, toResp(resp))
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		http.Error(w, "payment not found", http.StatusNotFound)
	case errors.Is(err, application.ErrUpstreamUnavailable):
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
	default:
		h.log.Error("request failed", "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toResp(r application.PaymentResponse) paymentResp {
	return paymentResp{
		TxnID:     r.TxnID,
		Status:    string(r.Status),
		RiskScore: r.RiskScore,
		PanToken:  r.PanToken,
		IBAN:      r.IBAN,
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
