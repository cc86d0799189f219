package risk

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	log    *slog.Logger
	oracle *Oracle
}

func NewHandler(log *slog.Logger, oracle *Oracle) *Handler {
	return &Handler{log: log, oracle: oracle}
}

type assessResp struct {
	PayerID   string `json:"payerId"`
	Amount    string `json:"amount"`
	Currency  string `json:"currency"`
	RiskScore int    `json:"riskScore"`
	Decision  string `json:"decision"`
	TxnID     string `json:"txnId"`
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/risk", h.assess)
	r.Get("/health", h.health)

	return r
}

func (h *Handler) assess(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	a := h.oracle.Assess(q.Get("payerId"), q.Get("amount"), q.Get("currency"))

	h.log.Info("risk assessed", "payer_id", a.PayerID, "score", a.RiskScore, "decision", a.Decision, "txn_id", a.TxnID)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(assessResp{
		PayerID:   a.PayerID,
		Amount:    a.Amount,
		Currency:  a.Currency,
		RiskScore: a.RiskScore,
		Decision:  string(a.Decision),
		TxnID:     a.TxnID,
	})
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
