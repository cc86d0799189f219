package tokenizer

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	log *slog.Logger
	tok *Tokenizer
}

func NewHandler(log *slog.Logger, tok *Tokenizer) *Handler {
	return &Handler{log: log, tok: tok}
}

type tokenizeReq struct {
	PayerID string `json:"payerId"`
}

type tokenizeResp struct {
	PanToken string `json:"panToken"`
	IBAN     string `json:"iban"`
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Post("/tokenize", h.tokenize)
	r.Get("/health", h.health)

	return r
}

func (h *Handler) tokenize(w http.ResponseWriter, r *http.Request) {
	var req tokenizeReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	res := h.tok.Tokenize(req.PayerID)
	h.log.Info("tokenized", "payer_id", req.PayerID)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(tokenizeResp{PanToken: res.PanToken, IBAN: res.IBAN})
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
