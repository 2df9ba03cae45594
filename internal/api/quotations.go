package api

import (
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/HamzaArc/atlas-flow-sub000/internal/currency"
	"github.com/HamzaArc/atlas-flow-sub000/internal/pricing"
	"github.com/HamzaArc/atlas-flow-sub000/internal/quote"

	"github.com/go-chi/chi/v5"
)

type createQuotationRequest struct {
	Reference        string          `json:"reference"`
	ClientName       string          `json:"clientName"`
	Currency         string          `json:"currency,omitempty"`
	RequiresApproval bool            `json:"requiresApproval,omitempty"`
	PaymentTerms     string          `json:"paymentTerms,omitempty"`
	ValidityDate     *time.Time      `json:"validityDate,omitempty"`
	DefaultMarkup    *pricing.Markup `json:"defaultMarkup,omitempty"`
}

func (s *Server) handleCreateQuotation(w http.ResponseWriter, r *http.Request) {
	var req createQuotationRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	req.Reference = strings.TrimSpace(req.Reference)
	req.ClientName = strings.TrimSpace(req.ClientName)
	if req.Reference == "" {
		respondError(w, http.StatusBadRequest, "reference is required")
		return
	}
	if req.ClientName == "" {
		respondError(w, http.StatusBadRequest, "clientName is required")
		return
	}

	target := req.Currency
	if target == "" {
		target = s.baseCurrency
	}

	baseline, err := s.store.BaselineRates(r.Context())
	if err != nil {
		s.writeEngineError(w, err)
		return
	}

	q := quote.New(req.Reference, req.ClientName, target, baseline, req.RequiresApproval)
	q.PaymentTerms = req.PaymentTerms
	q.ValidityDate = req.ValidityDate
	if req.DefaultMarkup != nil {
		q.DefaultMarkup = *req.DefaultMarkup
	}

	if err := s.store.SaveQuotation(r.Context(), q); err != nil {
		s.writeEngineError(w, err)
		return
	}

	s.log.Info("quotation created",
		zap.String("quotation", q.ID.String()),
		zap.String("reference", q.Reference),
		zap.String("client", q.ClientName),
	)
	respondJSON(w, http.StatusCreated, q)
}

func (s *Server) handleListQuotations(w http.ResponseWriter, r *http.Request) {
	search := strings.TrimSpace(r.URL.Query().Get("q"))
	summaries, err := s.store.ListQuotations(r.Context(), search)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, summaries)
}

func (s *Server) handleGetQuotation(w http.ResponseWriter, r *http.Request) {
	q, err := s.store.GetQuotation(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, q)
}

type setRatesRequest struct {
	Rates currency.Rates `json:"rates"`
}

func (s *Server) handleSetRates(w http.ResponseWriter, r *http.Request) {
	var req setRatesRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if len(req.Rates) == 0 {
		respondError(w, http.StatusBadRequest, "rates are required")
		return
	}

	s.mutate(w, r, func(q *quote.Quotation) ([]quote.Effect, error) {
		return q.SetExchangeRates(req.Rates)
	})
}

func (s *Server) handleCompareOptions(w http.ResponseWriter, r *http.Request) {
	q, err := s.store.GetQuotation(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeEngineError(w, err)
		return
	}

	by := quote.SortBy(strings.ToUpper(r.URL.Query().Get("by")))
	respondJSON(w, http.StatusOK, quote.Compare(q, by))
}
