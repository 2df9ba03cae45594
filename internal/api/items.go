package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/HamzaArc/atlas-flow-sub000/internal/pricing"
	"github.com/HamzaArc/atlas-flow-sub000/internal/quote"
)

func itemID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "itemID"))
}

func (s *Server) handleAddLineItem(w http.ResponseWriter, r *http.Request) {
	optID, err := optionID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid option id")
		return
	}

	var li pricing.LineItem
	if err := decodeBody(r, &li); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if li.Description == "" {
		respondError(w, http.StatusBadRequest, "description is required")
		return
	}
	if li.BuyCurrency == "" {
		respondError(w, http.StatusBadRequest, "buyCurrency is required")
		return
	}

	s.mutate(w, r, func(q *quote.Quotation) ([]quote.Effect, error) {
		_, effects, err := q.AddLineItem(optID, li)
		return effects, err
	})
}

func (s *Server) handleRemoveLineItem(w http.ResponseWriter, r *http.Request) {
	optID, err := optionID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid option id")
		return
	}
	itID, err := itemID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	s.mutate(w, r, func(q *quote.Quotation) ([]quote.Effect, error) {
		return q.RemoveLineItem(optID, itID)
	})
}

type editAmountRequest struct {
	Amount float64 `json:"amount"`
}

// handleEditItemCost updates a line's buy amount while holding its sell
// price, re-solving the markup.
func (s *Server) handleEditItemCost(w http.ResponseWriter, r *http.Request) {
	optID, err := optionID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid option id")
		return
	}
	itID, err := itemID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	var req editAmountRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Amount < 0 {
		respondError(w, http.StatusBadRequest, "amount must not be negative")
		return
	}

	s.mutate(w, r, func(q *quote.Quotation) ([]quote.Effect, error) {
		return q.EditItemCost(optID, itID, req.Amount)
	})
}

// handleEditItemSellTTC updates the tax-inclusive sell price while
// holding the markup, re-solving the buy amount.
func (s *Server) handleEditItemSellTTC(w http.ResponseWriter, r *http.Request) {
	optID, err := optionID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid option id")
		return
	}
	itID, err := itemID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	var req editAmountRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Amount < 0 {
		respondError(w, http.StatusBadRequest, "amount must not be negative")
		return
	}

	s.mutate(w, r, func(q *quote.Quotation) ([]quote.Effect, error) {
		return q.EditItemSellTTC(optID, itID, req.Amount)
	})
}

func (s *Server) handleSetItemMarkup(w http.ResponseWriter, r *http.Request) {
	optID, err := optionID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid option id")
		return
	}
	itID, err := itemID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	var m pricing.Markup
	if err := decodeBody(r, &m); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if m.Type != pricing.MarkupPercent && m.Type != pricing.MarkupFixedAmount {
		respondError(w, http.StatusBadRequest, "markup type must be PERCENT or FIXED_AMOUNT")
		return
	}

	s.mutate(w, r, func(q *quote.Quotation) ([]quote.Effect, error) {
		return q.SetItemMarkup(optID, itID, m)
	})
}
