package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/HamzaArc/atlas-flow-sub000/internal/cargo"
	"github.com/HamzaArc/atlas-flow-sub000/internal/quote"
	"github.com/HamzaArc/atlas-flow-sub000/internal/tariff"
)

type addOptionRequest struct {
	Label    string      `json:"label"`
	Mode     cargo.Mode  `json:"mode"`
	Route    quote.Route `json:"route"`
	Incoterm string      `json:"incoterm"`
}

func (s *Server) handleAddOption(w http.ResponseWriter, r *http.Request) {
	var req addOptionRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if !req.Mode.Valid() {
		respondError(w, http.StatusBadRequest, "mode must be AIR, SEA or ROAD")
		return
	}

	s.mutate(w, r, func(q *quote.Quotation) ([]quote.Effect, error) {
		_, effects, err := q.AddOption(req.Label, req.Mode, req.Route, req.Incoterm)
		return effects, err
	})
}

func optionID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "optionID"))
}

func (s *Server) handleSetActiveOption(w http.ResponseWriter, r *http.Request) {
	optID, err := optionID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid option id")
		return
	}

	s.mutate(w, r, func(q *quote.Quotation) ([]quote.Effect, error) {
		return q.SetActiveOption(optID)
	})
}

func (s *Server) handleSetCargo(w http.ResponseWriter, r *http.Request) {
	optID, err := optionID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid option id")
		return
	}

	var profile cargo.Profile
	if err := decodeBody(r, &profile); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	s.mutate(w, r, func(q *quote.Quotation) ([]quote.Effect, error) {
		return q.SetCargo(optID, profile)
	})
}

type applyTariffRequest struct {
	// Either a specific tariff id, or match parameters to pick one.
	TariffID string            `json:"tariffId,omitempty"`
	Strategy tariff.Strategy   `json:"strategy,omitempty"`
	Policy   quote.ApplyPolicy `json:"policy,omitempty"`
}

// handleApplyTariff prices an option from the catalogue. With a tariffId
// the named rate sheet is applied directly; without one the catalogue is
// matched against the option's route, incoterm and mode, and a failed
// match comes back as a 422 carrying the staged diagnostic.
func (s *Server) handleApplyTariff(w http.ResponseWriter, r *http.Request) {
	optID, err := optionID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid option id")
		return
	}

	var req applyTariffRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	policy := req.Policy
	if policy == "" {
		policy = quote.ApplyFillGaps
	}

	var rate tariff.Rate
	if req.TariffID != "" {
		rate, err = s.store.GetTariff(r.Context(), req.TariffID)
		if err != nil {
			s.writeEngineError(w, err)
			return
		}
	} else {
		q, err := s.store.GetQuotation(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			s.writeEngineError(w, err)
			return
		}
		var opt *quote.Option
		for i := range q.Options {
			if q.Options[i].ID == optID {
				opt = &q.Options[i]
				break
			}
		}
		if opt == nil {
			s.writeEngineError(w, quote.ErrOptionNotFound)
			return
		}

		catalogue, err := s.store.ListTariffs(r.Context())
		if err != nil {
			s.writeEngineError(w, err)
			return
		}
		result := tariff.FindBestMatch(catalogue, tariff.Query{
			POL:      opt.Route.Origin,
			POD:      opt.Route.Destination,
			Mode:     opt.Mode,
			Incoterm: opt.Incoterm,
			Date:     s.now(),
			Strategy: req.Strategy,
		})
		if result.Rate == nil {
			respondJSON(w, http.StatusUnprocessableEntity, result)
			return
		}
		rate = *result.Rate
	}

	s.mutate(w, r, func(q *quote.Quotation) ([]quote.Effect, error) {
		return q.ApplyTariff(optID, rate, policy)
	})
}

type matchTariffRequest struct {
	tariff.Query
}

// handleMatchTariff runs catalogue matching without touching any
// quotation. The response always carries the stage reason, so the UI can
// explain a miss instead of showing a bare not-found.
func (s *Server) handleMatchTariff(w http.ResponseWriter, r *http.Request) {
	var req matchTariffRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.POL == "" || req.POD == "" {
		respondError(w, http.StatusBadRequest, "pol and pod are required")
		return
	}
	if req.Date.IsZero() {
		req.Date = s.now()
	}
	req.Incoterm = strings.ToUpper(req.Incoterm)

	catalogue, err := s.store.ListTariffs(r.Context())
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, tariff.FindBestMatch(catalogue, req.Query))
}
