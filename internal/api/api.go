// Package api exposes the rating and approval engine over a JSON HTTP
// surface. Handlers load the quotation aggregate, run one engine command,
// and carry out the effects the command returns: PERSIST saves the
// aggregate, LOG_ACTIVITY goes to the structured log.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/HamzaArc/atlas-flow-sub000/internal/quote"
	"github.com/HamzaArc/atlas-flow-sub000/internal/store"
)

// Server holds the HTTP dependencies.
type Server struct {
	store    *store.Store
	log      *zap.Logger
	approver quote.ApproverFunc
	now      func() time.Time

	baseCurrency string
}

// NewServer wires the API against a store. Approval rights default to the
// manager and admin roles.
func NewServer(st *store.Store, log *zap.Logger, baseCurrency string) *Server {
	return &Server{
		store:        st,
		log:          log,
		approver:     quote.RoleApprover("manager", "admin"),
		now:          func() time.Time { return time.Now().UTC() },
		baseCurrency: baseCurrency,
	}
}

// Router builds the chi route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Route("/quotations", func(r chi.Router) {
			r.Post("/", s.handleCreateQuotation)
			r.Get("/", s.handleListQuotations)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetQuotation)
				r.Put("/rates", s.handleSetRates)
				r.Get("/compare", s.handleCompareOptions)

				r.Post("/options", s.handleAddOption)
				r.Route("/options/{optionID}", func(r chi.Router) {
					r.Post("/activate", s.handleSetActiveOption)
					r.Put("/cargo", s.handleSetCargo)
					r.Post("/apply-tariff", s.handleApplyTariff)
					r.Post("/items", s.handleAddLineItem)
					r.Route("/items/{itemID}", func(r chi.Router) {
						r.Delete("/", s.handleRemoveLineItem)
						r.Put("/cost", s.handleEditItemCost)
						r.Put("/sell", s.handleEditItemSellTTC)
						r.Put("/markup", s.handleSetItemMarkup)
					})
				})

				r.Post("/submit", s.handleSubmit)
				r.Post("/send", s.handleSend)
				r.Post("/approve", s.handleApprove)
				r.Post("/reject-approval", s.handleRejectApproval)
				r.Post("/accept", s.handleMarkAccepted)
				r.Post("/client-reject", s.handleClientRejected)
				r.Post("/cancel", s.handleCancel)
				r.Post("/reopen", s.handleReopen)
				r.Post("/revisions", s.handleCreateRevision)
			})
		})

		r.Route("/tariffs", func(r chi.Router) {
			r.Post("/", s.handleCreateTariff)
			r.Get("/", s.handleListTariffs)
			r.Get("/{id}", s.handleGetTariff)
			r.Post("/match", s.handleMatchTariff)
		})

		r.Post("/tools/chargeable-weight", s.handleChargeableWeight)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// actorFrom resolves the acting user from headers. Real deployments sit
// behind a gateway that sets these after authentication.
func actorFrom(r *http.Request) quote.Actor {
	actor := quote.Actor{
		Name: r.Header.Get("X-Actor"),
		Role: r.Header.Get("X-Actor-Role"),
	}
	if actor.Name == "" {
		actor.Name = "anonymous"
	}
	return actor
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

type errorResponse struct {
	Error string `json:"error"`
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, errorResponse{Error: msg})
}

// writeEngineError maps engine sentinel errors onto HTTP statuses.
func (s *Server) writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, quote.ErrLocked),
		errors.Is(err, quote.ErrBlockedByExpiredRates),
		errors.Is(err, quote.ErrInvalidTransition):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, quote.ErrNotAllowed):
		respondError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, quote.ErrReasonRequired):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, quote.ErrOptionNotFound),
		errors.Is(err, quote.ErrItemNotFound),
		errors.Is(err, store.ErrQuotationNotFound),
		errors.Is(err, store.ErrTariffNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	default:
		s.log.Error("request failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

func decodeBody(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, 1<<20)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// mutate runs one engine command against the stored aggregate and carries
// out the returned effects.
func (s *Server) mutate(w http.ResponseWriter, r *http.Request, fn func(q *quote.Quotation) ([]quote.Effect, error)) {
	id := chi.URLParam(r, "id")

	q, err := s.store.GetQuotation(r.Context(), id)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}

	effects, err := fn(&q)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}

	if err := s.applyEffects(r, q, effects); err != nil {
		s.writeEngineError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, q)
}

func (s *Server) applyEffects(r *http.Request, q quote.Quotation, effects []quote.Effect) error {
	for _, e := range effects {
		switch e.Kind {
		case quote.EffectPersist:
			if err := s.store.SaveQuotation(r.Context(), q); err != nil {
				return err
			}
		case quote.EffectLogActivity:
			s.log.Info("quotation activity",
				zap.String("quotation", q.ID.String()),
				zap.String("reference", q.Reference),
				zap.String("message", e.Message),
			)
		}
	}
	return nil
}
