package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/HamzaArc/atlas-flow-sub000/internal/quote"
)

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r)
	s.mutate(w, r, func(q *quote.Quotation) ([]quote.Effect, error) {
		return q.SubmitForApproval(actor, s.now())
	})
}

func (s *Server) handleSend(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r)
	s.mutate(w, r, func(q *quote.Quotation) ([]quote.Effect, error) {
		return q.Send(actor, s.now())
	})
}

func (s *Server) handleApprove(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r)
	s.mutate(w, r, func(q *quote.Quotation) ([]quote.Effect, error) {
		return q.Approve(actor, s.approver, s.now())
	})
}

type reasonRequest struct {
	Reason string `json:"reason"`
}

func reasonFrom(r *http.Request) string {
	var req reasonRequest
	if err := decodeBody(r, &req); err != nil {
		return ""
	}
	return strings.TrimSpace(req.Reason)
}

func (s *Server) handleRejectApproval(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r)
	reason := reasonFrom(r)
	s.mutate(w, r, func(q *quote.Quotation) ([]quote.Effect, error) {
		return q.RejectApproval(actor, s.approver, reason)
	})
}

func (s *Server) handleMarkAccepted(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r)
	s.mutate(w, r, func(q *quote.Quotation) ([]quote.Effect, error) {
		return q.MarkAccepted(actor, s.now())
	})
}

func (s *Server) handleClientRejected(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r)
	reason := reasonFrom(r)
	s.mutate(w, r, func(q *quote.Quotation) ([]quote.Effect, error) {
		return q.ClientRejected(actor, reason)
	})
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r)
	reason := reasonFrom(r)
	s.mutate(w, r, func(q *quote.Quotation) ([]quote.Effect, error) {
		return q.Cancel(actor, reason)
	})
}

func (s *Server) handleReopen(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r)
	s.mutate(w, r, func(q *quote.Quotation) ([]quote.Effect, error) {
		return q.Reopen(actor)
	})
}

// handleCreateRevision clones a closed quotation into the next editable
// version. The original stays exactly as it was.
func (s *Server) handleCreateRevision(w http.ResponseWriter, r *http.Request) {
	q, err := s.store.GetQuotation(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeEngineError(w, err)
		return
	}

	revision, effects, err := q.CreateRevision(s.now())
	if err != nil {
		s.writeEngineError(w, err)
		return
	}

	if err := s.applyEffects(r, revision, effects); err != nil {
		s.writeEngineError(w, err)
		return
	}

	s.log.Info("revision created",
		zap.String("source", q.ID.String()),
		zap.String("revision", revision.ID.String()),
		zap.Int("version", revision.Version),
	)
	respondJSON(w, http.StatusCreated, revision)
}
