package quote

import "time"

// Status is the approval lifecycle state of a quotation.
type Status string

const (
	StatusDraft      Status = "DRAFT"
	StatusValidation Status = "VALIDATION"
	StatusSent       Status = "SENT"
	StatusAccepted   Status = "ACCEPTED"
	StatusRejected   Status = "REJECTED"
	StatusCancelled  Status = "CANCELLED"
)

// Terminal reports whether the status ends normal editing. Terminal
// quotations are only touched again through reopen or a new revision.
func (s Status) Terminal() bool {
	switch s {
	case StatusAccepted, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

// Actor identifies who is driving a transition. Identity and role
// resolution live outside the engine; the engine only consults the
// ApproverFunc hook.
type Actor struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

// ApproverFunc answers "may this actor approve or reject a validation".
type ApproverFunc func(Actor) bool

// RoleApprover builds an ApproverFunc allowing the given roles.
func RoleApprover(roles ...string) ApproverFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(a Actor) bool {
		_, ok := allowed[a.Role]
		return ok
	}
}

// SubmitForApproval moves DRAFT to VALIDATION. Only meaningful when the
// quotation is flagged as requiring manager approval; otherwise Send is
// the right transition.
func (q *Quotation) SubmitForApproval(actor Actor, now time.Time) ([]Effect, error) {
	if q.Approval.Status != StatusDraft || !q.Approval.RequiresApproval {
		return nil, ErrInvalidTransition
	}
	if q.blockedByExpiredRates(now) {
		return nil, ErrBlockedByExpiredRates
	}
	q.Approval.Status = StatusValidation
	q.Approval.RequestedBy = actor.Name
	return []Effect{persist(), logActivity("submitted for approval by %s", actor.Name)}, nil
}

// Send moves DRAFT straight to SENT for quotations that do not require
// approval.
func (q *Quotation) Send(actor Actor, now time.Time) ([]Effect, error) {
	if q.Approval.Status != StatusDraft || q.Approval.RequiresApproval {
		return nil, ErrInvalidTransition
	}
	if q.blockedByExpiredRates(now) {
		return nil, ErrBlockedByExpiredRates
	}
	q.Approval.Status = StatusSent
	return []Effect{persist(), logActivity("sent to client by %s", actor.Name)}, nil
}

// Approve moves VALIDATION to SENT, gated on the approver hook.
func (q *Quotation) Approve(actor Actor, can ApproverFunc, now time.Time) ([]Effect, error) {
	if q.Approval.Status != StatusValidation {
		return nil, ErrInvalidTransition
	}
	if can != nil && !can(actor) {
		return nil, ErrNotAllowed
	}
	if q.blockedByExpiredRates(now) {
		return nil, ErrBlockedByExpiredRates
	}
	q.Approval.Status = StatusSent
	return []Effect{persist(), logActivity("approved by %s", actor.Name)}, nil
}

// RejectApproval returns a VALIDATION quotation to its submitter as
// DRAFT. The reason is mandatory and recorded.
func (q *Quotation) RejectApproval(actor Actor, can ApproverFunc, reason string) ([]Effect, error) {
	if q.Approval.Status != StatusValidation {
		return nil, ErrInvalidTransition
	}
	if can != nil && !can(actor) {
		return nil, ErrNotAllowed
	}
	if reason == "" {
		return nil, ErrReasonRequired
	}
	q.Approval.Status = StatusDraft
	q.Approval.RejectionReason = reason
	return []Effect{persist(), logActivity("approval rejected by %s: %s", actor.Name, reason)}, nil
}

// MarkAccepted records the client accepting a SENT quotation. Terminal.
func (q *Quotation) MarkAccepted(actor Actor, now time.Time) ([]Effect, error) {
	if q.Approval.Status != StatusSent {
		return nil, ErrInvalidTransition
	}
	if q.blockedByExpiredRates(now) {
		return nil, ErrBlockedByExpiredRates
	}
	q.Approval.Status = StatusAccepted
	return []Effect{persist(), logActivity("marked accepted by %s", actor.Name)}, nil
}

// ClientRejected records the client declining a SENT quotation. Terminal;
// the reason is mandatory.
func (q *Quotation) ClientRejected(actor Actor, reason string) ([]Effect, error) {
	if q.Approval.Status != StatusSent {
		return nil, ErrInvalidTransition
	}
	if reason == "" {
		return nil, ErrReasonRequired
	}
	q.Approval.Status = StatusRejected
	q.Approval.RejectionReason = reason
	return []Effect{persist(), logActivity("rejected by client: %s", reason)}, nil
}

// Cancel abandons a DRAFT or SENT quotation. Terminal; the reason is
// mandatory. Cancellation stays available even while the expired-rate
// guard blocks every forward transition.
func (q *Quotation) Cancel(actor Actor, reason string) ([]Effect, error) {
	if q.Approval.Status != StatusDraft && q.Approval.Status != StatusSent {
		return nil, ErrInvalidTransition
	}
	if reason == "" {
		return nil, ErrReasonRequired
	}
	q.Approval.Status = StatusCancelled
	q.Approval.RejectionReason = reason
	return []Effect{persist(), logActivity("cancelled by %s: %s", actor.Name, reason)}, nil
}

// Reopen is the explicit unlock of an ACCEPTED or REJECTED quotation back
// to DRAFT. It is not a normal transition and is logged distinctly so the
// audit trail shows the unlock.
func (q *Quotation) Reopen(actor Actor) ([]Effect, error) {
	if q.Approval.Status != StatusAccepted && q.Approval.Status != StatusRejected {
		return nil, ErrInvalidTransition
	}
	q.Approval.Status = StatusDraft
	return []Effect{persist(), logActivity("UNLOCK: reopened by %s", actor.Name)}, nil
}
