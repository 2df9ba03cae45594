package quote

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/HamzaArc/atlas-flow-sub000/internal/cargo"
	"github.com/HamzaArc/atlas-flow-sub000/internal/currency"
	"github.com/HamzaArc/atlas-flow-sub000/internal/pricing"
)

var (
	// ErrLocked is returned for any edit attempted on a quotation in a
	// terminal state. It is distinct from validation errors: the caller
	// recovers by reopening or creating a revision.
	ErrLocked = errors.New("quotation is locked")
	// ErrBlockedByExpiredRates rejects transitions toward SENT/ACCEPTED
	// while a line of the active option references an expired tariff.
	ErrBlockedByExpiredRates = errors.New("quotation references expired tariff rates")
	ErrInvalidTransition     = errors.New("invalid approval transition")
	ErrNotAllowed            = errors.New("actor is not allowed to perform this transition")
	ErrReasonRequired        = errors.New("a reason is required")
	ErrOptionNotFound        = errors.New("pricing option not found")
	ErrItemNotFound          = errors.New("line item not found")
)

// Route is the origin/destination pair of a pricing option.
type Route struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
}

// Option is one rated scenario within a quotation.
type Option struct {
	ID       uuid.UUID     `json:"id"`
	Label    string        `json:"label"`
	Mode     cargo.Mode    `json:"mode"`
	Route    Route         `json:"route"`
	Incoterm string        `json:"incoterm"`
	Cargo    cargo.Profile `json:"cargo"`

	Items  []pricing.LineItem `json:"items"`
	Totals pricing.Totals     `json:"totals"`

	// Filled in when a tariff is applied.
	TariffRateID string `json:"tariffRateId,omitempty"`
	Carrier      string `json:"carrier,omitempty"`
	TransitDays  int    `json:"transitDays,omitempty"`
}

// Approval is the lifecycle record of a quotation. It is only ever
// mutated through the transition methods.
type Approval struct {
	Status           Status `json:"status"`
	RequiresApproval bool   `json:"requiresApproval"`
	RequestedBy      string `json:"requestedBy,omitempty"`
	RejectionReason  string `json:"rejectionReason,omitempty"`
}

// Quotation is the aggregate root: client snapshot, currency target,
// exchange-rate snapshot, pricing options, and the approval record.
type Quotation struct {
	ID           uuid.UUID      `json:"id"`
	Reference    string         `json:"reference"`
	Version      int            `json:"version"`
	ClientName   string         `json:"clientName"`
	Currency     string         `json:"currency"`
	Rates        currency.Rates `json:"rates"`
	ValidityDate *time.Time     `json:"validityDate,omitempty"`
	PaymentTerms string         `json:"paymentTerms,omitempty"`

	DefaultMarkup pricing.Markup `json:"defaultMarkup"`

	Options      []Option  `json:"options"`
	ActiveOption uuid.UUID `json:"activeOption"`

	Approval Approval `json:"approval"`
}

// New creates a DRAFT quotation at version 1.
func New(reference, clientName, targetCurrency string, rates currency.Rates, requiresApproval bool) Quotation {
	return Quotation{
		ID:            uuid.New(),
		Reference:     reference,
		Version:       1,
		ClientName:    clientName,
		Currency:      targetCurrency,
		Rates:         rates,
		DefaultMarkup: pricing.Markup{Type: pricing.MarkupPercent},
		Options:       []Option{},
		Approval: Approval{
			Status:           StatusDraft,
			RequiresApproval: requiresApproval,
		},
	}
}

// Active returns the option currently open for editing, or nil when the
// quotation has none yet.
func (q *Quotation) Active() *Option {
	return q.option(q.ActiveOption)
}

func (q *Quotation) option(id uuid.UUID) *Option {
	for i := range q.Options {
		if q.Options[i].ID == id {
			return &q.Options[i]
		}
	}
	return nil
}

// Totals returns the cached totals of the active option; quotation-level
// figures are always the active option's.
func (q *Quotation) Totals() pricing.Totals {
	if opt := q.Active(); opt != nil {
		return opt.Totals
	}
	return pricing.Totals{}
}

func (q *Quotation) recompute(opt *Option) {
	opt.Totals = pricing.Sum(opt.Items, q.Rates, q.Currency)
}

// blockedByExpiredRates reports whether any line of the active option is
// backed by a tariff whose validity has lapsed at the given instant.
func (q *Quotation) blockedByExpiredRates(now time.Time) bool {
	opt := q.Active()
	if opt == nil {
		return false
	}
	for _, li := range opt.Items {
		if li.TariffExpired(now) {
			return true
		}
	}
	return false
}

// CreateRevision copies a terminal quotation into a fresh DRAFT with an
// incremented version. The original is left untouched as a historical
// record.
func (q *Quotation) CreateRevision(now time.Time) (Quotation, []Effect, error) {
	if !q.Approval.Status.Terminal() {
		return Quotation{}, nil, ErrInvalidTransition
	}

	rev := *q
	rev.ID = uuid.New()
	rev.Version = q.Version + 1
	rev.Rates = currency.Merge(q.Rates, nil)
	rev.Options = make([]Option, len(q.Options))
	for i, opt := range q.Options {
		copied := opt
		copied.Items = append([]pricing.LineItem(nil), opt.Items...)
		rev.Options[i] = copied
	}
	rev.Approval = Approval{
		Status:           StatusDraft,
		RequiresApproval: q.Approval.RequiresApproval,
	}

	return rev, []Effect{
		persist(),
		logActivity("revision v%d created from %s v%d", rev.Version, q.Reference, q.Version),
	}, nil
}
