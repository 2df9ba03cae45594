package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/HamzaArc/atlas-flow-sub000/internal/currency"
	"github.com/HamzaArc/atlas-flow-sub000/internal/quote"
)

var (
	ErrQuotationNotFound = errors.New("quotation not found")
	ErrTariffNotFound    = errors.New("tariff not found")
)

// Store persists quotation aggregates and the tariff catalogue. Engine
// state that is structured but never queried relationally (options,
// charge collections, rate tables) is kept in JSON columns.
type Store struct {
	db *sqlx.DB
}

// New wraps an open database handle.
func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

type quotationRow struct {
	ID               string     `db:"id"`
	Reference        string     `db:"reference"`
	Version          int        `db:"version"`
	ClientName       string     `db:"client_name"`
	Currency         string     `db:"currency"`
	RatesJSON        string     `db:"rates_json"`
	ValidityDate     *time.Time `db:"validity_date"`
	PaymentTerms     string     `db:"payment_terms"`
	DefaultMarkup    string     `db:"default_markup_json"`
	ActiveOption     string     `db:"active_option"`
	OptionsJSON      string     `db:"options_json"`
	ApprovalStatus   string     `db:"approval_status"`
	RequiresApproval bool       `db:"requires_approval"`
	RequestedBy      string     `db:"approval_requested_by"`
	RejectionReason  string     `db:"rejection_reason"`
	UpdatedAt        time.Time  `db:"updated_at"`
}

// SaveQuotation upserts the full aggregate. Last write wins; the engine
// assumes a single logical editor per quotation.
func (s *Store) SaveQuotation(ctx context.Context, q quote.Quotation) error {
	ratesJSON, err := json.Marshal(q.Rates)
	if err != nil {
		return fmt.Errorf("marshal exchange rates: %w", err)
	}
	optionsJSON, err := json.Marshal(q.Options)
	if err != nil {
		return fmt.Errorf("marshal options: %w", err)
	}
	markupJSON, err := json.Marshal(q.DefaultMarkup)
	if err != nil {
		return fmt.Errorf("marshal default markup: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO quotations (
			id, reference, version, client_name, currency, rates_json,
			validity_date, payment_terms, default_markup_json, active_option,
			options_json, approval_status, requires_approval,
			approval_requested_by, rejection_reason, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			reference = excluded.reference,
			version = excluded.version,
			client_name = excluded.client_name,
			currency = excluded.currency,
			rates_json = excluded.rates_json,
			validity_date = excluded.validity_date,
			payment_terms = excluded.payment_terms,
			default_markup_json = excluded.default_markup_json,
			active_option = excluded.active_option,
			options_json = excluded.options_json,
			approval_status = excluded.approval_status,
			requires_approval = excluded.requires_approval,
			approval_requested_by = excluded.approval_requested_by,
			rejection_reason = excluded.rejection_reason,
			updated_at = CURRENT_TIMESTAMP
	`,
		q.ID.String(), q.Reference, q.Version, q.ClientName, q.Currency, string(ratesJSON),
		q.ValidityDate, q.PaymentTerms, string(markupJSON), q.ActiveOption.String(),
		string(optionsJSON), string(q.Approval.Status), q.Approval.RequiresApproval,
		q.Approval.RequestedBy, q.Approval.RejectionReason,
	)
	if err != nil {
		return fmt.Errorf("upsert quotation: %w", err)
	}
	return nil
}

// GetQuotation loads one aggregate snapshot by id.
func (s *Store) GetQuotation(ctx context.Context, id string) (quote.Quotation, error) {
	var row quotationRow
	err := s.db.GetContext(ctx, &row, `
		SELECT id, reference, version, client_name, currency, rates_json,
		       validity_date, payment_terms, default_markup_json, active_option,
		       options_json, approval_status, requires_approval,
		       approval_requested_by, rejection_reason, updated_at
		FROM quotations
		WHERE id = ?
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return quote.Quotation{}, ErrQuotationNotFound
	}
	if err != nil {
		return quote.Quotation{}, fmt.Errorf("query quotation: %w", err)
	}
	return row.toQuotation()
}

func (row quotationRow) toQuotation() (quote.Quotation, error) {
	var q quote.Quotation

	id, err := parseUUID(row.ID)
	if err != nil {
		return q, fmt.Errorf("parse quotation id: %w", err)
	}
	active, err := parseUUID(row.ActiveOption)
	if err != nil {
		return q, fmt.Errorf("parse active option id: %w", err)
	}

	q.ID = id
	q.Reference = row.Reference
	q.Version = row.Version
	q.ClientName = row.ClientName
	q.Currency = row.Currency
	q.ValidityDate = row.ValidityDate
	q.PaymentTerms = row.PaymentTerms
	q.ActiveOption = active
	q.Approval = quote.Approval{
		Status:           quote.Status(row.ApprovalStatus),
		RequiresApproval: row.RequiresApproval,
		RequestedBy:      row.RequestedBy,
		RejectionReason:  row.RejectionReason,
	}

	if err := json.Unmarshal([]byte(row.RatesJSON), &q.Rates); err != nil {
		return q, fmt.Errorf("unmarshal exchange rates: %w", err)
	}
	if err := json.Unmarshal([]byte(row.OptionsJSON), &q.Options); err != nil {
		return q, fmt.Errorf("unmarshal options: %w", err)
	}
	if err := json.Unmarshal([]byte(row.DefaultMarkup), &q.DefaultMarkup); err != nil {
		return q, fmt.Errorf("unmarshal default markup: %w", err)
	}
	return q, nil
}

// QuotationSummary is one row of the quotation list view.
type QuotationSummary struct {
	ID         string    `json:"id"`
	Reference  string    `json:"reference"`
	Version    int       `json:"version"`
	ClientName string    `json:"clientName"`
	Currency   string    `json:"currency"`
	Status     string    `json:"status"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// ListQuotations returns summaries, newest first, optionally filtered by
// reference or client name.
func (s *Store) ListQuotations(ctx context.Context, search string) ([]QuotationSummary, error) {
	pattern := "%" + search + "%"
	rows, err := s.db.QueryxContext(ctx, `
		SELECT id, reference, version, client_name, currency, approval_status, updated_at
		FROM quotations
		WHERE (? = '' OR reference LIKE ? OR client_name LIKE ?)
		ORDER BY datetime(updated_at) DESC, reference DESC
	`, search, pattern, pattern)
	if err != nil {
		return nil, fmt.Errorf("query quotations: %w", err)
	}
	defer rows.Close()

	summaries := make([]QuotationSummary, 0)
	for rows.Next() {
		var item QuotationSummary
		if err := rows.Scan(&item.ID, &item.Reference, &item.Version, &item.ClientName, &item.Currency, &item.Status, &item.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan quotation summary: %w", err)
		}
		summaries = append(summaries, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate quotations: %w", err)
	}
	return summaries, nil
}

// BaselineRates loads the shared exchange-rate table used to initialize
// each quotation's own snapshot.
func (s *Store) BaselineRates(ctx context.Context) (currency.Rates, error) {
	rows, err := s.db.QueryxContext(ctx, `SELECT code, rate FROM exchange_rates`)
	if err != nil {
		return nil, fmt.Errorf("query exchange rates: %w", err)
	}
	defer rows.Close()

	rates := make(currency.Rates)
	for rows.Next() {
		var code string
		var rate float64
		if err := rows.Scan(&code, &rate); err != nil {
			return nil, fmt.Errorf("scan exchange rate: %w", err)
		}
		rates[code] = rate
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate exchange rates: %w", err)
	}
	return rates, nil
}

// UpsertBaselineRate sets one code's rate in the shared table.
func (s *Store) UpsertBaselineRate(ctx context.Context, code string, rate float64) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO exchange_rates (code, rate) VALUES (?, ?)
		ON CONFLICT(code) DO UPDATE SET rate = excluded.rate
	`, code, rate)
	if err != nil {
		return fmt.Errorf("upsert exchange rate %s: %w", code, err)
	}
	return nil
}
