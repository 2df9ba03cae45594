package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/HamzaArc/atlas-flow-sub000/internal/cargo"
	"github.com/HamzaArc/atlas-flow-sub000/internal/tariff"
)

type tariffRow struct {
	ID               string    `db:"id"`
	Carrier          string    `db:"carrier"`
	POL              string    `db:"pol"`
	POD              string    `db:"pod"`
	Mode             string    `db:"mode"`
	Incoterm         string    `db:"incoterm"`
	Status           string    `db:"status"`
	ValidFrom        time.Time `db:"valid_from"`
	ValidTo          time.Time `db:"valid_to"`
	TransitDays      int       `db:"transit_days"`
	Reliability      float64   `db:"reliability"`
	OriginJSON      string    `db:"origin_charges_json"`
	FreightJSON     string    `db:"freight_charges_json"`
	DestinationJSON string    `db:"destination_charges_json"`
}

// InsertTariff stores one carrier rate sheet. The three charge groups go
// into JSON columns; the matching attributes stay relational so the
// catalogue can be filtered in SQL.
func (s *Store) InsertTariff(ctx context.Context, r tariff.Rate) error {
	origin, err := json.Marshal(r.OriginCharges)
	if err != nil {
		return fmt.Errorf("marshal origin charges: %w", err)
	}
	freight, err := json.Marshal(r.FreightCharges)
	if err != nil {
		return fmt.Errorf("marshal freight charges: %w", err)
	}
	destination, err := json.Marshal(r.DestinationCharges)
	if err != nil {
		return fmt.Errorf("marshal destination charges: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO tariffs (
			id, carrier, pol, pod, mode, incoterm, status,
			valid_from, valid_to, transit_days, reliability,
			origin_charges_json, freight_charges_json, destination_charges_json
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			carrier = excluded.carrier,
			pol = excluded.pol,
			pod = excluded.pod,
			mode = excluded.mode,
			incoterm = excluded.incoterm,
			status = excluded.status,
			valid_from = excluded.valid_from,
			valid_to = excluded.valid_to,
			transit_days = excluded.transit_days,
			reliability = excluded.reliability,
			origin_charges_json = excluded.origin_charges_json,
			freight_charges_json = excluded.freight_charges_json,
			destination_charges_json = excluded.destination_charges_json
	`,
		r.ID, r.Carrier, r.POL, r.POD, string(r.Mode), r.Incoterm, string(r.Status),
		r.ValidFrom, r.ValidTo, r.TransitDays, r.Reliability,
		string(origin), string(freight), string(destination),
	)
	if err != nil {
		return fmt.Errorf("upsert tariff: %w", err)
	}
	return nil
}

// GetTariff loads one rate sheet by id.
func (s *Store) GetTariff(ctx context.Context, id string) (tariff.Rate, error) {
	var row tariffRow
	err := s.db.GetContext(ctx, &row, `
		SELECT id, carrier, pol, pod, mode, incoterm, status,
		       valid_from, valid_to, transit_days, reliability,
		       origin_charges_json, freight_charges_json, destination_charges_json
		FROM tariffs
		WHERE id = ?
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return tariff.Rate{}, ErrTariffNotFound
	}
	if err != nil {
		return tariff.Rate{}, fmt.Errorf("query tariff: %w", err)
	}
	return row.toRate()
}

// ListTariffs returns the full catalogue in stable insertion order, as
// the match strategies expect.
func (s *Store) ListTariffs(ctx context.Context) ([]tariff.Rate, error) {
	rows, err := s.db.QueryxContext(ctx, `
		SELECT id, carrier, pol, pod, mode, incoterm, status,
		       valid_from, valid_to, transit_days, reliability,
		       origin_charges_json, freight_charges_json, destination_charges_json
		FROM tariffs
		ORDER BY rowid
	`)
	if err != nil {
		return nil, fmt.Errorf("query tariffs: %w", err)
	}
	defer rows.Close()

	catalogue := make([]tariff.Rate, 0)
	for rows.Next() {
		var row tariffRow
		if err := rows.StructScan(&row); err != nil {
			return nil, fmt.Errorf("scan tariff: %w", err)
		}
		rate, err := row.toRate()
		if err != nil {
			return nil, err
		}
		catalogue = append(catalogue, rate)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tariffs: %w", err)
	}
	return catalogue, nil
}

// CountTariffs reports how many rate sheets are loaded. Used by seeding
// to keep the demo catalogue idempotent.
func (s *Store) CountTariffs(ctx context.Context) (int, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM tariffs`); err != nil {
		return 0, fmt.Errorf("count tariffs: %w", err)
	}
	return n, nil
}

func (row tariffRow) toRate() (tariff.Rate, error) {
	r := tariff.Rate{
		ID:          row.ID,
		Carrier:     row.Carrier,
		POL:         row.POL,
		POD:         row.POD,
		Mode:        cargo.Mode(row.Mode),
		Incoterm:    row.Incoterm,
		Status:      tariff.Status(row.Status),
		ValidFrom:   row.ValidFrom,
		ValidTo:     row.ValidTo,
		TransitDays: row.TransitDays,
		Reliability: row.Reliability,
	}
	if err := json.Unmarshal([]byte(row.OriginJSON), &r.OriginCharges); err != nil {
		return tariff.Rate{}, fmt.Errorf("unmarshal origin charges: %w", err)
	}
	if err := json.Unmarshal([]byte(row.FreightJSON), &r.FreightCharges); err != nil {
		return tariff.Rate{}, fmt.Errorf("unmarshal freight charges: %w", err)
	}
	if err := json.Unmarshal([]byte(row.DestinationJSON), &r.DestinationCharges); err != nil {
		return tariff.Rate{}, fmt.Errorf("unmarshal destination charges: %w", err)
	}
	return r, nil
}

func parseUUID(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, nil
	}
	return uuid.Parse(s)
}
