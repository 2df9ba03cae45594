package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/HamzaArc/atlas-flow-sub000/internal/cargo"
	"github.com/HamzaArc/atlas-flow-sub000/internal/tariff"
)

func (s *Server) handleCreateTariff(w http.ResponseWriter, r *http.Request) {
	var rate tariff.Rate
	if err := decodeBody(r, &rate); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if rate.POL == "" || rate.POD == "" {
		respondError(w, http.StatusBadRequest, "pol and pod are required")
		return
	}
	if !rate.Mode.Valid() {
		respondError(w, http.StatusBadRequest, "mode must be AIR, SEA or ROAD")
		return
	}
	if rate.ValidTo.Before(rate.ValidFrom) {
		respondError(w, http.StatusBadRequest, "validTo must not precede validFrom")
		return
	}
	if rate.ID == "" {
		rate.ID = uuid.NewString()
	}
	if rate.Status == "" {
		rate.Status = tariff.StatusDraft
	}

	if err := s.store.InsertTariff(r.Context(), rate); err != nil {
		s.writeEngineError(w, err)
		return
	}

	s.log.Info("tariff stored",
		zap.String("tariff", rate.ID),
		zap.String("carrier", rate.Carrier),
		zap.String("route", rate.POL+"-"+rate.POD),
	)
	respondJSON(w, http.StatusCreated, rate)
}

func (s *Server) handleListTariffs(w http.ResponseWriter, r *http.Request) {
	catalogue, err := s.store.ListTariffs(r.Context())
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, catalogue)
}

func (s *Server) handleGetTariff(w http.ResponseWriter, r *http.Request) {
	rate, err := s.store.GetTariff(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rate)
}

type chargeableWeightRequest struct {
	Mode  cargo.Mode    `json:"mode"`
	Cargo cargo.Profile `json:"cargo"`
}

type chargeableWeightResponse struct {
	GrossWeightKG      float64 `json:"grossWeightKg"`
	VolumeM3           float64 `json:"volumeM3"`
	VolumetricWeightKG float64 `json:"volumetricWeightKg"`
	ChargeableWeightKG float64 `json:"chargeableWeightKg"`
	FullLoad           bool    `json:"fullLoad"`
}

// handleChargeableWeight previews the rating weight for a cargo profile
// without creating anything.
func (s *Server) handleChargeableWeight(w http.ResponseWriter, r *http.Request) {
	var req chargeableWeightRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if !req.Mode.Valid() {
		respondError(w, http.StatusBadRequest, "mode must be AIR, SEA or ROAD")
		return
	}

	volume := req.Cargo.TotalVolume()
	respondJSON(w, http.StatusOK, chargeableWeightResponse{
		GrossWeightKG:      req.Cargo.TotalWeight(),
		VolumeM3:           volume,
		VolumetricWeightKG: volume * req.Mode.VolumetricRatio(),
		ChargeableWeightKG: cargo.Chargeable(req.Cargo, req.Mode),
		FullLoad:           req.Cargo.FullLoad(),
	})
}
