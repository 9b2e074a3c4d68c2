package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskportal/pkg/domain/model"
	"github.com/secmon-lab/riskportal/pkg/domain/types"
)

func (s *Server) listRisks(w http.ResponseWriter, r *http.Request) {
	risks, err := s.uc.Risk.ListRisks(r.Context())
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondData(r.Context(), w, http.StatusOK, limitList(r, risks))
}

func (s *Server) createRisk(w http.ResponseWriter, r *http.Request) {
	var input model.RiskInput
	if err := decodeJSON(r, &input); err != nil {
		respondError(r.Context(), w, &model.ValidationError{
			Messages: []string{"Request body must be valid JSON"},
		})
		return
	}

	risk, err := s.uc.Risk.CreateRisk(r.Context(), &input)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondData(r.Context(), w, http.StatusCreated, risk)
}

func (s *Server) getRisk(w http.ResponseWriter, r *http.Request) {
	id := types.RiskID(chi.URLParam(r, "riskID"))

	risk, err := s.uc.Risk.GetRisk(r.Context(), id)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondData(r.Context(), w, http.StatusOK, risk)
}

func (s *Server) updateRisk(w http.ResponseWriter, r *http.Request) {
	id := types.RiskID(chi.URLParam(r, "riskID"))

	var input model.RiskUpdateInput
	if err := decodeJSON(r, &input); err != nil {
		respondError(r.Context(), w, &model.ValidationError{
			Messages: []string{"Request body must be valid JSON"},
		})
		return
	}

	risk, err := s.uc.Risk.UpdateRisk(r.Context(), id, &input)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondData(r.Context(), w, http.StatusOK, risk)
}

func (s *Server) deleteRisk(w http.ResponseWriter, r *http.Request) {
	id := types.RiskID(chi.URLParam(r, "riskID"))

	if err := s.uc.Risk.DeleteRisk(r.Context(), id); err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondData(r.Context(), w, http.StatusOK, map[string]string{"id": id.String()})
}

func (s *Server) setRiskControls(w http.ResponseWriter, r *http.Request) {
	id := types.RiskID(chi.URLParam(r, "riskID"))

	var body struct {
		ControlIDs []types.ControlID `json:"controlIds"`
	}
	if err := decodeJSON(r, &body); err != nil {
		respondError(r.Context(), w, &model.ValidationError{
			Messages: []string{"Request body must be valid JSON"},
		})
		return
	}

	risk, err := s.uc.Risk.SetRiskControls(r.Context(), id, body.ControlIDs)
	if err != nil {
		respondError(r.Context(), w, goerr.Wrap(err, "failed to set controls", goerr.V("id", id)))
		return
	}
	respondData(r.Context(), w, http.StatusOK, risk)
}

func (s *Server) riskStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := s.uc.Risk.RiskStatistics(r.Context())
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondData(r.Context(), w, http.StatusOK, stats)
}
