package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/secmon-lab/riskportal/pkg/domain/model"
	"github.com/secmon-lab/riskportal/pkg/domain/types"
)

func (s *Server) listControls(w http.ResponseWriter, r *http.Request) {
	controls, err := s.uc.Control.ListControls(r.Context())
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondData(r.Context(), w, http.StatusOK, limitList(r, controls))
}

func (s *Server) createControl(w http.ResponseWriter, r *http.Request) {
	var input model.ControlInput
	if err := decodeJSON(r, &input); err != nil {
		respondError(r.Context(), w, &model.ValidationError{
			Messages: []string{"Request body must be valid JSON"},
		})
		return
	}

	control, err := s.uc.Control.CreateControl(r.Context(), &input)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondData(r.Context(), w, http.StatusCreated, control)
}

func (s *Server) getControl(w http.ResponseWriter, r *http.Request) {
	id := types.ControlID(chi.URLParam(r, "controlID"))

	control, err := s.uc.Control.GetControl(r.Context(), id)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondData(r.Context(), w, http.StatusOK, control)
}

func (s *Server) updateControl(w http.ResponseWriter, r *http.Request) {
	id := types.ControlID(chi.URLParam(r, "controlID"))

	var input model.ControlUpdateInput
	if err := decodeJSON(r, &input); err != nil {
		respondError(r.Context(), w, &model.ValidationError{
			Messages: []string{"Request body must be valid JSON"},
		})
		return
	}

	control, err := s.uc.Control.UpdateControl(r.Context(), id, &input)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondData(r.Context(), w, http.StatusOK, control)
}

func (s *Server) deleteControl(w http.ResponseWriter, r *http.Request) {
	id := types.ControlID(chi.URLParam(r, "controlID"))

	if err := s.uc.Control.DeleteControl(r.Context(), id); err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondData(r.Context(), w, http.StatusOK, map[string]string{"id": id.String()})
}

func (s *Server) setControlRisks(w http.ResponseWriter, r *http.Request) {
	id := types.ControlID(chi.URLParam(r, "controlID"))

	var body struct {
		RiskIDs []types.RiskID `json:"riskIds"`
	}
	if err := decodeJSON(r, &body); err != nil {
		respondError(r.Context(), w, &model.ValidationError{
			Messages: []string{"Request body must be valid JSON"},
		})
		return
	}

	control, err := s.uc.Control.SetControlRisks(r.Context(), id, body.RiskIDs)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondData(r.Context(), w, http.StatusOK, control)
}

func (s *Server) controlStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := s.uc.Control.ControlStatistics(r.Context())
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondData(r.Context(), w, http.StatusOK, stats)
}
