package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/secmon-lab/riskportal/pkg/domain/model"
	"github.com/secmon-lab/riskportal/pkg/domain/types"
)

func (s *Server) listUseCases(w http.ResponseWriter, r *http.Request) {
	useCases, err := s.uc.UseCase.ListUseCases(r.Context())
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}

	// The list endpoint accepts an optional query-parameter filter for
	// consumers that do not keep a local copy of the register.
	q := r.URL.Query()
	filter := &model.UseCaseFilter{
		BusinessArea: q.Get("businessArea"),
		AICategory:   q.Get("aiCategory"),
		Status:       q.Get("status"),
		Owner:        q.Get("owner"),
		Search:       q.Get("search"),
	}
	if (model.UseCaseFilter{}) != *filter {
		useCases = model.ApplyUseCaseFilter(useCases, filter)
	}

	respondData(r.Context(), w, http.StatusOK, limitList(r, useCases))
}

func (s *Server) createUseCase(w http.ResponseWriter, r *http.Request) {
	var input model.UseCaseInput
	if err := decodeJSON(r, &input); err != nil {
		respondError(r.Context(), w, &model.ValidationError{
			Messages: []string{"Request body must be valid JSON"},
		})
		return
	}

	useCase, err := s.uc.UseCase.CreateUseCase(r.Context(), &input)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondData(r.Context(), w, http.StatusCreated, useCase)
}

func (s *Server) getUseCase(w http.ResponseWriter, r *http.Request) {
	id := types.UseCaseID(chi.URLParam(r, "useCaseID"))

	useCase, err := s.uc.UseCase.GetUseCase(r.Context(), id)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondData(r.Context(), w, http.StatusOK, useCase)
}

func (s *Server) updateUseCase(w http.ResponseWriter, r *http.Request) {
	id := types.UseCaseID(chi.URLParam(r, "useCaseID"))

	var input model.UseCaseUpdateInput
	if err := decodeJSON(r, &input); err != nil {
		respondError(r.Context(), w, &model.ValidationError{
			Messages: []string{"Request body must be valid JSON"},
		})
		return
	}

	useCase, err := s.uc.UseCase.UpdateUseCase(r.Context(), id, &input)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondData(r.Context(), w, http.StatusOK, useCase)
}

func (s *Server) deleteUseCase(w http.ResponseWriter, r *http.Request) {
	id := types.UseCaseID(chi.URLParam(r, "useCaseID"))

	if err := s.uc.UseCase.DeleteUseCase(r.Context(), id); err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondData(r.Context(), w, http.StatusOK, map[string]string{"id": id.String()})
}

func (s *Server) associateUseCaseRisks(w http.ResponseWriter, r *http.Request) {
	id := types.UseCaseID(chi.URLParam(r, "useCaseID"))

	var body struct {
		RiskIDs []types.RiskID `json:"riskIds"`
	}
	if err := decodeJSON(r, &body); err != nil {
		respondError(r.Context(), w, &model.ValidationError{
			Messages: []string{"Request body must be valid JSON"},
		})
		return
	}

	useCase, err := s.uc.UseCase.AssociateRisks(r.Context(), id, body.RiskIDs)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondData(r.Context(), w, http.StatusOK, useCase)
}

func (s *Server) useCaseStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := s.uc.UseCase.UseCaseStatistics(r.Context())
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondData(r.Context(), w, http.StatusOK, stats)
}
