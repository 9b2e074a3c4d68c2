package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/secmon-lab/riskportal/pkg/domain/interfaces"
	"github.com/secmon-lab/riskportal/pkg/domain/model"
	"github.com/secmon-lab/riskportal/pkg/usecase"
	"github.com/secmon-lab/riskportal/pkg/utils/errutil"
	"github.com/secmon-lab/riskportal/pkg/utils/logging"
)

type dataEnvelope struct {
	Data any `json:"data"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

func respondData(ctx context.Context, w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(dataEnvelope{Data: data}); err != nil {
		logging.From(ctx).Error("failed to encode response", "error", err)
	}
}

// respondError maps domain errors onto HTTP status codes and writes the
// error envelope. Server-side failures are logged and reported,
// client-side ones only written back.
func respondError(ctx context.Context, w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	body := errorBody{Message: err.Error()}

	var ve *model.ValidationError
	switch {
	case errors.As(err, &ve):
		status = http.StatusBadRequest
		body.Message = "validation failed"
		body.Details = ve.Messages
	case errors.Is(err, interfaces.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, interfaces.ErrAlreadyExists):
		status = http.StatusConflict
	case errors.Is(err, usecase.ErrConflict):
		status = http.StatusConflict
	}

	if status >= 500 {
		_ = errutil.Handle(ctx, err, "request failed")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if encErr := json.NewEncoder(w).Encode(errorEnvelope{Error: body}); encErr != nil {
		logging.From(ctx).Error("failed to encode error response", "error", encErr)
	}
}

func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// limitList truncates a list response when a valid positive limit query
// parameter is present. Anything else leaves the list untouched.
func limitList[T any](r *http.Request, list []T) []T {
	v := r.URL.Query().Get("limit")
	if v == "" {
		return list
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 || n >= len(list) {
		return list
	}
	return list[:n]
}
