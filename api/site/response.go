package site

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"visionstore/error_messages"
	"visionstore/logger"
	"visionstore/order"
)

// envelope is the error body shared by every JSON endpoint except the
// provider proxy, which keeps its flat {"error": ...} contract.
type envelope struct {
	Error *errorBody `json:"error"`
}

type errorBody struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps pipeline errors onto status codes.
func writeError(w http.ResponseWriter, r *http.Request, err error, fallback *slog.Logger) {
	body := &errorBody{RequestID: middleware.GetReqID(r.Context())}
	status := http.StatusInternalServerError

	var verr *error_messages.ValidationError
	switch {
	case errors.As(err, &verr):
		status = http.StatusUnprocessableEntity
		body.Code = "VALIDATION_ERROR"
		body.Message = order.RequiredFieldsMessage
		body.Fields = verr.Fields
	case errors.Is(err, error_messages.ErrUnknownProduct):
		status = http.StatusNotFound
		body.Code = "NOT_FOUND"
		body.Message = "product not found"
	case errors.Is(err, error_messages.ErrUnresolvedSKU):
		status = http.StatusConflict
		body.Code = "CHECKOUT_DISABLED"
		body.Message = err.Error()
	case errors.Is(err, error_messages.ErrSubmissionInProgress):
		status = http.StatusConflict
		body.Code = "IN_PROGRESS"
		body.Message = err.Error()
	case errors.Is(err, errBadRequest):
		status = http.StatusBadRequest
		body.Code = "INVALID_INPUT"
		body.Message = err.Error()
	default:
		body.Code = "INTERNAL_ERROR"
		body.Message = "an internal error occurred"
		logger.FromContext(r.Context(), fallback).ErrorContext(r.Context(), "internal error",
			slog.String("error", err.Error()),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)
	}
	writeJSON(w, status, envelope{Error: body})
}

var errBadRequest = errors.New("malformed request body")
