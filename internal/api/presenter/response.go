package presenter

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/tokengate/tokengate/internal/service"
)

// ErrorBody is the error payload of every failure response.
type ErrorBody struct {
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorResponse struct {
	Error         ErrorBody `json:"error"`
	CorrelationID string    `json:"correlation_id,omitempty"`
}

func JSON(w http.ResponseWriter, r *http.Request, data any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("failed to write json response")
	}
}

func Error(w http.ResponseWriter, r *http.Request, msg string, status int) {
	ErrorDetails(w, r, msg, nil, status)
}

func ErrorDetails(w http.ResponseWriter, r *http.Request, msg string, details any, status int) {
	correlationID, _ := r.Context().Value("correlation_id").(string)
	resp := ErrorResponse{
		Error: ErrorBody{
			Message: msg,
			Details: details,
		},
		CorrelationID: correlationID,
	}
	JSON(w, r, resp, status)
}

// Err maps a service error onto the response. Defined denials carry their
// own status and details; anything else is an internal fault whose cause is
// logged but never leaked.
func Err(w http.ResponseWriter, r *http.Request, err error) {
	var httpError *service.HTTPError
	if errors.As(err, &httpError) {
		ErrorDetails(w, r, httpError.Error(), httpError.Details, httpError.StatusCode)
		return
	}
	log.Ctx(r.Context()).Error().Err(err).Msg("internal error")
	Error(w, r, "internal server error", http.StatusInternalServerError)
}
