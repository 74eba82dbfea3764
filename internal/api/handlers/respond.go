package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/lmoretti/taskvault-be/internal/apperr"
)

// writeJSON renders v with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError logs the failure with full detail and renders the client-safe
// {error: {kind, message}} envelope. Internal errors keep their cause out of
// the response body.
func writeError(w http.ResponseWriter, err error) {
	if apperr.KindOf(err) == apperr.KindInternal {
		log.Error().Err(err).Msg("Request failed with internal error")
	}
	apperr.Write(w, err)
}
