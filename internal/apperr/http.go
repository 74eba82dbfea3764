package apperr

import (
	"encoding/json"
	"net/http"
)

// HTTPStatus maps an error kind to the status code the transport layer
// returns. Missing credentials map to 403 rather than 401: an upstream
// framework default this API keeps for compatibility, so absent credentials
// and failed ownership share an external class while invalid or expired
// credentials stay on 401.
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindEmailTaken:
		return http.StatusBadRequest
	case KindInvalidCredentials, KindTokenExpired, KindTokenMalformed, KindTokenSignature:
		return http.StatusUnauthorized
	case KindUnauthenticated, KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// ErrorResponse is the top-level JSON envelope for every failure.
type ErrorResponse struct {
	Error *Error `json:"error"`
}

// Write renders err as the standard {error: {kind, message}} envelope.
// Unrecognized errors surface as a generic internal failure so no internal
// detail reaches the client.
func Write(w http.ResponseWriter, err error) {
	kind := KindOf(err)
	body := ErrorResponse{Error: New(kind, MessageOf(err))}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(HTTPStatus(kind))
	json.NewEncoder(w).Encode(body)
}
