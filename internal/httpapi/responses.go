package httpapi

import (
	"encoding/json"
	"net/http"

	"archlens/internal/archerrors"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// statusForErr maps a tool-call error to the HTTP status documented for the
// surfaced ARCHLENS error kinds.
func statusForErr(err error) int {
	if ae, ok := archerrors.As(err); ok {
		return ae.HTTPStatus()
	}
	return http.StatusInternalServerError
}
