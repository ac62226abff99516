package http

import (
	"encoding/json"
	"net/http"
)

// maxRequestBody caps JSON request bodies.
const maxRequestBody = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeJSONError writes a JSON error body with the given status.
func writeJSONError(w http.ResponseWriter, msg string, status int) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// decodeJSON decodes the request body into v, rejecting oversized bodies and
// unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}
