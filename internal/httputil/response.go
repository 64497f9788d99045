package httputil

import (
	"encoding/json"
	"net/http"
)

// RespondJSON writes a JSON response with the given status code.
// It marshals first so an encoding failure can't leave a partial body
// behind already-sent headers.
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	payload, err := json.Marshal(data)
	if err != nil {
		RespondError(w, http.StatusInternalServerError, "failed to encode response")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(payload)
}

// RespondMessage writes a body in the {"message": "..."} shape the login
// endpoint uses for every outcome, success and failure alike.
func RespondMessage(w http.ResponseWriter, status int, detail string) {
	RespondJSON(w, status, map[string]string{"message": detail})
}

// RespondError writes an error body in the API's {"error": "..."} shape.
func RespondError(w http.ResponseWriter, status int, detail string) {
	payload, err := json.Marshal(map[string]string{"error": detail})
	if err != nil {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("internal server error"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(payload)
}
