package endpoints

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// badParams responds 400 with the standard {error, errorCode} body
func badParams(w http.ResponseWriter, message string) {
	respondWithJSON(w, http.StatusBadRequest, map[string]interface{}{
		"error":     message,
		"errorCode": http.StatusBadRequest,
	})
}

// badHeadersContentType rejects requests whose body isn't declared as JSON
func badHeadersContentType(w http.ResponseWriter) {
	badParams(w, "The Content-Type header must be 'application/json'")
}

// unprovidedParams formats the combined message naming every missing field
func unprovidedParams(w http.ResponseWriter, missing []string) {
	badParams(w, fmt.Sprintf(
		"The following required parameters were not provided: %s",
		strings.Join(missing, ", "),
	))
}

func serverError(w http.ResponseWriter, message string) {
	respondWithJSON(w, http.StatusInternalServerError, map[string]interface{}{
		"error":     message,
		"errorCode": http.StatusInternalServerError,
	})
}
