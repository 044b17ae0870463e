package api

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"
)

// ErrorResponse is the body of every 4xx reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

// AnalyzeResponse is the body of a successful /analyze reply.
type AnalyzeResponse struct {
	Result string `json:"result"`
}

var fallbackErrorResponse = []byte(`{"error":"Internal server error"}`)

// writeJSON marshals before touching headers so an encoding failure can still
// be reported with a 500.
func writeJSON(w http.ResponseWriter, log *logrus.Logger, statusCode int, response interface{}) {
	data, err := json.Marshal(response)
	if err != nil {
		log.Errorf("Failed to marshal JSON response: %v", err)
		data = fallbackErrorResponse
		statusCode = http.StatusInternalServerError
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if _, err := w.Write(data); err != nil {
		log.Errorf("Failed to write JSON response: %v", err)
	}
}
