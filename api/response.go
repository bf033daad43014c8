package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, v any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("encode response", slog.Any("err", err))
	}
}

func writeError(w http.ResponseWriter, msg string, status int) {
	writeJSON(w, errorResponse{Error: msg}, status)
}

// writeStoreError logs the underlying failure and returns a generic 500 so
// database details never reach the client.
func writeStoreError(w http.ResponseWriter, r *http.Request, op string, err error) {
	logger.Error(op, slog.String("path", r.URL.Path), slog.Any("err", err))
	writeError(w, "Database error", http.StatusInternalServerError)
}
