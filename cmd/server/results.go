// Package main is the entry point of the application
package main

import (
	"encoding/json"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/tecu23/duel-server/pkg/results"
)

const maxResultsLimit = 100

// handleResults handles the GET /results endpoint
func (app *application) handleResults(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit := results.DefaultLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = min(n, maxResultsLimit)
	}

	recent, err := app.Results.Recent(r.Context(), limit)
	if err != nil {
		app.Logger.Error("listing results", zap.Error(err))
		http.Error(w, "could not load results", http.StatusInternalServerError)
		return
	}

	if recent == nil {
		recent = []results.Result{}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]interface{}{"results": recent}); err != nil {
		app.Logger.Error("encoding results", zap.Error(err))
	}
}
