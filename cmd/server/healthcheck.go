// Package main is the entry point of the application
package main

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/tecu23/duel-server/pkg/server"
)

type healthResponse struct {
	Status string `json:"status"`
	Uptime string `json:"uptime"`
	server.Stats
}

// handleHealth handles the GET /health endpoint
func (app *application) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), time.Second)
	defer cancel()

	resp := healthResponse{Status: "ok", Uptime: time.Since(app.StartTime).Round(time.Second).String()}
	status := http.StatusOK

	stats, err := app.Hub.Stats(ctx)
	if err != nil {
		app.Logger.Warn("hub unavailable for health check", zap.Error(err))
		resp.Status = "unavailable"
		status = http.StatusServiceUnavailable
	}
	resp.Stats = stats

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		app.Logger.Error("encoding health", zap.Error(err))
	}
}
