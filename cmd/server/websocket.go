// Package main is the entry point of the application
package main

import (
	"net/http"

	"go.uber.org/zap"
)

// handleWebSocket handles WebSocket connections
func (app *application) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	// Upgrade HTTP connection to WebSocket
	ws, err := app.Origins.Upgrader().Upgrade(w, r, nil)
	if err != nil {
		app.Logger.Error("Failed to upgrade to WebSocket", zap.Error(err))
		return
	}

	// Register connection and start its read/write goroutines
	conn := app.Hub.Attach(ws)
	if conn == nil {
		app.Logger.Warn("WebSocket refused, hub is shutting down", zap.String("remote_addr", r.RemoteAddr))
		return
	}

	app.Logger.Info("WebSocket connection established",
		zap.String("player_id", conn.PlayerID()),
		zap.String("remote_addr", r.RemoteAddr))
}
