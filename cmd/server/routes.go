// Package main is the entry point of the application
package main

import (
	"net/http"
)

func (app *application) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", app.handleHealth)
	mux.HandleFunc("/results", app.handleResults)
	mux.HandleFunc("/ws", app.authenticate(app.handleWebSocket))

	return app.logRequest(mux)
}
