// Package handlers contains HTTP handlers for the daemon API.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"funcplane/internal/client"
	"funcplane/pkg/api"
)

// Pinger backs the readiness probe. The postgres registry pings its
// connection pool; the in-memory registry always reports ready.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handlers holds all HTTP handlers and their dependencies.
type Handlers struct {
	emulator *client.LocalEmulator
	pinger   Pinger
}

// New creates a new Handlers instance around an emulator.
func New(em *client.LocalEmulator, pinger Pinger) *Handlers {
	return &Handlers{emulator: em, pinger: pinger}
}

// A helper function to write standard JSON responses.
func (h *Handlers) respondJson(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

// A helper function to return consistent error messages.
func (h *Handlers) httpError(w http.ResponseWriter, message string, code int) {
	h.respondJson(w, code, api.ErrorResponse{
		Error: message,
		Code:  strconv.Itoa(code),
	})
}

// emulatorError maps the emulator's typed errors onto HTTP statuses.
func (h *Handlers) emulatorError(w http.ResponseWriter, err error) {
	var vErr *client.ValidationError
	if errors.As(err, &vErr) {
		h.httpError(w, vErr.Message, http.StatusBadRequest)
		return
	}

	var nfErr *client.NotFoundError
	if errors.As(err, &nfErr) {
		h.httpError(w, nfErr.Error(), http.StatusNotFound)
		return
	}

	var instErr *client.InstallError
	if errors.As(err, &instErr) {
		h.httpError(w, instErr.Error(), http.StatusUnprocessableEntity)
		return
	}

	if errors.Is(err, client.ErrUnsupported) {
		h.httpError(w, err.Error(), http.StatusNotImplemented)
		return
	}

	h.httpError(w, "Internal error", http.StatusInternalServerError)
}
