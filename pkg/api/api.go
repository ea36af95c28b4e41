// Package api exposes the JSON surface: record CRUD, request
// preview/submit, revisit reminders and the admin sweep trigger. Handlers
// are thin adapters; all derivation and persistence logic lives in
// pkg/compose, pkg/store and internal/{sweep,revisit}.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"plstrack/internal/revisit"
	"plstrack/internal/sweep"
	"plstrack/pkg/compose"
	"plstrack/pkg/store"
)

// Sender posts a composed message to a chat room.
type Sender interface {
	Send(roomID, text string) error
}

// API bundles the collaborators the handlers need.
type API struct {
	Records  *store.Records
	Revisits *store.Revisits
	Checker  *revisit.Checker
	Sweeper  *sweep.Sweeper
	Chat     Sender
	Rules    compose.Rules
	// SandboxRoom receives every send while Debug is set.
	SandboxRoom string
	Debug       bool
}

// Handler returns the fully routed HTTP handler.
func (a *API) Handler() http.Handler {
	r := mux.NewRouter()
	a.registerRecords(r)
	a.registerRequests(r)
	a.registerRevisits(r)
	a.registerAdmin(r)
	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	http.Error(w, `{"error":"`+msg+`"}`, status)
}
