package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"plstrack/internal/revisit"
)

func (a *API) registerRevisits(r *mux.Router) {
	r.HandleFunc("/v1/revisits", a.listRevisits).Methods(http.MethodGet)
	r.HandleFunc("/v1/revisits/due", a.listDueRevisits).Methods(http.MethodGet)
	r.HandleFunc("/v1/revisits/open", a.openDueRevisits).Methods(http.MethodPost)
}

// listRevisits handles GET /v1/revisits: the whole schedule.
func (a *API) listRevisits(w http.ResponseWriter, r *http.Request) {
	m, err := a.Revisits.All()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// listDueRevisits handles GET /v1/revisits/due without consuming anything.
func (a *API) listDueRevisits(w http.ResponseWriter, r *http.Request) {
	ids, err := a.Revisits.ListDue(nowMillis())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"due": ids})
}

// openDueRevisits handles POST /v1/revisits/open: runs the due-handling
// protocol (mark pendingOpen, open, dequeue).
func (a *API) openDueRevisits(w http.ResponseWriter, r *http.Request) {
	opened, err := a.Checker.Run()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if opened == nil {
		opened = []revisit.Due{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"opened": opened})
}
