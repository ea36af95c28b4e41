package api

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

func (a *API) registerAdmin(r *mux.Router) {
	r.HandleFunc("/v1/admin/sweep", a.runSweep).Methods(http.MethodPost)
}

// runSweep handles POST /v1/admin/sweep: one immediate retention sweep,
// the on-demand counterpart of the cron schedule.
func (a *API) runSweep(w http.ResponseWriter, r *http.Request) {
	removed, err := a.Sweeper.Run()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"removed": removed})
}

func nowMillis() int64 { return time.Now().UnixMilli() }
