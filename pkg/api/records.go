package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"plstrack/pkg/compose"
	"plstrack/pkg/models"
)

func (a *API) registerRecords(r *mux.Router) {
	r.HandleFunc("/v1/posts/{id}", a.getRecord).Methods(http.MethodGet)
	r.HandleFunc("/v1/posts/{id}", a.saveRecord).Methods(http.MethodPost, http.MethodPut)
	r.HandleFunc("/v1/posts/{id}", a.deleteRecord).Methods(http.MethodDelete)
	r.HandleFunc("/v1/posts/{id}/last-request", a.lastRequest).Methods(http.MethodGet)
	r.HandleFunc("/v1/posts/{id}/ack", a.ackRecord).Methods(http.MethodPost)
}

// patchRequest mirrors models.Patch for JSON; absent fields stay untouched.
type patchRequest struct {
	Type            *models.PostType `json:"type"`
	URL             *string          `json:"url"`
	LastRequestType *string          `json:"lastRequestType"`
	Reason          *string          `json:"reason"`
	ReasonCode      *string          `json:"reasonCode"`
	ClearReasonCode bool             `json:"clearReasonCode"`
	Details         *string          `json:"details"`
	NATO            *bool            `json:"nato"`
	PendingOpen     *bool            `json:"pendingOpen"`
}

func (p patchRequest) patch() models.Patch {
	return models.Patch{
		Type:            p.Type,
		URL:             p.URL,
		LastRequestType: p.LastRequestType,
		Reason:          p.Reason,
		ReasonCode:      p.ReasonCode,
		ClearReasonCode: p.ClearReasonCode,
		Details:         p.Details,
		NATO:            p.NATO,
		PendingOpen:     p.PendingOpen,
	}
}

// getRecord handles GET /v1/posts/{id}.
func (a *API) getRecord(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	rec, err := a.Records.Load(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if rec == nil {
		writeError(w, http.StatusNotFound, "no record for post")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// saveRecord handles POST/PUT /v1/posts/{id} with a partial patch body.
// When the patch carries a post type but no URL, the canonical URL is
// derived from the configured site.
func (a *API) saveRecord(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var body patchRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if body.Type != nil && !body.Type.Valid() {
		writeError(w, http.StatusBadRequest, "invalid post type")
		return
	}
	if body.Type != nil && body.URL == nil {
		u := compose.PostURL(a.Rules.SiteURL, id, body.Type.IsQuestion())
		body.URL = &u
	}
	rec, err := a.Records.Save(id, body.patch())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// deleteRecord handles DELETE /v1/posts/{id}. The index entry is left for
// the sweeper, matching the store's delete contract.
func (a *API) deleteRecord(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := a.Records.Delete(id); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// lastRequest handles GET /v1/posts/{id}/last-request.
func (a *API) lastRequest(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	st, err := a.Records.LastSent(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if st == nil {
		writeError(w, http.StatusNotFound, "no request sent for post")
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// ackRecord handles POST /v1/posts/{id}/ack: the post was revisited, clear
// its pendingOpen marker.
func (a *API) ackRecord(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := a.Checker.Ack(id); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "acknowledged"})
}
