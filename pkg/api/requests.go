package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"plstrack/pkg/chat"
	"plstrack/pkg/compose"
	"plstrack/pkg/logger"
	"plstrack/pkg/models"
	"plstrack/pkg/telemetry"
)

func (a *API) registerRequests(r *mux.Router) {
	r.HandleFunc("/v1/requests/preview", a.previewRequest).Methods(http.MethodPost)
	r.HandleFunc("/v1/requests", a.submitRequest).Methods(http.MethodPost)
}

type requestBody struct {
	Context   compose.PageContext `json:"context"`
	Selection compose.Selection   `json:"selection"`
	// Send false saves the record without posting to chat (the close-vote
	// logging path). Defaults to true on submit.
	Send *bool `json:"send,omitempty"`
}

type submitResponse struct {
	compose.Derived
	Sent   bool   `json:"sent"`
	Queued bool   `json:"queued,omitempty"`
	Due    int64  `json:"due,omitempty"`
	Record any    `json:"record,omitempty"`
	SentTo string `json:"sentTo,omitempty"`
}

// previewRequest handles POST /v1/requests/preview: pure derivation, no
// side effects.
func (a *API) previewRequest(w http.ResponseWriter, r *http.Request) {
	var body requestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if !body.Context.PostType.Valid() {
		writeError(w, http.StatusBadRequest, "invalid post type")
		return
	}
	writeJSON(w, http.StatusOK, compose.Derive(body.Context, body.Selection, a.Rules))
}

// submitRequest handles POST /v1/requests. Revisit requests land in the
// reminder queue; everything else goes to chat. The record is saved either
// way, exactly like the original saved on every submit and every close
// vote.
func (a *API) submitRequest(w http.ResponseWriter, r *http.Request) {
	var body requestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	ctx, sel := body.Context, body.Selection
	if ctx.PostID == "" || !ctx.PostType.Valid() {
		writeError(w, http.StatusBadRequest, "post id and type required")
		return
	}
	d := compose.Derive(ctx, sel, a.Rules)
	if !d.Valid {
		writeError(w, http.StatusUnprocessableEntity, "request has no content")
		return
	}

	rec, err := a.Records.Save(ctx.PostID, recordPatch(ctx, sel, d))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	resp := submitResponse{Derived: d, Record: rec}

	if compose.IsRevisit(sel.RequestType) {
		if d.RevisitDays <= 0 {
			writeError(w, http.StatusBadRequest, "revisit days required")
			return
		}
		due := time.Now().UnixMilli() + int64(d.RevisitDays)*24*time.Hour.Milliseconds()
		if err := a.Revisits.Add(ctx.PostID, due); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		resp.Queued = true
		resp.Due = due
		writeJSON(w, http.StatusOK, resp)
		return
	}

	if body.Send != nil && !*body.Send {
		writeJSON(w, http.StatusOK, resp)
		return
	}

	room := d.Room
	if a.Debug && a.SandboxRoom != "" {
		room = a.SandboxRoom
	}
	if err := a.Chat.Send(room, d.Message); err != nil {
		var se *chat.StatusError
		if errors.As(err, &se) {
			logger.Error("request_send_failed", "id", ctx.PostID, "room", room, "step", se.Step, "status", se.Status)
		} else {
			logger.Error("request_send_failed", "id", ctx.PostID, "room", room, "error", err)
		}
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	if err := a.Records.LogSent(ctx.PostID, sel.RequestType); err != nil {
		logger.Warn("log_sent_failed", "id", ctx.PostID, "error", err)
	}
	telemetry.RequestsSent.WithLabelValues(sel.RequestType).Inc()
	resp.Sent = true
	resp.SentTo = room
	writeJSON(w, http.StatusOK, resp)
}

// recordPatch translates a submitted request into the stored record shape.
func recordPatch(ctx compose.PageContext, sel compose.Selection, d compose.Derived) models.Patch {
	reason := ""
	if d.ReasonEnabled {
		reason = compose.CloseReasonLabel(sel.ReasonCode)
	}
	p := models.Patch{
		Type:            &ctx.PostType,
		URL:             &d.URL,
		LastRequestType: &sel.RequestType,
		Reason:          &reason,
		Details:         &sel.Details,
		NATO:            &d.NATO,
	}
	if d.ReasonEnabled && compose.CloseReasonLabel(sel.ReasonCode) != "" {
		code := sel.ReasonCode
		p.ReasonCode = &code
	} else {
		p.ClearReasonCode = true
	}
	return p
}
