package models

// PostType identifies what kind of post a record points at. The "d"
// suffix marks deleted posts; the base letter decides the URL shape.
type PostType string

const (
	Question        PostType = "q"
	Answer          PostType = "a"
	DeletedQuestion PostType = "qd"
	DeletedAnswer   PostType = "ad"
)

// IsQuestion reports whether the post is a question (deleted or not).
func (t PostType) IsQuestion() bool { return len(t) > 0 && t[0] == 'q' }

// IsDeleted reports whether the post has been deleted.
func (t PostType) IsDeleted() bool { return len(t) == 2 && t[1] == 'd' }

// Valid reports whether t is one of the four known post types.
func (t PostType) Valid() bool {
	switch t {
	case Question, Answer, DeletedQuestion, DeletedAnswer:
		return true
	}
	return false
}

// Record is the persisted per-post request state, one per post id. Field
// names match the stored JSON layout so existing data round-trips.
type Record struct {
	ID   string   `json:"id"`
	Time int64    `json:"time"` // ms since epoch, set on every save
	Type PostType `json:"type"`
	URL  string   `json:"url"`
	// LastRequestType is the request kind last chosen, e.g. "cv-pls".
	LastRequestType string `json:"lastRequestType,omitempty"`
	// Reason is the human-readable reason label; ReasonCode is the machine
	// code and is null for free-text-only requests.
	Reason     string  `json:"reason,omitempty"`
	ReasonCode *string `json:"reasonCode"`
	Details    string  `json:"details,omitempty"`
	// NATO marks a "new answer to old question" request qualifier.
	NATO bool `json:"nato,omitempty"`
	// PendingOpen is set when a due revisit scheduled this post for
	// auto-opening; cleared once the open is acknowledged.
	PendingOpen bool `json:"pendingOpen,omitempty"`
}

// RequestStamp records the type and time of the most recently sent request
// for a post. Kept in a separate mapping from records; never evicted.
type RequestStamp struct {
	Type string `json:"type"`
	Time int64  `json:"time"` // ms since epoch
}

// Patch carries a partial record update; nil fields are left untouched.
// ReasonCode uses an explicit clear flag so callers can distinguish
// "set to null" from "don't change".
type Patch struct {
	Type            *PostType
	URL             *string
	LastRequestType *string
	Reason          *string
	ReasonCode      *string
	ClearReasonCode bool
	Details         *string
	NATO            *bool
	PendingOpen     *bool
}

// Apply merges the patch onto r.
func (p Patch) Apply(r *Record) {
	if p.Type != nil {
		r.Type = *p.Type
	}
	if p.URL != nil {
		r.URL = *p.URL
	}
	if p.LastRequestType != nil {
		r.LastRequestType = *p.LastRequestType
	}
	if p.Reason != nil {
		r.Reason = *p.Reason
	}
	if p.ReasonCode != nil {
		code := *p.ReasonCode
		r.ReasonCode = &code
	} else if p.ClearReasonCode {
		r.ReasonCode = nil
	}
	if p.Details != nil {
		r.Details = *p.Details
	}
	if p.NATO != nil {
		r.NATO = *p.NATO
	}
	if p.PendingOpen != nil {
		r.PendingOpen = *p.PendingOpen
	}
}
