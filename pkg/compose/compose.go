// Package compose derives the full state of an outgoing request — offered
// request types, enabled controls, routing target, validity and message
// text — from a snapshot of page facts and the user's selections. It is
// pure: no stored state is read or written, and identical inputs always
// produce identical output.
package compose

import (
	"fmt"
	"strconv"
	"strings"

	"plstrack/pkg/models"
)

// PageContext is the read-only snapshot of post/page facts a derivation
// consumes, assembled once per call by the surrounding adapter.
type PageContext struct {
	PostID   string          `json:"postId"`
	PostType models.PostType `json:"postType"`
	Score    int             `json:"score"`
	Title    string          `json:"title"`
	// Tag is the question's first tag; empty when unknown.
	Tag    string `json:"tag,omitempty"`
	IsOpen bool   `json:"isOpen"`
	// DaysSinceClosed is -1 when the question was never closed.
	DaysSinceClosed       int `json:"daysSinceClosed"`
	DaysSinceAsked        int `json:"daysSinceAsked"`
	DaysSinceLastActivity int `json:"daysSinceLastActivity"`
}

// Selection carries the user-chosen options.
type Selection struct {
	RequestType string `json:"requestType"`
	// RevisitDays is only consulted for revisit-x.
	RevisitDays int    `json:"revisitDays,omitempty"`
	ReasonCode  string `json:"reasonCode,omitempty"`
	FlagReason  string `json:"flagReason,omitempty"`
	Details     string `json:"details,omitempty"`
	NATO        bool   `json:"nato,omitempty"`
}

// Rules is the immutable routing/site configuration a derivation runs
// under.
type Rules struct {
	SiteURL       string
	PrimaryRoom   string
	PrimaryName   string
	SecondaryRoom string
	SecondaryName string
	// OldPostDays is the last-activity age beyond which close/revisit
	// requests for still-open questions route to the secondary room.
	OldPostDays int
}

// Option is one entry of the request-type menu.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// ReasonOption is one entry of the close/delete reason menu.
type ReasonOption struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

// Derived is the complete derived view for one input combination.
type Derived struct {
	Options       []Option       `json:"options"`
	ReasonOptions []ReasonOption `json:"reasonOptions"`

	ReasonEnabled     bool `json:"reasonEnabled"`
	FlagReasonEnabled bool `json:"flagReasonEnabled"`
	NATOEnabled       bool `json:"natoEnabled"`
	// NATO echoes the selection but is force-cleared while disabled.
	NATO bool `json:"nato"`

	Valid       bool `json:"valid"`
	CopyEnabled bool `json:"copyEnabled"`

	Room     string `json:"room"`
	RoomName string `json:"roomName"`

	// Reason is the composed reason text including the NATO suffix.
	Reason string `json:"reason"`
	// Message is the full chat message; empty for revisit requests.
	Message string `json:"message"`
	URL     string `json:"url"`
	// RevisitDays is the resolved revisit interval, 0 for non-revisit types.
	RevisitDays int `json:"revisitDays"`
}

// IsRevisit reports whether t is one of the revisit request types.
func IsRevisit(t string) bool { return strings.HasPrefix(t, "revisit-") }

// Derive computes the full derived state. It must stay deterministic:
// re-running with unchanged inputs yields a byte-identical Derived.
func Derive(ctx PageContext, sel Selection, rules Rules) Derived {
	isQuestion := ctx.PostType.IsQuestion()
	revisit := IsRevisit(sel.RequestType)

	d := Derived{
		Options:       options(ctx),
		ReasonOptions: reasonOptions(ctx),

		ReasonEnabled:     isQuestion && (sel.RequestType == TypeClose || sel.RequestType == TypeDelete || revisit),
		FlagReasonEnabled: sel.RequestType == TypeFlag,
		NATOEnabled:       isQuestion && (sel.RequestType == TypeClose || revisit),

		URL:         PostURL(rules.SiteURL, ctx.PostID, isQuestion),
		RevisitDays: revisitDays(sel),
	}
	if d.NATOEnabled {
		d.NATO = sel.NATO
	}

	// compose "label - details"
	var reason string
	if d.ReasonEnabled {
		reason = CloseReasonLabel(sel.ReasonCode)
	}
	if sel.Details != "" {
		if reason != "" {
			reason += " - "
		}
		reason += sel.Details
	}

	// validity is judged before the NATO suffix: a bare checkbox never
	// rescues an empty close request
	switch {
	case revisit:
		d.Valid = true
	case sel.RequestType == TypeFlag:
		d.Valid = sel.FlagReason != "" || reason != ""
	default:
		d.Valid = reason != ""
	}

	if d.NATO {
		if reason != "" {
			reason += " (NATO)"
		} else {
			reason = "(NATO)"
		}
	}
	d.Reason = reason

	// routing: close/revisit requests about long-idle open questions go to
	// the secondary room; every other type always goes primary
	d.Room, d.RoomName = rules.PrimaryRoom, rules.PrimaryName
	if (sel.RequestType == TypeClose || revisit) && ctx.IsOpen && ctx.DaysSinceLastActivity > rules.OldPostDays {
		d.Room, d.RoomName = rules.SecondaryRoom, rules.SecondaryName
	}

	// revisit requests have no preview and nothing to copy; the queue entry
	// is the artifact
	if revisit {
		d.CopyEnabled = false
		return d
	}
	d.CopyEnabled = d.Valid
	if d.Valid {
		d.Message = Message(ctx, sel, rules, d.Reason)
	}
	return d
}

// options builds the request-type menu for the given post.
func options(ctx PageContext) []Option {
	closeOpt := Option{TypeClose, "Close"}
	reopenOpt := Option{TypeReopen, "Reopen"}
	delOpt := Option{TypeDelete, "Delete"}
	undelOpt := Option{TypeUndelete, "Undelete"}
	flagOpt := Option{TypeFlag, "Flag"}

	var out []Option
	switch {
	case ctx.PostType.IsDeleted():
		out = append(out, undelOpt, flagOpt)
	case ctx.PostType.IsQuestion() && ctx.IsOpen:
		out = append(out, closeOpt, flagOpt)
	case ctx.PostType.IsQuestion():
		if ctx.DaysSinceClosed >= 2 || ctx.Score <= -3 {
			out = append(out, delOpt)
		}
		out = append(out, reopenOpt, flagOpt)
	default: // answer
		if ctx.Score <= 0 {
			out = append(out, delOpt)
		}
		out = append(out, flagOpt)
	}
	for _, days := range []int{2, 7, 14} {
		out = append(out, Option{
			Value: "revisit-" + strconv.Itoa(days),
			Label: fmt.Sprintf("Revisit in %d days", days),
		})
	}
	out = append(out, Option{TypeRevisitCustom, "Revisit in X days"})
	return out
}

// reasonOptions builds the close/delete reason menu. Migration to another
// site is only offered while the question is young enough to migrate.
func reasonOptions(ctx PageContext) []ReasonOption {
	out := make([]ReasonOption, 0, len(closeReasonOrder))
	for _, code := range closeReasonOrder {
		if code == "2" && ctx.DaysSinceAsked >= migrationAgeLimitDays {
			continue
		}
		out = append(out, ReasonOption{Code: code, Label: closeReasonText[code]})
	}
	return out
}

func revisitDays(sel Selection) int {
	switch sel.RequestType {
	case TypeRevisit2:
		return 2
	case TypeRevisit7:
		return 7
	case TypeRevisit14:
		return 14
	case TypeRevisitCustom:
		if sel.RevisitDays > 0 {
			return sel.RevisitDays
		}
	}
	return 0
}
