package compose

// Request type tags as they appear in chat messages.
const (
	TypeClose    = "cv-pls"
	TypeReopen   = "reopen-pls"
	TypeDelete   = "del-pls"
	TypeUndelete = "undel-pls"
	TypeFlag     = "flag-pls"

	TypeRevisit2      = "revisit-2"
	TypeRevisit7      = "revisit-7"
	TypeRevisit14     = "revisit-14"
	TypeRevisitCustom = "revisit-x"
)

// closeReasonText maps close-reason codes to readable labels. Numeric codes
// and migration hosts come from the site's close dialog.
var closeReasonText = map[string]string{
	"Duplicate":             "Duplicate",
	"NeedsDetailsOrClarity": "Needs details or clarity",
	"NeedMoreFocus":         "Needs more focus",
	"OpinionBased":          "Opinion-based",
	"18":                    "Not about programming",
	"16":                    "Seeking recommendations",
	"13":                    "Needs debugging details",
	"11":                    "Typo or not reproducible",
	"19":                    "Not written in English",
	"2":                     "Belongs on another site",
	"meta.stackoverflow.com": "Belongs on meta.stackoverflow.com",
	"superuser.com":          "Belongs on superuser.com",
	"tex.stackexchange.com":  "Belongs on tex.stackexchange.com",
	"dba.stackexchange.com":  "Belongs on dba.stackexchange.com",
	"stats.stackexchange.com": "Belongs on stats.stackexchange.com",
}

// closeReasonOrder fixes menu order; map iteration would shuffle it.
var closeReasonOrder = []string{
	"Duplicate",
	"NeedsDetailsOrClarity",
	"NeedMoreFocus",
	"OpinionBased",
	"18",
	"16",
	"13",
	"11",
	"19",
	"2",
}

// migrationAgeLimitDays gates the "Belongs on another site" option; old
// questions cannot be migrated.
const migrationAgeLimitDays = 60

// CloseReasonLabel returns the readable label for a close-reason code, or
// "" when the code is not an enumerated reason.
func CloseReasonLabel(code string) string {
	return closeReasonText[code]
}

// FlagReasons are the flag sub-reasons that make a detail-less flag request
// valid on their own.
var FlagReasons = []string{"spam", "offensive"}

// ValidFlagReason reports whether s is an enumerated flag sub-reason.
func ValidFlagReason(s string) bool {
	for _, r := range FlagReasons {
		if s == r {
			return true
		}
	}
	return false
}
