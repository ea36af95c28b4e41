package compose

import (
	"regexp"
	"strings"
)

var titleSuffix = regexp.MustCompile(` \[(closed|duplicate)]$`)

// PostURL builds the canonical short URL for a post.
func PostURL(siteURL, postID string, isQuestion bool) string {
	kind := "a"
	if isQuestion {
		kind = "q"
	}
	return strings.TrimRight(siteURL, "/") + "/" + kind + "/" + postID
}

// CleanTitle strips the site's "[closed]"/"[duplicate]" status suffix and
// escapes literal brackets so the title survives markdown link syntax.
// Answers get an "Answer to: " prefix.
func CleanTitle(title string, isQuestion bool) string {
	t := titleSuffix.ReplaceAllString(title, "")
	t = strings.ReplaceAll(t, "[", `\[`)
	t = strings.ReplaceAll(t, "]", `\]`)
	if !isQuestion {
		t = "Answer to: " + t
	}
	return t
}

// Message builds the chat request line:
//
//	[tag:<type>] [tag:<post-tag>]? <reason> [<title>](<url>)
//
// Flag requests drop the post tag and, when a flag sub-reason is chosen,
// lead with that sub-reason instead of "flag-pls".
func Message(ctx PageContext, sel Selection, rules Rules, reason string) string {
	isQuestion := ctx.PostType.IsQuestion()
	reqType := sel.RequestType
	tag := ""
	if reqType == TypeFlag {
		if sel.FlagReason != "" {
			reqType = sel.FlagReason
		}
	} else if ctx.Tag != "" {
		tag = " [tag:" + ctx.Tag + "]"
	}
	title := CleanTitle(ctx.Title, isQuestion)
	url := PostURL(rules.SiteURL, ctx.PostID, isQuestion)
	return "[tag:" + reqType + "]" + tag + " " + reason + " [" + title + "](" + url + ")"
}
