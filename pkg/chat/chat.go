// Package chat posts composed request messages to a chat room. Sending is
// two-step: fetch the room page to scrape the fkey session token, then post
// the message form. Failures carry the HTTP status so callers can surface
// it; there is no automatic retry.
package chat

import (
	"fmt"
	"net/url"
	"regexp"
	"time"

	"github.com/valyala/fasthttp"

	"plstrack/pkg/logger"
	"plstrack/pkg/telemetry"
)

// StatusError reports a failed transport step with its HTTP-style status.
type StatusError struct {
	Step   string // "fkey" or "post"
	Status int
	Msg    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s request failed: %d %s", e.Step, e.Status, e.Msg)
}

var (
	fkeyInput = regexp.MustCompile(`<input[^>]*\bid="fkey"[^>]*>`)
	attrValue = regexp.MustCompile(`\bvalue="([^"]*)"`)
)

// Client sends messages to chat rooms under a single base URL.
type Client struct {
	base    string
	timeout time.Duration
	http    *fasthttp.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		base:    baseURL,
		timeout: 10 * time.Second,
		http:    &fasthttp.Client{Name: "plstrack"},
	}
}

// WithTimeout overrides the per-request timeout.
func (c *Client) WithTimeout(d time.Duration) *Client {
	c.timeout = d
	return c
}

// Send posts text to the given room.
func (c *Client) Send(roomID, text string) error {
	fkey, err := c.fetchFkey(roomID)
	if err != nil {
		telemetry.SendFailures.Inc()
		return err
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(fmt.Sprintf("%s/chats/%s/messages/new", c.base, roomID))
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/x-www-form-urlencoded")
	form := url.Values{}
	form.Set("text", text)
	form.Set("fkey", fkey)
	req.SetBodyString(form.Encode())

	if err := c.http.DoTimeout(req, resp, c.timeout); err != nil {
		telemetry.SendFailures.Inc()
		logger.Error("chat_post_failed", "room", roomID, "error", err)
		return &StatusError{Step: "post", Status: 0, Msg: err.Error()}
	}
	if code := resp.StatusCode(); code < 200 || code > 299 {
		telemetry.SendFailures.Inc()
		logger.Error("chat_post_rejected", "room", roomID, "status", code)
		return &StatusError{Step: "post", Status: code, Msg: fasthttp.StatusMessage(code)}
	}
	logger.Info("chat_message_sent", "room", roomID, "len", len(text))
	return nil
}

// fetchFkey loads the room page and scrapes the fkey hidden input.
func (c *Client) fetchFkey(roomID string) (string, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(fmt.Sprintf("%s/rooms/%s", c.base, roomID))
	if err := c.http.DoTimeout(req, resp, c.timeout); err != nil {
		logger.Error("fkey_fetch_failed", "room", roomID, "error", err)
		return "", &StatusError{Step: "fkey", Status: 0, Msg: err.Error()}
	}
	if code := resp.StatusCode(); code < 200 || code > 299 {
		logger.Error("fkey_fetch_rejected", "room", roomID, "status", code)
		return "", &StatusError{Step: "fkey", Status: code, Msg: fasthttp.StatusMessage(code)}
	}
	input := fkeyInput.Find(resp.Body())
	if input == nil {
		logger.Error("fkey_missing", "room", roomID)
		return "", &StatusError{Step: "fkey", Status: resp.StatusCode(), Msg: "no fkey in response"}
	}
	m := attrValue.FindSubmatch(input)
	if m == nil || len(m[1]) == 0 {
		logger.Error("fkey_missing", "room", roomID)
		return "", &StatusError{Step: "fkey", Status: resp.StatusCode(), Msg: "no fkey in response"}
	}
	return string(m[1]), nil
}
