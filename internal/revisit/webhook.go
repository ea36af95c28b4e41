package revisit

import (
	"encoding/json"
	"time"

	"github.com/valyala/fasthttp"

	"plstrack/pkg/chat"
	"plstrack/pkg/logger"
)

// WebhookOpener delivers due-post URLs to an external endpoint that does
// the actual tab opening. Fire-and-forget: errors are returned for logging
// but the caller never retries within a batch.
type WebhookOpener struct {
	Endpoint string
	timeout  time.Duration
	http     *fasthttp.Client
}

func NewWebhookOpener(endpoint string) *WebhookOpener {
	return &WebhookOpener{
		Endpoint: endpoint,
		timeout:  5 * time.Second,
		http:     &fasthttp.Client{Name: "plstrack"},
	}
}

func (o *WebhookOpener) Open(url string) error {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(o.Endpoint)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	b, _ := json.Marshal(map[string]string{"url": url})
	req.SetBody(b)

	if err := o.http.DoTimeout(req, resp, o.timeout); err != nil {
		return &chat.StatusError{Step: "open", Status: 0, Msg: err.Error()}
	}
	if code := resp.StatusCode(); code < 200 || code > 299 {
		return &chat.StatusError{Step: "open", Status: code, Msg: fasthttp.StatusMessage(code)}
	}
	return nil
}

// LogOpener is the fallback when no webhook is configured: the open action
// is recorded in the log and nothing else happens. pendingOpen stays set on
// the records, which is exactly the at-least-once contract.
type LogOpener struct{}

func (LogOpener) Open(url string) error {
	logger.Info("revisit_open", "url", url)
	return nil
}
