// Package apiclient is a typed client for the catalog's JSON-LD API. Every
// entity call goes through one request path that attaches the bearer token,
// negotiates media types and turns failures into typed errors after emitting
// exactly one notification.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

const (
	mediaTypeJSONLD     = "application/ld+json"
	mediaTypeJSON       = "application/json"
	mediaTypeMergePatch = "application/merge-patch+json"

	maxErrorBody = 64 << 10
)

// TokenSource supplies the bearer token for outgoing requests. An empty
// token means the request is sent anonymously.
type TokenSource interface {
	Token() string
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	notifier   Notifier
	logger     logrus.FieldLogger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

func WithNotifier(n Notifier) Option {
	return func(c *Client) { c.notifier = n }
}

func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a client for the API mounted at baseURL, for example
// "http://localhost:8000/api".
func New(baseURL string, opts ...Option) *Client {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
		notifier:   nopNotifier{},
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Books() *Resource[Book] { return For[Book](c) }
func (c *Client) Authors() *Resource[Author] { return For[Author](c) }
func (c *Client) Categories() *Resource[Category] { return For[Category](c) }
func (c *Client) Users() *Resource[User] { return For[User](c) }

type request struct {
	method      string
	path        string
	rawQuery    string
	body        any
	contentType string
}

// do sends req and decodes a successful response into out. Failures are
// notified once and returned as typed errors.
func (c *Client) do(ctx context.Context, req request, out any) error {
	err := c.roundTrip(ctx, req, out)
	if err != nil {
		c.notify(err)
	}
	return err
}

func (c *Client) roundTrip(ctx context.Context, req request, out any) error {
	target := c.baseURL + "/" + strings.TrimLeft(req.path, "/")
	if req.rawQuery != "" {
		target += "?" + req.rawQuery
	}

	var body io.Reader
	if req.body != nil {
		payload, err := json.Marshal(req.body)
		if err != nil {
			return &EncodeError{Method: req.method, URL: target, Err: err}
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, target, body)
	if err != nil {
		return &TransportError{Method: req.method, URL: target, Err: err}
	}
	contentType := req.contentType
	if contentType == "" {
		contentType = mediaTypeJSONLD
	}
	httpReq.Header.Set("Content-Type", contentType)
	httpReq.Header.Set("Accept", mediaTypeJSONLD)
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return &TransportError{Method: req.method, URL: target, Err: err}
	}
	defer resp.Body.Close()

	c.logger.WithFields(logrus.Fields{
		"method":      req.method,
		"url":         target,
		"status":      resp.StatusCode,
		"duration_ms": time.Since(start).Milliseconds(),
	}).Debug("api request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return errorFromResponse(resp.StatusCode, raw)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &APIError{Status: resp.StatusCode, Description: "Malformed response body."}
	}
	return nil
}

// errorFromResponse maps a non-2xx response to the error taxonomy. The body
// is parsed best-effort; anything that is not JSON is treated as empty.
func errorFromResponse(status int, raw []byte) error {
	doc := gjson.Result{}
	if gjson.ValidBytes(raw) {
		doc = gjson.ParseBytes(raw)
	}

	base := APIError{Status: status, Description: describe(doc)}

	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return &ValidationError{APIError: base, FieldErrors: fieldErrors(doc)}
	case http.StatusNotFound:
		return &NotFoundError{APIError: base}
	case http.StatusConflict:
		return &ConflictError{APIError: base}
	default:
		return &APIError{Status: status, Description: base.Description}
	}
}

func describe(doc gjson.Result) string {
	for _, key := range []string{"description", `hydra\:description`, "detail", "message", "error"} {
		if v := doc.Get(key); v.Type == gjson.String && v.String() != "" {
			return v.String()
		}
	}
	return ""
}

func fieldErrors(doc gjson.Result) map[string]string {
	out := map[string]string{}
	doc.Get("errors").ForEach(func(field, msg gjson.Result) bool {
		out[field.String()] = msg.String()
		return true
	})
	doc.Get("violations").ForEach(func(_, v gjson.Result) bool {
		path := v.Get("propertyPath").String()
		if _, seen := out[path]; !seen {
			out[path] = v.Get("message").String()
		}
		return true
	})
	return out
}

func (c *Client) notify(err error) {
	switch e := err.(type) {
	case *TransportError:
		c.notifier.Error("Network error", "The server could not be reached.")
	case *EncodeError:
		c.notifier.Error("Error", "The request could not be encoded.")
	case *ValidationError:
		msg := e.Description
		if msg == "" && len(e.FieldErrors) > 0 {
			msg = e.fieldSummary()
		}
		c.notifier.Error("Error", orStatus(msg, e.Status))
	case *NotFoundError:
		c.notifier.Error("Error", orStatus(e.Description, e.Status))
	case *ConflictError:
		c.notifier.Error("Error", orStatus(e.Description, e.Status))
	case *APIError:
		c.notifier.Error("Error", orStatus(e.Description, e.Status))
	default:
		c.notifier.Error("Error", err.Error())
	}
}

func orStatus(msg string, status int) string {
	if msg != "" {
		return msg
	}
	return fmt.Sprintf("Request failed with status %d.", status)
}

// LoginCheck exchanges credentials for a bearer token at the dedicated
// authentication endpoint. It does not emit notifications; callers decide
// how to surface a failed login.
func (c *Client) LoginCheck(ctx context.Context, email, password string) (string, error) {
	var out struct {
		Token string `json:"token"`
	}
	err := c.roundTrip(ctx, request{
		method:      http.MethodPost,
		path:        "login_check",
		body:        map[string]string{"email": email, "password": password},
		contentType: mediaTypeJSON,
	}, &out)
	if err != nil {
		return "", err
	}
	if out.Token == "" {
		return "", &APIError{Status: http.StatusOK, Description: "No token in response."}
	}
	return out.Token, nil
}

// encodeQuery puts page first and the filters after it in key order.
func encodeQuery(page int, filters map[string]string) string {
	var b strings.Builder
	if page > 0 {
		fmt.Fprintf(&b, "page=%d", page)
	}
	rest := url.Values{}
	for k, v := range filters {
		if k == "page" {
			continue
		}
		rest.Set(k, v)
	}
	if encoded := rest.Encode(); encoded != "" {
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(encoded)
	}
	return b.String()
}
