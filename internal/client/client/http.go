package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/feedbackhub/internal/client/models"
	"github.com/dmitrijs2005/feedbackhub/internal/common"
)

// maxErrorBody bounds how much of a non-JSON error body is echoed back.
const maxErrorBody = 512

// HTTPClient implements Client over the backend's JSON HTTP API.
type HTTPClient struct {
	baseURL *url.URL
	http    *http.Client
	timeout time.Duration
	token   func() string
}

// Option configures an HTTPClient.
type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) { c.http = hc }
}

// WithTimeout sets a per-request timeout. Zero means none. The timeout is
// applied to a copy of the underlying *http.Client, never to a shared one.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) { c.timeout = d }
}

// NewHTTPClient creates a client for the API rooted at baseURL.
func NewHTTPClient(baseURL string, opts ...Option) (*HTTPClient, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("server url %q: scheme must be http or https", baseURL)
	}

	c := &HTTPClient{baseURL: u, http: &http.Client{}, token: func() string { return "" }}
	for _, o := range opts {
		o(c)
	}
	if c.timeout > 0 {
		hc := *c.http
		hc.Timeout = c.timeout
		c.http = &hc
	}
	return c, nil
}

// SetTokenSource installs the function consulted for the bearer token on
// every authenticated call.
func (c *HTTPClient) SetTokenSource(fn func() string) {
	if fn == nil {
		fn = func() string { return "" }
	}
	c.token = fn
}

type authRequest struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

type errorBody struct {
	Message           string `json:"message"`
	Error             string `json:"error"`
	EditWindowExpired bool   `json:"editWindowExpired"`
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	return c.auth(ctx, "/login", authRequest{Email: email, Password: password})
}

func (c *HTTPClient) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	return c.auth(ctx, "/register", authRequest{Name: name, Email: email, Password: password})
}

func (c *HTTPClient) auth(ctx context.Context, path string, body authRequest) (*AuthResult, error) {
	var out authResponse
	hdr, err := c.do(ctx, http.MethodPost, path, body, &out, false)
	if err != nil {
		return nil, err
	}
	if out.Token == "" {
		return nil, fmt.Errorf("%s: empty token in response", path)
	}
	out.User.Role = models.ParseRole(string(out.User.Role))

	res := &AuthResult{Token: out.Token, User: out.User}
	if d := hdr.Get("Date"); d != "" {
		if ts, perr := http.ParseTime(d); perr == nil {
			res.ServerTime = ts
		}
	}
	return res, nil
}

func (c *HTTPClient) ListFeedback(ctx context.Context) ([]models.FeedbackRecord, error) {
	var out []models.FeedbackRecord
	if _, err := c.do(ctx, http.MethodGet, "/feedback", nil, &out, true); err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.FeedbackRecord{}
	}
	return out, nil
}

func (c *HTTPClient) CreateFeedback(ctx context.Context, in models.FeedbackInput) (*models.FeedbackRecord, error) {
	var out models.FeedbackRecord
	if _, err := c.do(ctx, http.MethodPost, "/feedback", in, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) UpdateFeedback(ctx context.Context, id string, in models.FeedbackInput) (*models.FeedbackRecord, error) {
	var out models.FeedbackRecord
	if _, err := c.do(ctx, http.MethodPut, "/feedback/"+url.PathEscape(id), in, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) DeleteFeedback(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/feedback/"+url.PathEscape(id), nil, nil, true)
	return err
}

func (c *HTTPClient) do(ctx context.Context, method, path string, in, out any, authenticated bool) (http.Header, error) {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", common.ContentTypeJSON)
	}
	req.Header.Set("Accept", common.ContentTypeJSON)
	req.Header.Set(common.RequestIDHeaderName, uuid.NewString())
	if authenticated {
		if tok := c.token(); tok != "" {
			req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+tok)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %s %s: %v", ErrUnavailable, method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.Header, decodeError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return resp.Header, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return resp.Header, fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return resp.Header, nil
}

func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	apiErr := &APIError{Status: resp.StatusCode}

	var eb errorBody
	if json.Unmarshal(raw, &eb) == nil {
		apiErr.Message = eb.Message
		if apiErr.Message == "" {
			apiErr.Message = eb.Error
		}
		apiErr.EditWindowExpired = eb.EditWindowExpired
	} else if text := strings.TrimSpace(string(raw)); text != "" {
		text = truncate(text, maxErrorBody)
		apiErr.Message = text
	}

	return apiErr
}

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
