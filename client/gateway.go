package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultTimeout = 15 * time.Second

// Gateway wraps every outbound call to the service: it attaches the
// bearer token from the current session, tags each request with an
// X-Request-ID, decodes the response envelope, and owns the global
// session-expiry behavior. All other failures surface as typed errors
// without touching the session.
type Gateway struct {
	baseURL  string
	http     *http.Client
	sessions *SessionStore
	navigate func(route string)
	log      *zap.Logger
}

// NewGateway builds a gateway against baseURL. navigate is invoked at
// most once per expiry, with the login route; pass nil when the caller
// has no navigation surface.
func NewGateway(baseURL string, sessions *SessionStore, navigate func(route string), log *zap.Logger) *Gateway {
	if navigate == nil {
		navigate = func(string) {}
	}
	return &Gateway{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{Timeout: defaultTimeout},
		sessions: sessions,
		navigate: navigate,
		log:      log,
	}
}

// envelope mirrors the service's response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Code    string          `json:"code"`
	Data    json.RawMessage `json:"data"`
}

// do issues one request and decodes the envelope's data into out when
// out is non-nil. body is JSON-encoded when non-nil.
func (g *Gateway) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return &TransportError{Message: "encode request", Err: err}
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, reader)
	if err != nil {
		return &TransportError{Message: "build request", Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if sess := g.sessions.Current(); sess != nil {
		req.Header.Set("Authorization", "Bearer "+sess.Token)
	}

	resp, err := g.http.Do(req)
	if err != nil {
		return &TransportError{Message: fmt.Sprintf("%s %s", method, path), Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Message: "read response", Err: err}
	}

	var env envelope
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil {
			return &TransportError{Message: "malformed response", Err: err}
		}
	}

	if resp.StatusCode == http.StatusUnauthorized {
		g.expire(env.Message)
		return &AuthorizationExpiredError{Message: env.Message}
	}
	if resp.StatusCode >= 400 {
		return g.typedError(resp.StatusCode, env)
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return &TransportError{Message: "decode response data", Err: err}
		}
	}
	return nil
}

// expire tears the session down and redirects to login. Clear reports
// whether a live session was removed, so when several in-flight calls
// fail at once only the first one fires the teardown.
func (g *Gateway) expire(message string) {
	if !g.sessions.Clear() {
		return
	}
	g.log.Warn("session rejected by service, logging out", zap.String("reason", message))
	g.navigate(RouteLogin)
}

func (g *Gateway) typedError(status int, env envelope) error {
	switch env.Code {
	case "INVALID_CREDENTIALS", "ACCOUNT_INACTIVE":
		return &AuthenticationError{Message: env.Message}
	case "FORBIDDEN":
		return &AuthorizationDeniedError{Message: env.Message}
	case "VALIDATION":
		return &ValidationError{Message: env.Message}
	}
	if env.Code != "" && status < 500 {
		return &BusinessRuleError{Code: env.Code, Message: env.Message}
	}
	if status == http.StatusForbidden {
		return &AuthorizationDeniedError{Message: env.Message}
	}
	return &TransportError{Message: fmt.Sprintf("unexpected status %d: %s", status, env.Message)}
}
