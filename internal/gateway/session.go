package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// SessionState mirrors the companion service's connection lifecycle.
type SessionState string

const (
	SessionDisconnected  SessionState = "disconnected"
	SessionInitializing  SessionState = "initializing"
	SessionQRReady       SessionState = "qr_ready"
	SessionAuthenticated SessionState = "authenticated"
	SessionConnected     SessionState = "connected"
	SessionAuthFailed    SessionState = "auth_failed"
)

func (s SessionState) String() string { return string(s) }

const sessionCallTimeout = 15 * time.Second

// SessionStatus is the companion service's reported session snapshot.
type SessionStatus struct {
	State  SessionState `json:"status"`
	QRCode string       `json:"qrCode,omitempty"`
	User   string       `json:"user,omitempty"`
}

// SessionManager proxies session control calls to the companion service. A
// single mutex owns the local state word, so concurrent initialize requests
// coalesce instead of racing the companion service into a double init.
type SessionManager struct {
	client  *resty.Client
	baseURL string
	logger  *zap.Logger

	mu    sync.Mutex
	state SessionState
}

func NewSessionManager(baseURL string, logger *zap.Logger) (*SessionManager, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, fmt.Errorf("gateway base url is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	client := resty.New()
	client.SetTimeout(sessionCallTimeout)
	client.SetRetryCount(0)

	return &SessionManager{
		client:  client,
		baseURL: trimmed,
		logger:  logger,
		state:   SessionDisconnected,
	}, nil
}

// State returns the last session state observed locally.
func (m *SessionManager) State() SessionState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Status fetches the live status from the companion service and refreshes the
// local state.
func (m *SessionManager) Status(ctx context.Context) (*SessionStatus, error) {
	response, err := m.client.R().SetContext(ctx).Get(m.baseURL + "/status")
	if err != nil {
		return nil, &GatewayError{Message: "session status request failed", Transient: true, Cause: err}
	}
	if response.StatusCode() != http.StatusOK {
		return nil, &GatewayError{
			StatusCode: response.StatusCode(),
			Message:    "session status request rejected",
			Transient:  isTransientHTTPStatus(response.StatusCode()),
		}
	}

	var status SessionStatus
	if err := json.Unmarshal(response.Body(), &status); err != nil {
		return nil, fmt.Errorf("failed to decode session status: %w", err)
	}

	m.setState(status.State)
	return &status, nil
}

// Initialize asks the companion service to start a session. While one
// initialize is in flight, further calls return immediately with the current
// state instead of issuing a duplicate request.
func (m *SessionManager) Initialize(ctx context.Context) (SessionState, error) {
	m.mu.Lock()
	if m.state == SessionInitializing {
		state := m.state
		m.mu.Unlock()
		m.logger.Info("session initialize already in flight, coalescing")
		return state, nil
	}
	m.state = SessionInitializing
	m.mu.Unlock()

	response, err := m.client.R().SetContext(ctx).Post(m.baseURL + "/initialize")
	if err != nil {
		m.setState(SessionDisconnected)
		return SessionDisconnected, &GatewayError{Message: "session initialize failed", Transient: true, Cause: err}
	}
	if response.StatusCode() >= http.StatusMultipleChoices {
		m.setState(SessionDisconnected)
		return SessionDisconnected, &GatewayError{
			StatusCode: response.StatusCode(),
			Message:    "session initialize rejected",
			Transient:  isTransientHTTPStatus(response.StatusCode()),
		}
	}

	return m.State(), nil
}

// Disconnect tears the companion session down.
func (m *SessionManager) Disconnect(ctx context.Context) error {
	return m.post(ctx, "/disconnect")
}

// Reset wipes the stored companion session so the next initialize starts a
// fresh QR pairing.
func (m *SessionManager) Reset(ctx context.Context) error {
	return m.post(ctx, "/reset-session")
}

func (m *SessionManager) post(ctx context.Context, path string) error {
	response, err := m.client.R().SetContext(ctx).Post(m.baseURL + path)
	if err != nil {
		return &GatewayError{Message: fmt.Sprintf("session %s failed", strings.TrimPrefix(path, "/")), Transient: true, Cause: err}
	}
	if response.StatusCode() >= http.StatusMultipleChoices {
		return &GatewayError{
			StatusCode: response.StatusCode(),
			Message:    fmt.Sprintf("session %s rejected", strings.TrimPrefix(path, "/")),
			Transient:  isTransientHTTPStatus(response.StatusCode()),
		}
	}

	m.setState(SessionDisconnected)
	return nil
}

func (m *SessionManager) setState(state SessionState) {
	if state == "" {
		return
	}
	m.mu.Lock()
	m.state = state
	m.mu.Unlock()
}
