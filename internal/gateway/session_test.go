package gateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestSessionManagerStatusRefreshesState(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/status" {
			t.Errorf("path = %s, want /status", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"connected","user":"919876543210"}`))
	}))
	defer server.Close()

	m, err := NewSessionManager(server.URL, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSessionManager() error = %v", err)
	}

	status, err := m.Status(context.Background())
	if err != nil {
		t.Fatalf("Status() error = %v", err)
	}
	if status.State != SessionConnected {
		t.Fatalf("State = %s, want %s", status.State, SessionConnected)
	}
	if status.User != "919876543210" {
		t.Fatalf("User = %q, want 919876543210", status.User)
	}
	if m.State() != SessionConnected {
		t.Fatalf("cached State() = %s, want %s", m.State(), SessionConnected)
	}
}

func TestSessionManagerInitializeCoalescesConcurrentCalls(t *testing.T) {
	t.Parallel()

	var initCalls atomic.Int32
	release := make(chan struct{})

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		initCalls.Add(1)
		<-release
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"message":"initializing"}`))
	}))
	defer server.Close()

	m, err := NewSessionManager(server.URL, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSessionManager() error = %v", err)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if _, err := m.Initialize(context.Background()); err != nil {
			t.Errorf("Initialize() error = %v", err)
		}
	}()

	// Wait for the first call to reach the companion service, then issue a
	// duplicate while it is still in flight.
	deadline := time.Now().Add(time.Second)
	for initCalls.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if initCalls.Load() == 0 {
		close(release)
		t.Fatal("first initialize call never reached the server")
	}

	state, err := m.Initialize(context.Background())
	if err != nil {
		t.Fatalf("duplicate Initialize() error = %v", err)
	}
	if state != SessionInitializing {
		t.Fatalf("duplicate Initialize() state = %s, want %s", state, SessionInitializing)
	}

	close(release)
	wg.Wait()

	if got := initCalls.Load(); got != 1 {
		t.Fatalf("gateway initialize calls = %d, want 1", got)
	}
}

func TestSessionManagerDisconnectResetsState(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"message":"ok"}`))
	}))
	defer server.Close()

	m, err := NewSessionManager(server.URL, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSessionManager() error = %v", err)
	}
	m.setState(SessionConnected)

	if err := m.Disconnect(context.Background()); err != nil {
		t.Fatalf("Disconnect() error = %v", err)
	}
	if m.State() != SessionDisconnected {
		t.Fatalf("State() = %s, want %s", m.State(), SessionDisconnected)
	}
}
