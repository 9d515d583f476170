package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"
)

func TestHTTPGatewaySendTextSuccess(t *testing.T) {
	t.Parallel()

	var gotBody sendRequestBody

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if r.URL.Path != "/send" {
			t.Errorf("path = %s, want /send", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); !strings.Contains(ct, "application/json") {
			t.Errorf("content type = %s, want application/json", ct)
		}

		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("failed to decode request body: %v", err)
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"success":true,"messageId":"wamid-1"}`))
	}))
	defer server.Close()

	g, err := NewHTTPGateway(server.URL)
	if err != nil {
		t.Fatalf("NewHTTPGateway() error = %v", err)
	}

	resp, err := g.Send(context.Background(), SendRequest{
		To:   "919876543210",
		Body: "Hi Asha, offer!",
	})
	if err != nil {
		t.Fatalf("Send() unexpected error: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("StatusCode = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	if resp.MessageID != "wamid-1" {
		t.Fatalf("MessageID = %q, want %q", resp.MessageID, "wamid-1")
	}
	if gotBody.To != "919876543210" {
		t.Fatalf("request.to = %q, want %q", gotBody.To, "919876543210")
	}
	if gotBody.Message != "Hi Asha, offer!" {
		t.Fatalf("request.message = %q, want %q", gotBody.Message, "Hi Asha, offer!")
	}
}

func TestHTTPGatewaySendMediaMultipart(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); !strings.Contains(ct, "multipart/form-data") {
			t.Errorf("content type = %s, want multipart/form-data", ct)
		}

		if err := r.ParseMultipartForm(32 << 20); err != nil {
			t.Fatalf("failed to parse multipart form: %v", err)
		}
		if got := r.FormValue("to"); got != "919876543210" {
			t.Errorf("form to = %q, want 919876543210", got)
		}
		if got := r.FormValue("message"); got != "see attached" {
			t.Errorf("form message = %q, want see attached", got)
		}

		file, header, err := r.FormFile("media")
		if err != nil {
			t.Fatalf("missing media part: %v", err)
		}
		defer file.Close()
		if header.Filename != "offer.jpg" {
			t.Errorf("media filename = %q, want offer.jpg", header.Filename)
		}
		data, err := io.ReadAll(file)
		if err != nil {
			t.Fatalf("failed to read media part: %v", err)
		}
		if string(data) != "jpeg-bytes" {
			t.Errorf("media payload = %q, want jpeg-bytes", string(data))
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"success":true,"messageId":"wamid-media"}`))
	}))
	defer server.Close()

	g, err := NewHTTPGateway(server.URL)
	if err != nil {
		t.Fatalf("NewHTTPGateway() error = %v", err)
	}

	resp, err := g.Send(context.Background(), SendRequest{
		To:   "919876543210",
		Body: "see attached",
		Media: &Media{
			FileName: "offer.jpg",
			MimeType: "image/jpeg",
			Data:     []byte("jpeg-bytes"),
		},
	})
	if err != nil {
		t.Fatalf("Send() unexpected error: %v", err)
	}
	if resp.MessageID != "wamid-media" {
		t.Fatalf("MessageID = %q, want wamid-media", resp.MessageID)
	}
}

func TestHTTPGatewaySendStatusClassification(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name          string
		statusCode    int
		wantTransient bool
	}{
		{name: "client not connected is permanent", statusCode: http.StatusBadRequest, wantTransient: false},
		{name: "too many requests is transient", statusCode: http.StatusTooManyRequests, wantTransient: true},
		{name: "internal error is transient", statusCode: http.StatusInternalServerError, wantTransient: true},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.statusCode)
				_, _ = w.Write([]byte(`{"error":"send rejected"}`))
			}))
			defer server.Close()

			g, err := NewHTTPGateway(server.URL)
			if err != nil {
				t.Fatalf("NewHTTPGateway() error = %v", err)
			}

			_, err = g.Send(context.Background(), SendRequest{To: "919876543210", Body: "hello"})
			if err == nil {
				t.Fatal("expected error")
			}

			if got := IsTransient(err); got != tc.wantTransient {
				t.Fatalf("IsTransient() = %v, want %v", got, tc.wantTransient)
			}
			if !IsRejected(err) {
				t.Fatalf("IsRejected() = false, want true for status %d", tc.statusCode)
			}

			var gwErr *GatewayError
			if !errors.As(err, &gwErr) {
				t.Fatalf("expected GatewayError, got %T", err)
			}
			if gwErr.StatusCode != tc.statusCode {
				t.Fatalf("GatewayError.StatusCode = %d, want %d", gwErr.StatusCode, tc.statusCode)
			}
			if !strings.Contains(gwErr.Message, "send rejected") {
				t.Fatalf("GatewayError.Message = %q, want embedded gateway error text", gwErr.Message)
			}
		})
	}
}

func TestHTTPGatewaySendTimeoutIsTransientNotRejected(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer server.Close()

	g, err := NewHTTPGatewayWithClient(server.URL, resty.New())
	if err != nil {
		t.Fatalf("NewHTTPGatewayWithClient() error = %v", err)
	}
	g.textTimeout = 30 * time.Millisecond

	_, err = g.Send(context.Background(), SendRequest{To: "919876543210", Body: "hello"})
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !IsTransient(err) {
		t.Fatalf("IsTransient() = false, want true (err=%v)", err)
	}
	if IsRejected(err) {
		t.Fatalf("IsRejected() = true, want false for transport failure (err=%v)", err)
	}
}

func TestHTTPGatewaySendValidation(t *testing.T) {
	t.Parallel()

	g, err := NewHTTPGateway("http://localhost:3001")
	if err != nil {
		t.Fatalf("NewHTTPGateway() error = %v", err)
	}

	if _, err := g.Send(context.Background(), SendRequest{Body: "hello"}); err == nil {
		t.Fatal("expected error for missing destination")
	}
	if _, err := g.Send(context.Background(), SendRequest{To: "919876543210"}); err == nil {
		t.Fatal("expected error for empty body without media")
	}
}

func TestNewHTTPGatewayRejectsBadURL(t *testing.T) {
	t.Parallel()

	if _, err := NewHTTPGateway(""); err == nil {
		t.Fatal("expected error for empty base url")
	}
	if _, err := NewHTTPGateway("::not-a-url"); err == nil {
		t.Fatal("expected error for malformed base url")
	}
}
