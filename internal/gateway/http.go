package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	// TextSendTimeout bounds text-only gateway calls.
	TextSendTimeout = 10 * time.Second
	// MediaSendTimeout bounds gateway calls carrying a media payload, which
	// pay for base64 encoding and upload inside the companion service.
	MediaSendTimeout = 60 * time.Second

	sendPath = "/send"
)

type sendRequestBody struct {
	To      string `json:"to"`
	Message string `json:"message"`
}

type sendResponseBody struct {
	Success   bool   `json:"success"`
	MessageID string `json:"messageId"`
	Error     string `json:"error"`
}

// HTTPGateway delivers messages through the companion send service over HTTP.
// Text-only sends go as JSON, media sends as multipart/form-data with a
// "media" part. The gateway never retries.
type HTTPGateway struct {
	client       *resty.Client
	baseURL      string
	textTimeout  time.Duration
	mediaTimeout time.Duration
}

func NewHTTPGateway(baseURL string) (*HTTPGateway, error) {
	client := resty.New()
	client.SetRetryCount(0)
	return NewHTTPGatewayWithClient(baseURL, client)
}

func NewHTTPGatewayWithClient(baseURL string, client *resty.Client) (*HTTPGateway, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, fmt.Errorf("gateway base url is required")
	}
	if _, err := url.ParseRequestURI(trimmed); err != nil {
		return nil, fmt.Errorf("invalid gateway base url: %w", err)
	}
	if client == nil {
		return nil, fmt.Errorf("resty client is required")
	}
	client.SetRetryCount(0)

	return &HTTPGateway{
		client:       client,
		baseURL:      trimmed,
		textTimeout:  TextSendTimeout,
		mediaTimeout: MediaSendTimeout,
	}, nil
}

func (g *HTTPGateway) Send(ctx context.Context, req SendRequest) (*SendResponse, error) {
	if g == nil || g.client == nil {
		return nil, fmt.Errorf("gateway is not initialized")
	}
	if strings.TrimSpace(req.To) == "" {
		return nil, fmt.Errorf("destination is required")
	}
	if strings.TrimSpace(req.Body) == "" && req.Media == nil {
		return nil, fmt.Errorf("message body or media is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	timeout := g.textTimeout
	if req.Media != nil {
		timeout = g.mediaTimeout
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	r := g.client.R().SetContext(callCtx)
	if req.Media != nil {
		r.SetFileReader("media", req.Media.FileName, bytes.NewReader(req.Media.Data))
		r.SetMultipartFormData(map[string]string{
			"to":      req.To,
			"message": req.Body,
		})
	} else {
		r.SetHeader("Content-Type", "application/json")
		r.SetBody(sendRequestBody{To: req.To, Message: req.Body})
	}

	response, err := r.Post(g.baseURL + sendPath)
	if err != nil {
		return nil, &GatewayError{
			Message:   "gateway request failed",
			Transient: !errors.Is(err, context.Canceled),
			Cause:     err,
		}
	}
	if response == nil {
		return nil, &GatewayError{
			Message:   "gateway returned empty response",
			Transient: true,
		}
	}

	statusCode := response.StatusCode()
	responseBody := strings.TrimSpace(response.String())

	if statusCode >= http.StatusOK && statusCode < http.StatusMultipleChoices {
		return &SendResponse{
			StatusCode: statusCode,
			Body:       responseBody,
			MessageID:  parseMessageID(responseBody),
		}, nil
	}

	return nil, &GatewayError{
		StatusCode: statusCode,
		Message:    gatewayErrorMessage(statusCode, responseBody),
		Transient:  isTransientHTTPStatus(statusCode),
	}
}

func isTransientHTTPStatus(statusCode int) bool {
	return statusCode == http.StatusTooManyRequests || (statusCode >= http.StatusInternalServerError && statusCode <= 599)
}

func gatewayErrorMessage(statusCode int, body string) string {
	base := fmt.Sprintf("gateway returned status %d", statusCode)
	msg := body
	var parsed sendResponseBody
	if err := json.Unmarshal([]byte(body), &parsed); err == nil && strings.TrimSpace(parsed.Error) != "" {
		msg = parsed.Error
	}
	if msg == "" {
		return base
	}
	return fmt.Sprintf("%s: %s", base, msg)
}

func parseMessageID(body string) string {
	var parsed sendResponseBody
	if err := json.Unmarshal([]byte(body), &parsed); err != nil {
		return ""
	}
	return strings.TrimSpace(parsed.MessageID)
}
