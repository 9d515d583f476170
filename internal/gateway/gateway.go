package gateway

import "context"

// Media is an attachment carried alongside a send.
type Media struct {
	FileName string
	MimeType string
	Data     []byte
}

// SendRequest is one outbound delivery handed to the send gateway. To is a
// normalized digit string; Media is nil for text-only sends.
type SendRequest struct {
	To    string
	Body  string
	Media *Media
}

// SendResponse stores gateway call metadata for persistence.
type SendResponse struct {
	StatusCode int
	Body       string
	MessageID  string
}

// Client is the outbound delivery port. Implementations never retry; retry
// policy lives with the caller.
type Client interface {
	Send(ctx context.Context, req SendRequest) (*SendResponse, error)
}
