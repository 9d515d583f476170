package domain

import (
	"errors"
	"testing"
)

func TestMessageStatusCanTransitionTo(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		from MessageStatus
		to   MessageStatus
		want bool
	}{
		{name: "pending to sending", from: MessageStatusPending, to: MessageStatusSending, want: true},
		{name: "pending to sent", from: MessageStatusPending, to: MessageStatusSent, want: true},
		{name: "pending to failed", from: MessageStatusPending, to: MessageStatusFailed, want: true},
		{name: "sending to sent", from: MessageStatusSending, to: MessageStatusSent, want: true},
		{name: "sending to failed", from: MessageStatusSending, to: MessageStatusFailed, want: true},
		{name: "sent to pending rejected", from: MessageStatusSent, to: MessageStatusPending, want: false},
		{name: "failed to pending rejected", from: MessageStatusFailed, to: MessageStatusPending, want: false},
		{name: "sent to failed rejected", from: MessageStatusSent, to: MessageStatusFailed, want: false},
		{name: "sent repeated is idempotent", from: MessageStatusSent, to: MessageStatusSent, want: true},
		{name: "failed repeated is idempotent", from: MessageStatusFailed, to: MessageStatusFailed, want: true},
		{name: "sending to pending rejected", from: MessageStatusSending, to: MessageStatusPending, want: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
				t.Fatalf("CanTransitionTo(%s -> %s) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestParseMessageStatusFromString(t *testing.T) {
	t.Parallel()

	got, err := ParseMessageStatusFromString(" SENT ")
	if err != nil {
		t.Fatalf("ParseMessageStatusFromString() unexpected error = %v", err)
	}
	if got != MessageStatusSent {
		t.Fatalf("ParseMessageStatusFromString() = %s, want %s", got, MessageStatusSent)
	}

	_, err = ParseMessageStatusFromString("delivered")
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("ParseMessageStatusFromString() error = %v, want ErrValidation", err)
	}
}

func TestMessageValidate(t *testing.T) {
	t.Parallel()

	base := Message{
		ContactID: "c1",
		Body:      "hello",
		Status:    MessageStatusPending,
		Type:      MessageTypeText,
	}

	tests := []struct {
		name    string
		mutate  func(*Message)
		wantErr bool
	}{
		{name: "valid message", mutate: func(m *Message) {}},
		{
			name: "missing contact",
			mutate: func(m *Message) {
				m.ContactID = ""
			},
			wantErr: true,
		},
		{
			name: "missing body",
			mutate: func(m *Message) {
				m.Body = " "
			},
			wantErr: true,
		},
		{
			name: "invalid status",
			mutate: func(m *Message) {
				m.Status = MessageStatus("queued")
			},
			wantErr: true,
		},
		{
			name: "invalid type",
			mutate: func(m *Message) {
				m.Type = MessageType("audio")
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			current := base
			tt.mutate(&current)

			err := current.Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrValidation) {
					t.Fatalf("Validate() error = %v, want ErrValidation", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate() unexpected error = %v", err)
			}
		})
	}
}

func TestNormalizePhone(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "strips formatting", input: "+91 98765-43210", want: "919876543210"},
		{name: "ten digits get country prefix", input: "9876543210", want: "919876543210"},
		{name: "already prefixed kept", input: "919876543210", want: "919876543210"},
		{name: "letters dropped", input: "abc", want: ""},
		{name: "empty", input: "", want: ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := NormalizePhone(tt.input); got != tt.want {
				t.Fatalf("NormalizePhone(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestContactValidate(t *testing.T) {
	t.Parallel()

	valid := Contact{Name: "Asha", Phone: "919876543210"}
	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate() unexpected error = %v", err)
	}

	goodEmail := "asha@example.com"
	valid.Email = &goodEmail
	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate() with email unexpected error = %v", err)
	}

	badEmail := "not-an-email"
	valid.Email = &badEmail
	if err := valid.Validate(); !errors.Is(err, ErrValidation) {
		t.Fatalf("Validate() error = %v, want ErrValidation for bad email", err)
	}

	missingPhone := Contact{Name: "Asha"}
	if err := missingPhone.Validate(); !errors.Is(err, ErrValidation) {
		t.Fatalf("Validate() error = %v, want ErrValidation for missing phone", err)
	}
}
