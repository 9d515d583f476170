package domain

import "time"

// SettingKeySendingDelay is the UI polling delay (seconds) between batch calls.
const SettingKeySendingDelay = "sending_delay"

// DefaultSendingDelay is applied when no sending_delay row exists.
const DefaultSendingDelay = "5"

// Setting is one key/value configuration row.
type Setting struct {
	Key       string
	Value     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
