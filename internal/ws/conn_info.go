package ws

import "time"

// ConnInfo carries per-connection metadata for metrics and event publishing.
type ConnInfo struct {
	ConnID      string
	UserID      int
	Username    string
	Anonymous   bool
	DeviceID    string
	IP          string
	RequestID   string
	TraceID     string
	ConnectedAt time.Time
}
