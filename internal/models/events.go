package models

// EventKind tags room events fanned out by the hub.
type EventKind string

const (
	EventMessageCreated EventKind = "message_created"
	EventMessageRead    EventKind = "read_receipt"
	EventMessageEdited  EventKind = "message_edited"
	EventMessageDeleted EventKind = "message_deleted"
)

// RoomEvent is what one session publishes to every session in the same room.
// Recipients translate it into an outbound ServerFrame.
type RoomEvent struct {
	Kind       EventKind
	MessageID  int
	Message    string
	Username   string
	NewContent string
}

// Outbound frame statuses.
const (
	StatusSaved         = "saved"
	StatusDelivered     = "delivered"
	StatusRead          = "read"
	StatusSearchResults = "search_results"
	StatusEdited        = "edited"
	StatusDeleted       = "deleted"
	StatusError         = "error"
)

// ServerFrame is a server-to-client websocket frame, tagged by Status.
type ServerFrame struct {
	Status     string         `json:"status"`
	MessageID  int            `json:"message_id,omitempty"`
	Message    string         `json:"message,omitempty"`
	Username   string         `json:"username,omitempty"`
	NewContent string         `json:"new_content,omitempty"`
	Query      string         `json:"query,omitempty"`
	Results    []SearchResult `json:"results,omitempty"`
	Error      string         `json:"error,omitempty"`
}
