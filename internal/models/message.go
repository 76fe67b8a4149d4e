package models

import "time"

// Tombstone replaces the content of a deleted message. Deleted messages are
// never physically removed.
const Tombstone = "[deleted]"

// SearchTimeFormat is the timestamp layout used in search results.
const SearchTimeFormat = "2006-01-02 15:04:05"

// Message represents a chat message in a room.
type Message struct {
	ID        int       `db:"id" json:"id"`
	UserID    int       `db:"user_id" json:"user_id"`
	Room      string    `db:"room" json:"room"`
	Content   string    `db:"content" json:"content"`
	Delivered bool      `db:"delivered" json:"delivered"`
	Read      bool      `db:"read" json:"read"`
	Deleted   bool      `db:"deleted" json:"deleted"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// RoomMessage is a message joined with its sender's username, as returned by
// history and search queries.
type RoomMessage struct {
	Message
	Username string `db:"username" json:"username"`
}

// SearchResult is a single search hit in the shape sent over the wire.
type SearchResult struct {
	ID        int    `json:"id"`
	Username  string `json:"username"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
	Delivered bool   `json:"delivered"`
	Read      bool   `json:"read"`
}
