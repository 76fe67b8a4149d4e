package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"

	"roomchat-service/internal/models"
)

var (
	ErrMessageNotFound = errors.New("message not found")
	ErrMessageDeleted  = errors.New("message is deleted")
)

// SearchLimit caps the number of rows returned by Search.
const SearchLimit = 20

// MessageRepository abstracts message persistence. Every call is atomic at
// the single-record level; the core never needs cross-call transactions.
type MessageRepository interface {
	Create(ctx context.Context, room string, userID int, content string) (models.Message, error)
	Get(ctx context.Context, messageID int) (models.Message, error)
	MarkDelivered(ctx context.Context, messageID int) error
	MarkRead(ctx context.Context, messageID int) error
	UpdateContent(ctx context.Context, messageID int, content string) (models.Message, error)
	SoftDelete(ctx context.Context, messageID int) (models.Message, error)
	Search(ctx context.Context, room string, query string) ([]models.RoomMessage, error)
	ListRoomMessages(ctx context.Context, room string) ([]models.RoomMessage, error)
}

// MessageRepo is a sqlx-backed repository.
type MessageRepo struct {
	db *sqlx.DB
}

// NewMessageRepo constructs MessageRepo.
func NewMessageRepo(db *sqlx.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

// Create stores a new message in a room.
func (r *MessageRepo) Create(ctx context.Context, room string, userID int, content string) (models.Message, error) {
	var msg models.Message
	err := r.db.QueryRowxContext(ctx, `INSERT INTO messages (room, user_id, content) VALUES ($1, $2, $3) RETURNING id, user_id, room, content, delivered, read, deleted, created_at`, room, userID, content).
		Scan(&msg.ID, &msg.UserID, &msg.Room, &msg.Content, &msg.Delivered, &msg.Read, &msg.Deleted, &msg.CreatedAt)
	return msg, err
}

// Get retrieves a single message.
func (r *MessageRepo) Get(ctx context.Context, messageID int) (models.Message, error) {
	var msg models.Message
	err := r.db.GetContext(ctx, &msg, `SELECT id, user_id, room, content, delivered, read, deleted, created_at FROM messages WHERE id=$1`, messageID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Message{}, ErrMessageNotFound
	}
	return msg, err
}

// MarkDelivered sets delivered=true. Delivered is monotonic: repeated marks
// are no-ops, and a deleted message's flags are frozen.
func (r *MessageRepo) MarkDelivered(ctx context.Context, messageID int) error {
	return r.setFlag(ctx, `UPDATE messages SET delivered = TRUE WHERE id=$1 AND deleted = FALSE`, messageID)
}

// MarkRead sets read=true with the same monotonic semantics as MarkDelivered.
func (r *MessageRepo) MarkRead(ctx context.Context, messageID int) error {
	return r.setFlag(ctx, `UPDATE messages SET read = TRUE WHERE id=$1 AND deleted = FALSE`, messageID)
}

func (r *MessageRepo) setFlag(ctx context.Context, query string, messageID int) error {
	res, err := r.db.ExecContext(ctx, query, messageID)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return r.missingReason(ctx, messageID)
	}
	return nil
}

// UpdateContent replaces a message's content. Editing a deleted message is
// rejected so the tombstone persists.
func (r *MessageRepo) UpdateContent(ctx context.Context, messageID int, content string) (models.Message, error) {
	var msg models.Message
	err := r.db.QueryRowxContext(ctx, `UPDATE messages SET content=$2 WHERE id=$1 AND deleted = FALSE RETURNING id, user_id, room, content, delivered, read, deleted, created_at`, messageID, content).
		Scan(&msg.ID, &msg.UserID, &msg.Room, &msg.Content, &msg.Delivered, &msg.Read, &msg.Deleted, &msg.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Message{}, r.missingReason(ctx, messageID)
	}
	return msg, err
}

// SoftDelete marks a message deleted and swaps its content for the tombstone.
// Idempotent on an already deleted message.
func (r *MessageRepo) SoftDelete(ctx context.Context, messageID int) (models.Message, error) {
	var msg models.Message
	err := r.db.QueryRowxContext(ctx, `UPDATE messages SET deleted = TRUE, content=$2 WHERE id=$1 RETURNING id, user_id, room, content, delivered, read, deleted, created_at`, messageID, models.Tombstone).
		Scan(&msg.ID, &msg.UserID, &msg.Room, &msg.Content, &msg.Delivered, &msg.Read, &msg.Deleted, &msg.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Message{}, ErrMessageNotFound
	}
	return msg, err
}

// likeEscaper neutralizes LIKE metacharacters so a search query matches
// literally. `\` must be doubled first.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike prepares a user query for use inside a LIKE pattern.
func escapeLike(query string) string {
	return likeEscaper.Replace(query)
}

// Search returns up to SearchLimit messages in the room whose content
// contains query case-insensitively, newest first. The query is matched
// literally; LIKE wildcards in it carry no meaning.
func (r *MessageRepo) Search(ctx context.Context, room string, query string) ([]models.RoomMessage, error) {
	q := `SELECT m.id, m.user_id, m.room, m.content, m.delivered, m.read, m.deleted, m.created_at, u.username
        FROM messages m
        JOIN users u ON u.id = m.user_id
        WHERE m.room=$1 AND m.content ILIKE '%' || $2 || '%' ESCAPE '\'
        ORDER BY m.created_at DESC, m.id DESC
        LIMIT $3`
	var msgs []models.RoomMessage
	err := r.db.SelectContext(ctx, &msgs, q, room, escapeLike(query), SearchLimit)
	return msgs, err
}

// ListRoomMessages returns the full room history, oldest first. Tombstones
// are included.
func (r *MessageRepo) ListRoomMessages(ctx context.Context, room string) ([]models.RoomMessage, error) {
	q := `SELECT m.id, m.user_id, m.room, m.content, m.delivered, m.read, m.deleted, m.created_at, u.username
        FROM messages m
        JOIN users u ON u.id = m.user_id
        WHERE m.room=$1
        ORDER BY m.created_at ASC, m.id ASC`
	var msgs []models.RoomMessage
	err := r.db.SelectContext(ctx, &msgs, q, room)
	return msgs, err
}

// missingReason distinguishes a nonexistent message from a deleted one.
func (r *MessageRepo) missingReason(ctx context.Context, messageID int) error {
	var deleted bool
	err := r.db.GetContext(ctx, &deleted, `SELECT deleted FROM messages WHERE id=$1`, messageID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrMessageNotFound
	}
	if err != nil {
		return err
	}
	if deleted {
		return ErrMessageDeleted
	}
	return ErrMessageNotFound
}
