package repositories

import (
	"context"
	"errors"
	"sort"

	"github.com/jmoiron/sqlx"

	"roomchat-service/internal/models"
)

// FriendshipRepository abstracts friendship records. Pairs are symmetric and
// stored once, with the lower user id first.
type FriendshipRepository interface {
	AddFriend(ctx context.Context, userID, friendID int) (models.Friendship, error)
	AreFriends(ctx context.Context, userID, friendID int) (bool, error)
	ListFriends(ctx context.Context, userID int) ([]models.User, error)
}

// FriendshipRepo is a sqlx-backed repository.
type FriendshipRepo struct {
	db *sqlx.DB
}

// NewFriendshipRepo constructs FriendshipRepo.
func NewFriendshipRepo(db *sqlx.DB) *FriendshipRepo {
	return &FriendshipRepo{db: db}
}

// AddFriend records a friendship between two users. Idempotent on repeated
// requests for the same pair.
func (r *FriendshipRepo) AddFriend(ctx context.Context, userID, friendID int) (models.Friendship, error) {
	if userID == friendID {
		return models.Friendship{}, errors.New("cannot befriend yourself")
	}
	pair := []int{userID, friendID}
	sort.Ints(pair)

	var friendship models.Friendship
	err := r.db.QueryRowxContext(ctx, `INSERT INTO friendships (user_id, friend_id) VALUES ($1, $2)
        ON CONFLICT (user_id, friend_id) DO UPDATE SET user_id = friendships.user_id
        RETURNING user_id, friend_id, created_at`, pair[0], pair[1]).
		Scan(&friendship.UserID, &friendship.FriendID, &friendship.CreatedAt)
	return friendship, err
}

// AreFriends reports whether a friendship exists between the two users.
func (r *FriendshipRepo) AreFriends(ctx context.Context, userID, friendID int) (bool, error) {
	pair := []int{userID, friendID}
	sort.Ints(pair)

	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM friendships WHERE user_id=$1 AND friend_id=$2)`, pair[0], pair[1])
	return exists, err
}

// ListFriends returns the users befriended with userID.
func (r *FriendshipRepo) ListFriends(ctx context.Context, userID int) ([]models.User, error) {
	q := `SELECT u.id, u.username, u.email, u.bio, u.created_at
        FROM friendships f
        JOIN users u ON u.id = CASE WHEN f.user_id=$1 THEN f.friend_id ELSE f.user_id END
        WHERE f.user_id=$1 OR f.friend_id=$1
        ORDER BY u.username ASC`
	var friends []models.User
	err := r.db.SelectContext(ctx, &friends, q, userID)
	return friends, err
}
