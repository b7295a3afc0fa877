package models

import "time"

// Like marks that a user liked a post. The composite unique index backs the
// at-most-one-like-per-(user, post) invariant at the storage layer.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null;uniqueIndex:idx_like_user_post" json:"user_id"`
	PostID    uint      `gorm:"index;not null;uniqueIndex:idx_like_user_post" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}
