package stores

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/whiskr/whiskr/models"
)

// FollowStore is the persistence boundary for the social graph. The feed
// engine only reads FollowingIDs; writes come from the follow endpoints.
type FollowStore interface {
	Create(ctx context.Context, followerID, followingID uint) error
	Delete(ctx context.Context, followerID, followingID uint) error
	FollowingIDs(ctx context.Context, followerID uint) ([]uint, error)
}

type followStore struct {
	db *gorm.DB
}

// NewFollowStore creates a gorm backed FollowStore.
func NewFollowStore(db *gorm.DB) FollowStore { return &followStore{db: db} }

// Create inserts a follow edge. Re-following is not an error; the conflict
// on the pair index is swallowed.
func (s *followStore) Create(ctx context.Context, followerID, followingID uint) error {
	f := &models.Follow{FollowerID: followerID, FollowingID: followingID}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(f).Error
}

func (s *followStore) Delete(ctx context.Context, followerID, followingID uint) error {
	return s.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&models.Follow{}).Error
}

func (s *followStore) FollowingIDs(ctx context.Context, followerID uint) ([]uint, error) {
	var ids []uint
	err := s.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("follower_id = ?", followerID).
		Pluck("following_id", &ids).Error
	return ids, err
}
