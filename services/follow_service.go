package services

import (
	"context"

	"github.com/whiskr/whiskr/stores"
)

// FollowService maintains the directed follow graph consumed by the feed.
type FollowService struct {
	follows stores.FollowStore
	users   stores.UserStore
}

// NewFollowService creates a FollowService over the given stores.
func NewFollowService(follows stores.FollowStore, users stores.UserStore) *FollowService {
	return &FollowService{follows: follows, users: users}
}

// Follow adds an edge from the caller to the target. Following yourself is
// rejected; following someone twice is a no-op.
func (s *FollowService) Follow(ctx context.Context, callerID, targetID uint) error {
	if callerID == targetID {
		return ErrSelfFollow
	}
	ok, err := s.users.Exists(ctx, targetID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return s.follows.Create(ctx, callerID, targetID)
}

// Unfollow removes the edge; removing an absent edge is not an error.
func (s *FollowService) Unfollow(ctx context.Context, callerID, targetID uint) error {
	return s.follows.Delete(ctx, callerID, targetID)
}

// FollowingIDs returns the ids of every user the given user follows.
func (s *FollowService) FollowingIDs(ctx context.Context, userID uint) ([]uint, error) {
	return s.follows.FollowingIDs(ctx, userID)
}
