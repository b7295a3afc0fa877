package services

import (
	"context"

	"github.com/whiskr/whiskr/models"
	"github.com/whiskr/whiskr/stores"
)

// FeedService assembles paginated post listings. Every listing is a single
// consistent read at call time; nothing is promised across calls.
type FeedService struct {
	posts    stores.PostStore
	likes    stores.LikeStore
	comments stores.CommentStore
	follows  stores.FollowStore
}

// NewFeedService creates a FeedService over the given stores.
func NewFeedService(posts stores.PostStore, likes stores.LikeStore, comments stores.CommentStore, follows stores.FollowStore) *FeedService {
	return &FeedService{posts: posts, likes: likes, comments: comments, follows: follows}
}

// ListAll returns one page of all posts, newest first.
func (s *FeedService) ListAll(ctx context.Context, page int) ([]models.Post, error) {
	return s.posts.FindPage(ctx, pageOffset(page), PageSize)
}

// ListByAuthor returns one page of posts owned by userID.
func (s *FeedService) ListByAuthor(ctx context.Context, userID uint, page int) ([]models.Post, error) {
	return s.posts.FindPageByOwner(ctx, userID, pageOffset(page), PageSize)
}

// ListByFollowing returns one page of posts authored by anyone the caller
// follows. A caller following nobody gets an empty page.
func (s *FeedService) ListByFollowing(ctx context.Context, callerID uint, page int) ([]models.Post, error) {
	ids, err := s.follows.FollowingIDs(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []models.Post{}, nil
	}
	return s.posts.FindPageByOwners(ctx, ids, pageOffset(page), PageSize)
}

// ListByLiked returns posts the caller has liked, newest first. A negative
// page keeps the legacy behavior of returning the whole list; clients that
// pass a page number get the standard ten-post page.
func (s *FeedService) ListByLiked(ctx context.Context, callerID uint, page int) ([]models.Post, error) {
	likes, err := s.likes.FindByUser(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if len(likes) == 0 {
		return []models.Post{}, nil
	}
	postIDs := make([]uint, 0, len(likes))
	for _, l := range likes {
		postIDs = append(postIDs, l.PostID)
	}
	if page < 0 {
		return s.posts.FindPageByIDs(ctx, postIDs, 0, -1)
	}
	return s.posts.FindPageByIDs(ctx, postIDs, pageOffset(page), PageSize)
}

// GetByID returns a single post or ErrNotFound.
func (s *FeedService) GetByID(ctx context.Context, postID uint) (*models.Post, error) {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, asNotFound(err)
	}
	return post, nil
}

// GetDetail returns a post together with its comments and like count.
func (s *FeedService) GetDetail(ctx context.Context, postID uint) (*models.Post, []models.Comment, int64, error) {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, nil, 0, asNotFound(err)
	}
	comments, err := s.comments.FindByPost(ctx, postID)
	if err != nil {
		return nil, nil, 0, err
	}
	likeCount, err := s.likes.CountByPost(ctx, postID)
	if err != nil {
		return nil, nil, 0, err
	}
	return post, comments, likeCount, nil
}
