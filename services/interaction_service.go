package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/whiskr/whiskr/models"
	"github.com/whiskr/whiskr/stores"
)

// InteractionService applies likes, comments, and post deletion under the
// ownership and consistency rules. Each operation is one atomic unit of
// work; the cascade in DeletePost and the check-then-create in Like run
// inside a single transaction.
type InteractionService struct {
	db       *gorm.DB
	posts    stores.PostStore
	likes    stores.LikeStore
	comments stores.CommentStore
	users    stores.UserStore

	// commentOwnerCheck restricts comment deletion/editing to the author.
	// Configurable because older clients depended on open moderation.
	commentOwnerCheck bool
}

// NewInteractionService creates an InteractionService. The db handle is used
// only to open transactions spanning the stores.
func NewInteractionService(db *gorm.DB, posts stores.PostStore, likes stores.LikeStore, comments stores.CommentStore, users stores.UserStore, commentOwnerCheck bool) *InteractionService {
	return &InteractionService{
		db:                db,
		posts:             posts,
		likes:             likes,
		comments:          comments,
		users:             users,
		commentOwnerCheck: commentOwnerCheck,
	}
}

// AddPost creates a post owned by the caller. The image URL comes from the
// storage collaborator; title and description arrive already sanitized.
func (s *InteractionService) AddPost(ctx context.Context, callerID uint, url, title, description string) (*models.Post, error) {
	ok, err := s.users.Exists(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}

	post := &models.Post{
		UserID:      callerID,
		URL:         url,
		Title:       title,
		Description: description,
	}
	if err := s.posts.Save(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// DeletePost removes a post together with its likes and comments. Only the
// owner may delete; the three deletions commit or roll back as one unit, and
// dependents go first so no dangling reference is ever observable.
func (s *InteractionService) DeletePost(ctx context.Context, callerID, postID uint) error {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return asNotFound(err)
	}
	if post.UserID != callerID {
		return ErrForbidden
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.likes.WithTx(tx).DeleteByPost(ctx, post.ID); err != nil {
			return err
		}
		if err := s.comments.WithTx(tx).DeleteByPost(ctx, post.ID); err != nil {
			return err
		}
		return s.posts.WithTx(tx).Delete(ctx, post)
	})
}

// Like records that the caller likes the post. Liking twice is a no-op: the
// check-then-create runs in a transaction and the unique (user, post) index
// catches the remaining race, so concurrent calls converge to one record.
func (s *InteractionService) Like(ctx context.Context, callerID, postID uint) error {
	ok, err := s.users.Exists(ctx, callerID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.posts.WithTx(tx).FindByID(ctx, postID); err != nil {
			return asNotFound(err)
		}
		likes := s.likes.WithTx(tx)
		if _, err := likes.Find(ctx, callerID, postID); err == nil {
			return nil
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := likes.Save(ctx, &models.Like{UserID: callerID, PostID: postID}); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil
			}
			return err
		}
		return nil
	})
}

// Unlike removes the caller's like on the post; removing a like that does
// not exist is not an error.
func (s *InteractionService) Unlike(ctx context.Context, callerID, postID uint) error {
	return s.likes.DeleteByUserAndPost(ctx, callerID, postID)
}

// AddComment attaches a comment by the caller to the post. The same user may
// comment on the same post any number of times.
func (s *InteractionService) AddComment(ctx context.Context, callerID, postID uint, content string) (*models.Comment, error) {
	if _, err := s.posts.FindByID(ctx, postID); err != nil {
		return nil, asNotFound(err)
	}
	comment := &models.Comment{
		PostID:  postID,
		UserID:  callerID,
		Content: content,
	}
	if err := s.comments.Save(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// RemoveComment deletes a comment by id and returns it so callers can act on
// the owning post. With the ownership policy enabled only the comment's
// author may delete it.
func (s *InteractionService) RemoveComment(ctx context.Context, callerID, commentID uint) (*models.Comment, error) {
	comment, err := s.comments.FindByID(ctx, commentID)
	if err != nil {
		return nil, asNotFound(err)
	}
	if s.commentOwnerCheck && comment.UserID != callerID {
		return nil, ErrForbidden
	}
	if err := s.comments.Delete(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// EditComment replaces a comment's content. A missing comment reports
// ErrNotFound rather than silently succeeding.
func (s *InteractionService) EditComment(ctx context.Context, callerID, commentID uint, content string) (*models.Comment, error) {
	comment, err := s.comments.FindByID(ctx, commentID)
	if err != nil {
		return nil, asNotFound(err)
	}
	if s.commentOwnerCheck && comment.UserID != callerID {
		return nil, ErrForbidden
	}
	comment.Content = content
	if err := s.comments.Save(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}
