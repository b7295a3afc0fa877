package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/whiskr/whiskr/models"
	"github.com/whiskr/whiskr/stores"
)

func newInteractionService(db *gorm.DB, ownerCheck bool) *InteractionService {
	return NewInteractionService(
		db,
		stores.NewPostStore(db),
		stores.NewLikeStore(db),
		stores.NewCommentStore(db),
		stores.NewUserStore(db),
		ownerCheck,
	)
}

func TestAddPost(t *testing.T) {
	db := newTestDB(t)
	svc := newInteractionService(db, true)
	ctx := context.Background()

	owner := seedUser(t, db, "owner")

	post, err := svc.AddPost(ctx, owner.ID, "/static/uploads/cat.jpg", "my cat", "sleeping")
	require.NoError(t, err)
	require.NotZero(t, post.ID)
	require.Equal(t, owner.ID, post.UserID)

	_, err = svc.AddPost(ctx, owner.ID+999, "/static/uploads/x.jpg", "ghost", "")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestLikeIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := newInteractionService(db, true)
	ctx := context.Background()

	owner := seedUser(t, db, "owner")
	fan := seedUser(t, db, "fan")
	post := seedPost(t, db, owner.ID, "likable")

	require.NoError(t, svc.Like(ctx, fan.ID, post.ID))
	require.NoError(t, svc.Like(ctx, fan.ID, post.ID))

	var cnt int64
	require.NoError(t, db.Model(&models.Like{}).Where("post_id = ?", post.ID).Count(&cnt).Error)
	require.EqualValues(t, 1, cnt)

	require.NoError(t, svc.Unlike(ctx, fan.ID, post.ID))
	require.NoError(t, db.Model(&models.Like{}).Where("post_id = ?", post.ID).Count(&cnt).Error)
	require.EqualValues(t, 0, cnt)

	// Removing an absent like stays quiet.
	require.NoError(t, svc.Unlike(ctx, fan.ID, post.ID))
}

func TestLikeMissingTargets(t *testing.T) {
	db := newTestDB(t)
	svc := newInteractionService(db, true)
	ctx := context.Background()

	owner := seedUser(t, db, "owner")
	post := seedPost(t, db, owner.ID, "orphan")

	require.ErrorIs(t, svc.Like(ctx, owner.ID+999, post.ID), ErrNotFound)
	require.ErrorIs(t, svc.Like(ctx, owner.ID, post.ID+999), ErrNotFound)
}

func TestDeletePostCascade(t *testing.T) {
	db := newTestDB(t)
	svc := newInteractionService(db, true)
	ctx := context.Background()

	owner := seedUser(t, db, "owner")
	fan := seedUser(t, db, "fan")
	post := seedPost(t, db, owner.ID, "doomed")
	keeper := seedPost(t, db, owner.ID, "keeper")

	require.NoError(t, svc.Like(ctx, fan.ID, post.ID))
	require.NoError(t, svc.Like(ctx, owner.ID, post.ID))
	require.NoError(t, svc.Like(ctx, fan.ID, keeper.ID))
	_, err := svc.AddComment(ctx, fan.ID, post.ID, "nice")
	require.NoError(t, err)
	_, err = svc.AddComment(ctx, fan.ID, keeper.ID, "also nice")
	require.NoError(t, err)

	require.NoError(t, svc.DeletePost(ctx, owner.ID, post.ID))

	var cnt int64
	require.NoError(t, db.Model(&models.Post{}).Where("id = ?", post.ID).Count(&cnt).Error)
	require.EqualValues(t, 0, cnt)
	require.NoError(t, db.Model(&models.Like{}).Where("post_id = ?", post.ID).Count(&cnt).Error)
	require.EqualValues(t, 0, cnt)
	require.NoError(t, db.Model(&models.Comment{}).Where("post_id = ?", post.ID).Count(&cnt).Error)
	require.EqualValues(t, 0, cnt)

	// The cascade is scoped to one post.
	require.NoError(t, db.Model(&models.Like{}).Where("post_id = ?", keeper.ID).Count(&cnt).Error)
	require.EqualValues(t, 1, cnt)
	require.NoError(t, db.Model(&models.Comment{}).Where("post_id = ?", keeper.ID).Count(&cnt).Error)
	require.EqualValues(t, 1, cnt)
}

func TestDeletePostForbidden(t *testing.T) {
	db := newTestDB(t)
	svc := newInteractionService(db, true)
	ctx := context.Background()

	owner := seedUser(t, db, "owner")
	intruder := seedUser(t, db, "intruder")
	post := seedPost(t, db, owner.ID, "protected")

	require.NoError(t, svc.Like(ctx, intruder.ID, post.ID))
	_, err := svc.AddComment(ctx, intruder.ID, post.ID, "mine now")
	require.NoError(t, err)

	require.ErrorIs(t, svc.DeletePost(ctx, intruder.ID, post.ID), ErrForbidden)

	// Nothing was touched by the rejected attempt.
	var cnt int64
	require.NoError(t, db.Model(&models.Post{}).Where("id = ?", post.ID).Count(&cnt).Error)
	require.EqualValues(t, 1, cnt)
	require.NoError(t, db.Model(&models.Like{}).Where("post_id = ?", post.ID).Count(&cnt).Error)
	require.EqualValues(t, 1, cnt)
	require.NoError(t, db.Model(&models.Comment{}).Where("post_id = ?", post.ID).Count(&cnt).Error)
	require.EqualValues(t, 1, cnt)
}

func TestDeletePostNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := newInteractionService(db, true)

	owner := seedUser(t, db, "owner")
	require.ErrorIs(t, svc.DeletePost(context.Background(), owner.ID, 12345), ErrNotFound)
}

func TestAddCommentMissingPost(t *testing.T) {
	db := newTestDB(t)
	svc := newInteractionService(db, true)

	user := seedUser(t, db, "chatty")
	_, err := svc.AddComment(context.Background(), user.ID, 999, "into the void")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCommentOwnershipEnforced(t *testing.T) {
	db := newTestDB(t)
	svc := newInteractionService(db, true)
	ctx := context.Background()

	owner := seedUser(t, db, "owner")
	author := seedUser(t, db, "author")
	other := seedUser(t, db, "other")
	post := seedPost(t, db, owner.ID, "discussed")

	comment, err := svc.AddComment(ctx, author.ID, post.ID, "original")
	require.NoError(t, err)

	_, err = svc.EditComment(ctx, other.ID, comment.ID, "hijacked")
	require.ErrorIs(t, err, ErrForbidden)
	_, err = svc.RemoveComment(ctx, other.ID, comment.ID)
	require.ErrorIs(t, err, ErrForbidden)

	edited, err := svc.EditComment(ctx, author.ID, comment.ID, "revised")
	require.NoError(t, err)
	require.Equal(t, "revised", edited.Content)

	removed, err := svc.RemoveComment(ctx, author.ID, comment.ID)
	require.NoError(t, err)
	require.Equal(t, post.ID, removed.PostID)
	_, err = svc.RemoveComment(ctx, author.ID, comment.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCommentOwnershipDisabled(t *testing.T) {
	db := newTestDB(t)
	svc := newInteractionService(db, false)
	ctx := context.Background()

	owner := seedUser(t, db, "owner")
	author := seedUser(t, db, "author")
	moderator := seedUser(t, db, "moderator")
	post := seedPost(t, db, owner.ID, "open")

	comment, err := svc.AddComment(ctx, author.ID, post.ID, "original")
	require.NoError(t, err)

	edited, err := svc.EditComment(ctx, moderator.ID, comment.ID, "moderated")
	require.NoError(t, err)
	require.Equal(t, "moderated", edited.Content)

	removed, err := svc.RemoveComment(ctx, moderator.ID, comment.ID)
	require.NoError(t, err)
	require.Equal(t, post.ID, removed.PostID)
}

func TestEditCommentMissing(t *testing.T) {
	db := newTestDB(t)
	svc := newInteractionService(db, true)

	user := seedUser(t, db, "editor")
	_, err := svc.EditComment(context.Background(), user.ID, 777, "nothing there")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestPostLifecycle(t *testing.T) {
	db := newTestDB(t)
	interactions := newInteractionService(db, true)
	feed := newFeedService(db)
	ctx := context.Background()

	owner := seedUser(t, db, "owner")
	fan := seedUser(t, db, "fan")

	post, err := interactions.AddPost(ctx, owner.ID, "/static/uploads/life.jpg", "lifecycle", "")
	require.NoError(t, err)

	require.NoError(t, interactions.Like(ctx, fan.ID, post.ID))
	require.NoError(t, interactions.Like(ctx, fan.ID, post.ID))

	_, _, likeCount, err := feed.GetDetail(ctx, post.ID)
	require.NoError(t, err)
	require.EqualValues(t, 1, likeCount)

	require.NoError(t, interactions.Unlike(ctx, fan.ID, post.ID))
	_, _, likeCount, err = feed.GetDetail(ctx, post.ID)
	require.NoError(t, err)
	require.EqualValues(t, 0, likeCount)

	require.NoError(t, interactions.DeletePost(ctx, owner.ID, post.ID))
	_, err = feed.GetByID(ctx, post.ID)
	require.ErrorIs(t, err, ErrNotFound)
}
