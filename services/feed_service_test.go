package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/whiskr/whiskr/models"
	"github.com/whiskr/whiskr/stores"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// In-memory sqlite is per connection; cap the pool at one so every
	// query sees the migrated schema.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Post{}, &models.Comment{}, &models.Like{}, &models.Follow{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, name string) *models.User {
	t.Helper()
	u := &models.User{Username: name, Email: name + "@example.com"}
	require.NoError(t, db.Create(u).Error)
	return u
}

func seedPost(t *testing.T, db *gorm.DB, ownerID uint, title string) *models.Post {
	t.Helper()
	p := &models.Post{UserID: ownerID, URL: "/static/uploads/" + title + ".jpg", Title: title}
	require.NoError(t, db.Create(p).Error)
	return p
}

func newFeedService(db *gorm.DB) *FeedService {
	return NewFeedService(
		stores.NewPostStore(db),
		stores.NewLikeStore(db),
		stores.NewCommentStore(db),
		stores.NewFollowStore(db),
	)
}

func TestListAllPagination(t *testing.T) {
	db := newTestDB(t)
	svc := newFeedService(db)
	ctx := context.Background()

	owner := seedUser(t, db, "paginator")
	for i := 1; i <= 25; i++ {
		seedPost(t, db, owner.ID, fmt.Sprintf("post-%02d", i))
	}

	page0, err := svc.ListAll(ctx, 0)
	require.NoError(t, err)
	require.Len(t, page0, PageSize)
	require.Equal(t, "post-25", page0[0].Title)
	require.Equal(t, "post-16", page0[9].Title)

	page1, err := svc.ListAll(ctx, 1)
	require.NoError(t, err)
	require.Len(t, page1, PageSize)
	require.Equal(t, "post-15", page1[0].Title)

	page2, err := svc.ListAll(ctx, 2)
	require.NoError(t, err)
	require.Len(t, page2, 5)
	require.Equal(t, "post-01", page2[4].Title)

	page3, err := svc.ListAll(ctx, 3)
	require.NoError(t, err)
	require.Empty(t, page3)

	// A negative page clamps to the first one.
	clamped, err := svc.ListAll(ctx, -3)
	require.NoError(t, err)
	require.Len(t, clamped, PageSize)
	require.Equal(t, "post-25", clamped[0].Title)
}

func TestListAllPreloadsAuthor(t *testing.T) {
	db := newTestDB(t)
	svc := newFeedService(db)

	owner := seedUser(t, db, "author")
	seedPost(t, db, owner.ID, "hello")

	posts, err := svc.ListAll(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	require.Equal(t, "author", posts[0].User.Username)
}

func TestListByAuthor(t *testing.T) {
	db := newTestDB(t)
	svc := newFeedService(db)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	seedPost(t, db, alice.ID, "alice-1")
	seedPost(t, db, bob.ID, "bob-1")
	seedPost(t, db, alice.ID, "alice-2")

	posts, err := svc.ListByAuthor(ctx, alice.ID, 0)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	require.Equal(t, "alice-2", posts[0].Title)
	require.Equal(t, "alice-1", posts[1].Title)

	none, err := svc.ListByAuthor(ctx, bob.ID+100, 0)
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestListByFollowing(t *testing.T) {
	db := newTestDB(t)
	svc := newFeedService(db)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	carol := seedUser(t, db, "carol")

	seedPost(t, db, bob.ID, "bob-1")
	seedPost(t, db, carol.ID, "carol-1")
	seedPost(t, db, bob.ID, "bob-2")

	require.NoError(t, stores.NewFollowStore(db).Create(ctx, alice.ID, bob.ID))

	feed, err := svc.ListByFollowing(ctx, alice.ID, 0)
	require.NoError(t, err)
	require.Len(t, feed, 2)
	require.Equal(t, "bob-2", feed[0].Title)
	require.Equal(t, "bob-1", feed[1].Title)

	// Following nobody yields an empty page, not an error.
	empty, err := svc.ListByFollowing(ctx, carol.ID, 0)
	require.NoError(t, err)
	require.Empty(t, empty)
}

func TestListByLiked(t *testing.T) {
	db := newTestDB(t)
	svc := newFeedService(db)
	ctx := context.Background()

	owner := seedUser(t, db, "owner")
	fan := seedUser(t, db, "fan")

	var liked []uint
	for i := 1; i <= 12; i++ {
		p := seedPost(t, db, owner.ID, fmt.Sprintf("p-%02d", i))
		if i != 5 {
			require.NoError(t, db.Create(&models.Like{UserID: fan.ID, PostID: p.ID}).Error)
			liked = append(liked, p.ID)
		}
	}

	// Negative page keeps the legacy whole-list behavior.
	all, err := svc.ListByLiked(ctx, fan.ID, -1)
	require.NoError(t, err)
	require.Len(t, all, len(liked))
	for _, p := range all {
		require.NotEqual(t, "p-05", p.Title)
	}

	page0, err := svc.ListByLiked(ctx, fan.ID, 0)
	require.NoError(t, err)
	require.Len(t, page0, PageSize)
	require.Equal(t, "p-12", page0[0].Title)

	page1, err := svc.ListByLiked(ctx, fan.ID, 1)
	require.NoError(t, err)
	require.Len(t, page1, 1)
	require.Equal(t, "p-01", page1[0].Title)

	none, err := svc.ListByLiked(ctx, owner.ID, -1)
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestGetByID(t *testing.T) {
	db := newTestDB(t)
	svc := newFeedService(db)
	ctx := context.Background()

	owner := seedUser(t, db, "owner")
	post := seedPost(t, db, owner.ID, "single")

	got, err := svc.GetByID(ctx, post.ID)
	require.NoError(t, err)
	require.Equal(t, "single", got.Title)
	require.Equal(t, "owner", got.User.Username)

	_, err = svc.GetByID(ctx, post.ID+999)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestGetDetail(t *testing.T) {
	db := newTestDB(t)
	svc := newFeedService(db)
	ctx := context.Background()

	owner := seedUser(t, db, "owner")
	fan := seedUser(t, db, "fan")
	post := seedPost(t, db, owner.ID, "detailed")

	require.NoError(t, db.Create(&models.Comment{PostID: post.ID, UserID: fan.ID, Content: "first"}).Error)
	require.NoError(t, db.Create(&models.Comment{PostID: post.ID, UserID: owner.ID, Content: "second"}).Error)
	require.NoError(t, db.Create(&models.Like{UserID: fan.ID, PostID: post.ID}).Error)

	got, comments, likeCount, err := svc.GetDetail(ctx, post.ID)
	require.NoError(t, err)
	require.Equal(t, post.ID, got.ID)
	require.Len(t, comments, 2)
	require.Equal(t, "first", comments[0].Content)
	require.Equal(t, "second", comments[1].Content)
	require.EqualValues(t, 1, likeCount)

	_, _, _, err = svc.GetDetail(ctx, post.ID+999)
	require.ErrorIs(t, err, ErrNotFound)
}
