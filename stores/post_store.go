package stores

import (
	"context"

	"gorm.io/gorm"

	"github.com/whiskr/whiskr/models"
)

// PostStore is the persistence boundary for posts. FindByID returns
// gorm.ErrRecordNotFound when the post does not exist; callers translate.
type PostStore interface {
	WithTx(tx *gorm.DB) PostStore
	Save(ctx context.Context, post *models.Post) error
	FindByID(ctx context.Context, id uint) (*models.Post, error)
	FindPage(ctx context.Context, offset, limit int) ([]models.Post, error)
	FindPageByOwner(ctx context.Context, ownerID uint, offset, limit int) ([]models.Post, error)
	FindPageByOwners(ctx context.Context, ownerIDs []uint, offset, limit int) ([]models.Post, error)
	FindPageByIDs(ctx context.Context, ids []uint, offset, limit int) ([]models.Post, error)
	Delete(ctx context.Context, post *models.Post) error
}

type postStore struct {
	db *gorm.DB
}

// NewPostStore creates a gorm backed PostStore.
func NewPostStore(db *gorm.DB) PostStore { return &postStore{db: db} }

func (s *postStore) WithTx(tx *gorm.DB) PostStore { return &postStore{db: tx} }

func (s *postStore) Save(ctx context.Context, post *models.Post) error {
	return s.db.WithContext(ctx).Save(post).Error
}

func (s *postStore) FindByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := s.db.WithContext(ctx).Preload("User").First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (s *postStore) FindPage(ctx context.Context, offset, limit int) ([]models.Post, error) {
	var posts []models.Post
	err := s.pageQuery(ctx, offset, limit).Find(&posts).Error
	return posts, err
}

func (s *postStore) FindPageByOwner(ctx context.Context, ownerID uint, offset, limit int) ([]models.Post, error) {
	var posts []models.Post
	err := s.pageQuery(ctx, offset, limit).Where("user_id = ?", ownerID).Find(&posts).Error
	return posts, err
}

func (s *postStore) FindPageByOwners(ctx context.Context, ownerIDs []uint, offset, limit int) ([]models.Post, error) {
	if len(ownerIDs) == 0 {
		return []models.Post{}, nil
	}
	var posts []models.Post
	err := s.pageQuery(ctx, offset, limit).Where("user_id IN ?", ownerIDs).Find(&posts).Error
	return posts, err
}

// FindPageByIDs returns the named posts newest first. A negative limit
// disables pagination and returns them all.
func (s *postStore) FindPageByIDs(ctx context.Context, ids []uint, offset, limit int) ([]models.Post, error) {
	if len(ids) == 0 {
		return []models.Post{}, nil
	}
	var posts []models.Post
	err := s.pageQuery(ctx, offset, limit).Where("id IN ?", ids).Find(&posts).Error
	return posts, err
}

func (s *postStore) Delete(ctx context.Context, post *models.Post) error {
	return s.db.WithContext(ctx).Delete(post).Error
}

func (s *postStore) pageQuery(ctx context.Context, offset, limit int) *gorm.DB {
	q := s.db.WithContext(ctx).Preload("User").Order("id DESC")
	if limit >= 0 {
		q = q.Offset(offset).Limit(limit)
	}
	return q
}
