package stores

import (
	"context"

	"gorm.io/gorm"

	"github.com/whiskr/whiskr/models"
)

// LikeStore is the persistence boundary for like records.
type LikeStore interface {
	WithTx(tx *gorm.DB) LikeStore
	Save(ctx context.Context, like *models.Like) error
	Find(ctx context.Context, userID, postID uint) (*models.Like, error)
	FindByUser(ctx context.Context, userID uint) ([]models.Like, error)
	DeleteByUserAndPost(ctx context.Context, userID, postID uint) error
	DeleteByPost(ctx context.Context, postID uint) error
	CountByPost(ctx context.Context, postID uint) (int64, error)
}

// CommentStore is the persistence boundary for comments.
type CommentStore interface {
	WithTx(tx *gorm.DB) CommentStore
	Save(ctx context.Context, comment *models.Comment) error
	FindByID(ctx context.Context, id uint) (*models.Comment, error)
	FindByPost(ctx context.Context, postID uint) ([]models.Comment, error)
	Delete(ctx context.Context, comment *models.Comment) error
	DeleteByPost(ctx context.Context, postID uint) error
}

type likeStore struct {
	db *gorm.DB
}

// NewLikeStore creates a gorm backed LikeStore.
func NewLikeStore(db *gorm.DB) LikeStore { return &likeStore{db: db} }

func (s *likeStore) WithTx(tx *gorm.DB) LikeStore { return &likeStore{db: tx} }

func (s *likeStore) Save(ctx context.Context, like *models.Like) error {
	return s.db.WithContext(ctx).Create(like).Error
}

func (s *likeStore) Find(ctx context.Context, userID, postID uint) (*models.Like, error) {
	var like models.Like
	err := s.db.WithContext(ctx).Where("user_id = ? AND post_id = ?", userID, postID).First(&like).Error
	if err != nil {
		return nil, err
	}
	return &like, nil
}

func (s *likeStore) FindByUser(ctx context.Context, userID uint) ([]models.Like, error) {
	var likes []models.Like
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Find(&likes).Error
	return likes, err
}

func (s *likeStore) DeleteByUserAndPost(ctx context.Context, userID, postID uint) error {
	return s.db.WithContext(ctx).Where("user_id = ? AND post_id = ?", userID, postID).Delete(&models.Like{}).Error
}

func (s *likeStore) DeleteByPost(ctx context.Context, postID uint) error {
	return s.db.WithContext(ctx).Where("post_id = ?", postID).Delete(&models.Like{}).Error
}

func (s *likeStore) CountByPost(ctx context.Context, postID uint) (int64, error) {
	var cnt int64
	err := s.db.WithContext(ctx).Model(&models.Like{}).Where("post_id = ?", postID).Count(&cnt).Error
	return cnt, err
}

type commentStore struct {
	db *gorm.DB
}

// NewCommentStore creates a gorm backed CommentStore.
func NewCommentStore(db *gorm.DB) CommentStore { return &commentStore{db: db} }

func (s *commentStore) WithTx(tx *gorm.DB) CommentStore { return &commentStore{db: tx} }

func (s *commentStore) Save(ctx context.Context, comment *models.Comment) error {
	return s.db.WithContext(ctx).Save(comment).Error
}

func (s *commentStore) FindByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := s.db.WithContext(ctx).First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

func (s *commentStore) FindByPost(ctx context.Context, postID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := s.db.WithContext(ctx).Preload("User").Where("post_id = ?", postID).Order("id ASC").Find(&comments).Error
	return comments, err
}

func (s *commentStore) Delete(ctx context.Context, comment *models.Comment) error {
	return s.db.WithContext(ctx).Delete(comment).Error
}

func (s *commentStore) DeleteByPost(ctx context.Context, postID uint) error {
	return s.db.WithContext(ctx).Where("post_id = ?", postID).Delete(&models.Comment{}).Error
}
