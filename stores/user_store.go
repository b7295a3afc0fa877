package stores

import (
	"context"

	"gorm.io/gorm"

	"github.com/whiskr/whiskr/models"
)

// UserStore resolves user identities for the engines.
type UserStore interface {
	FindByID(ctx context.Context, id uint) (*models.User, error)
	Exists(ctx context.Context, id uint) (bool, error)
}

type userStore struct {
	db *gorm.DB
}

// NewUserStore creates a gorm backed UserStore.
func NewUserStore(db *gorm.DB) UserStore { return &userStore{db: db} }

func (s *userStore) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *userStore) Exists(ctx context.Context, id uint) (bool, error) {
	var cnt int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}
