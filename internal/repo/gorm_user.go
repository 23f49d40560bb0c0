package repo

import (
	"context"

	"gorm.io/gorm"

	"devicehub-api/internal/models"
)

// GormUserRepo はUserRepoのMySQL実装
type GormUserRepo struct{ db *gorm.DB }

func NewGormUserRepo(db *gorm.DB) *GormUserRepo {
	return &GormUserRepo{db: db}
}

func (r *GormUserRepo) CreateUser(ctx context.Context, user *models.User) error {
	return mapError(r.db.WithContext(ctx).Create(user).Error)
}

func (r *GormUserRepo) GetUser(ctx context.Context, userID string) (models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		return models.User{}, mapError(err)
	}
	return user, nil
}

func (r *GormUserRepo) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		return models.User{}, mapError(err)
	}
	return user, nil
}

func (r *GormUserRepo) ListUsers(ctx context.Context, page, perPage int) ([]models.User, error) {
	page, perPage = normalizePage(page, perPage)
	var users []models.User
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&users).Error
	return users, mapError(err)
}

func (r *GormUserRepo) ListUsersByIDs(ctx context.Context, userIDs []string) ([]models.User, error) {
	if len(userIDs) == 0 {
		return []models.User{}, nil
	}
	var users []models.User
	err := r.db.WithContext(ctx).Where("id IN ?", userIDs).Find(&users).Error
	return users, mapError(err)
}
