package repo

import (
	"context"

	"gorm.io/gorm"

	"devicehub-api/internal/models"
)

// GormFeedbackRepo はFeedbackRepoのMySQL実装
type GormFeedbackRepo struct{ db *gorm.DB }

func NewGormFeedbackRepo(db *gorm.DB) *GormFeedbackRepo {
	return &GormFeedbackRepo{db: db}
}

func (r *GormFeedbackRepo) CreateFeedback(ctx context.Context, fb *models.Feedback) error {
	return mapError(r.db.WithContext(ctx).Create(fb).Error)
}

func (r *GormFeedbackRepo) GetFeedback(ctx context.Context, feedbackID string) (models.Feedback, error) {
	var fb models.Feedback
	if err := r.db.WithContext(ctx).First(&fb, "id = ?", feedbackID).Error; err != nil {
		return models.Feedback{}, mapError(err)
	}
	return fb, nil
}

func (r *GormFeedbackRepo) ListFeedbacks(ctx context.Context, page, perPage int) ([]models.Feedback, error) {
	page, perPage = normalizePage(page, perPage)
	var fbs []models.Feedback
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&fbs).Error
	return fbs, mapError(err)
}

func (r *GormFeedbackRepo) UpdateFeedback(ctx context.Context, fb *models.Feedback) error {
	res := r.db.WithContext(ctx).Model(&models.Feedback{}).
		Where("id = ?", fb.ID).
		Updates(map[string]any{
			"reply":         fb.Reply,
			"reply_user_id": fb.ReplyUserID,
		})
	if res.Error != nil {
		return mapError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// GormActivityRepo はActivityRepoのMySQL実装
type GormActivityRepo struct{ db *gorm.DB }

func NewGormActivityRepo(db *gorm.DB) *GormActivityRepo {
	return &GormActivityRepo{db: db}
}

func (r *GormActivityRepo) CreateActivity(ctx context.Context, act *models.Activity) error {
	return mapError(r.db.WithContext(ctx).Create(act).Error)
}

func (r *GormActivityRepo) ListActivities(ctx context.Context, userID, deviceID string, page, perPage int) ([]models.Activity, error) {
	page, perPage = normalizePage(page, perPage)

	tx := r.db.WithContext(ctx).Model(&models.Activity{})
	if userID != "" {
		tx = tx.Where("user_id = ?", userID)
	}
	if deviceID != "" {
		tx = tx.Where("device_id = ?", deviceID)
	}

	var acts []models.Activity
	err := tx.Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&acts).Error
	return acts, mapError(err)
}
