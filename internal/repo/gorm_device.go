package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"devicehub-api/internal/models"
)

// GormDeviceRepo はDeviceRepoのMySQL実装
// 取得系は関連するProductをPreloadして返します
type GormDeviceRepo struct{ db *gorm.DB }

func NewGormDeviceRepo(db *gorm.DB) *GormDeviceRepo {
	return &GormDeviceRepo{db: db}
}

func (r *GormDeviceRepo) CreateDevice(ctx context.Context, device *models.Device) error {
	return mapError(r.db.WithContext(ctx).Create(device).Error)
}

func (r *GormDeviceRepo) GetDevice(ctx context.Context, deviceID string) (models.Device, error) {
	var device models.Device
	err := r.db.WithContext(ctx).Preload("Product").First(&device, "id = ?", deviceID).Error
	if err != nil {
		return models.Device{}, mapError(err)
	}
	return device, nil
}

func (r *GormDeviceRepo) ListDevices(ctx context.Context, page, perPage int) ([]models.Device, error) {
	page, perPage = normalizePage(page, perPage)
	var devices []models.Device
	err := r.db.WithContext(ctx).
		Preload("Product").
		Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&devices).Error
	return devices, mapError(err)
}

func (r *GormDeviceRepo) UpdateDevice(ctx context.Context, device *models.Device) error {
	res := r.db.WithContext(ctx).Model(&models.Device{}).
		Where("id = ?", device.ID).
		Updates(map[string]any{
			"uuid":       device.UUID,
			"product_id": device.ProductID,
			"status":     device.Status,
		})
	if res.Error != nil {
		return mapError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormDeviceRepo) DeleteDevice(ctx context.Context, deviceID string) error {
	return mapError(r.db.WithContext(ctx).Delete(&models.Device{}, "id = ?", deviceID).Error)
}

// TouchDevice は最終アクティビティ日時を現在時刻に更新します
// アクティビティ受信時にworker経由で呼ばれます
func (r *GormDeviceRepo) TouchDevice(ctx context.Context, deviceID string) error {
	now := time.Now().UTC()
	res := r.db.WithContext(ctx).Model(&models.Device{}).
		Where("id = ?", deviceID).
		Update("last_seen_at", now)
	if res.Error != nil {
		return mapError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
