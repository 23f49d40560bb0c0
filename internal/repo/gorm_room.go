package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"devicehub-api/internal/models"
)

// GormRoomRepo はRoomRepoのMySQL実装
type GormRoomRepo struct{ db *gorm.DB }

func NewGormRoomRepo(db *gorm.DB) *GormRoomRepo {
	return &GormRoomRepo{db: db}
}

func (r *GormRoomRepo) CreateRoom(ctx context.Context, room *models.Room) error {
	return mapError(r.db.WithContext(ctx).Create(room).Error)
}

// GetRoom は参加順（Seq昇順）のメンバー一覧を含むルームを返します
func (r *GormRoomRepo) GetRoom(ctx context.Context, roomID string) (models.Room, error) {
	var room models.Room
	err := r.db.WithContext(ctx).
		Preload("Members", func(db *gorm.DB) *gorm.DB { return db.Order("seq ASC") }).
		First(&room, "id = ?", roomID).Error
	if err != nil {
		return models.Room{}, mapError(err)
	}
	return room, nil
}

func (r *GormRoomRepo) ListRooms(ctx context.Context, q RoomQuery) ([]models.Room, error) {
	page, perPage := normalizePage(q.Page, q.PerPage)

	tx := r.db.WithContext(ctx).Model(&models.Room{})
	if q.Title != "" {
		tx = tx.Where("title = ?", q.Title)
	}
	if q.OwnerID != "" {
		tx = tx.Where("owner_id = ?", q.OwnerID)
	}

	var rooms []models.Room
	err := tx.Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&rooms).Error
	return rooms, mapError(err)
}

func (r *GormRoomRepo) UpdateRoomTitle(ctx context.Context, roomID, title string) error {
	res := r.db.WithContext(ctx).Model(&models.Room{}).
		Where("id = ?", roomID).
		Update("title", title)
	if res.Error != nil {
		return mapError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// AddMember はメンバーを末尾に追記します
// (room_id, user_id) のユニーク制約により、登録済みの場合は成功扱いのno-opです
func (r *GormRoomRepo) AddMember(ctx context.Context, roomID, userID string) error {
	err := r.db.WithContext(ctx).Create(&models.RoomMember{
		RoomID: roomID,
		UserID: userID,
	}).Error
	if err != nil {
		if errors.Is(mapError(err), ErrDuplicate) {
			return nil // 冪等: すでにメンバー
		}
		return mapError(err)
	}
	return nil
}

// RemoveMember は該当メンバーを削除します。未登録の場合は何もしません
func (r *GormRoomRepo) RemoveMember(ctx context.Context, roomID, userID string) error {
	return mapError(r.db.WithContext(ctx).
		Where("room_id = ? AND user_id = ?", roomID, userID).
		Delete(&models.RoomMember{}).Error)
}
