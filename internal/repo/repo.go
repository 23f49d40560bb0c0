package repo

import (
	"context"
	"errors"

	"devicehub-api/internal/models"
)

// リポジトリ共通のエラー
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate entry")
)

// RoomQuery はルーム一覧取得の検索条件
type RoomQuery struct {
	Page    int    // 1始まりのページ番号
	PerPage int    // 1ページあたりの件数
	Title   string // タイトル完全一致（空なら無条件）
	OwnerID string // オーナーID（空なら無条件）
}

// RoomRepo はルームとメンバー一覧の永続化を担当します
// GetRoom は参加順のメンバー一覧を含むルームを返します
type RoomRepo interface {
	CreateRoom(ctx context.Context, room *models.Room) error
	GetRoom(ctx context.Context, roomID string) (models.Room, error)
	ListRooms(ctx context.Context, q RoomQuery) ([]models.Room, error)
	UpdateRoomTitle(ctx context.Context, roomID, title string) error

	// AddMember は未登録の場合のみメンバーを追記します（冪等）
	AddMember(ctx context.Context, roomID, userID string) error
	// RemoveMember は該当メンバーを削除します。未登録ならno-op
	RemoveMember(ctx context.Context, roomID, userID string) error
}

// UserRepo はユーザーの永続化を担当します
type UserRepo interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, userID string) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	ListUsers(ctx context.Context, page, perPage int) ([]models.User, error)
	ListUsersByIDs(ctx context.Context, userIDs []string) ([]models.User, error)
}

// DeviceRepo はデバイスの永続化を担当します
// 取得系は関連するProductを含めて返します
type DeviceRepo interface {
	CreateDevice(ctx context.Context, device *models.Device) error
	GetDevice(ctx context.Context, deviceID string) (models.Device, error)
	ListDevices(ctx context.Context, page, perPage int) ([]models.Device, error)
	UpdateDevice(ctx context.Context, device *models.Device) error
	DeleteDevice(ctx context.Context, deviceID string) error
	// TouchDevice は最終アクティビティ日時を更新します（workerから呼ばれる）
	TouchDevice(ctx context.Context, deviceID string) error
}

// ProductRepo は製品の永続化を担当します
type ProductRepo interface {
	CreateProduct(ctx context.Context, product *models.Product) error
	GetProduct(ctx context.Context, productID string) (models.Product, error)
	ListProducts(ctx context.Context, page, perPage int) ([]models.Product, error)
	UpdateProduct(ctx context.Context, product *models.Product) error
	DeleteProduct(ctx context.Context, productID string) error
}

// FeedbackRepo はフィードバックの永続化を担当します
type FeedbackRepo interface {
	CreateFeedback(ctx context.Context, fb *models.Feedback) error
	GetFeedback(ctx context.Context, feedbackID string) (models.Feedback, error)
	ListFeedbacks(ctx context.Context, page, perPage int) ([]models.Feedback, error)
	UpdateFeedback(ctx context.Context, fb *models.Feedback) error
}

// ActivityRepo はアクティビティログの永続化を担当します
type ActivityRepo interface {
	CreateActivity(ctx context.Context, act *models.Activity) error
	ListActivities(ctx context.Context, userID, deviceID string, page, perPage int) ([]models.Activity, error)
}

// TokenCache は発行済みトークンのキャッシュを担当します
type TokenCache interface {
	CacheToken(ctx context.Context, email, token string) error
	GetToken(ctx context.Context, email string) (string, error)
}
