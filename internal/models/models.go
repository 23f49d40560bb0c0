// Package models はアプリケーションで使用するデータ構造を定義します
package models

import "time"

// ユーザーのロール
const (
	RoleUser  = "user"  // 一般ユーザー
	RoleAdmin = "admin" // 管理者
)

// User は登録済みユーザーを表します
// Password はbcryptハッシュで保持し、レスポンスには含めません
type User struct {
	ID        string    `json:"id" gorm:"primaryKey;size:26"`
	Email     string    `json:"email" gorm:"uniqueIndex;size:191;not null"`
	Name      string    `json:"name" gorm:"size:128"`
	Password  string    `json:"-" gorm:"size:128;not null"`
	Role      string    `json:"role" gorm:"size:16;not null;default:user"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"-"`
}

// Room はチャットルームを表します
// メンバー一覧は RoomMember として別テーブルに参加順で保持します
type Room struct {
	ID        string       `json:"id" gorm:"primaryKey;size:26"`
	Title     string       `json:"title" gorm:"size:191;not null"`
	OwnerID   string       `json:"ownerId" gorm:"size:26;not null;index"`
	Members   []RoomMember `json:"connections" gorm:"foreignKey:RoomID"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"-"`
}

// RoomMember はルームのメンバー1件を表します
// (room_id, user_id) はユニーク。Seq の昇順 = 参加順です
type RoomMember struct {
	Seq       uint64    `json:"-" gorm:"primaryKey;autoIncrement"`
	RoomID    string    `json:"-" gorm:"size:26;not null;uniqueIndex:idx_room_user"`
	UserID    string    `json:"userId" gorm:"size:26;not null;uniqueIndex:idx_room_user"`
	CreatedAt time.Time `json:"-"`
}

// Product は製品（デバイスの機種）を表します
type Product struct {
	ID        string    `json:"id" gorm:"primaryKey;size:26"`
	Model     string    `json:"model" gorm:"uniqueIndex;size:128;not null"`
	Name      string    `json:"name" gorm:"size:191;not null"`
	Describe  string    `json:"describe" gorm:"size:512"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"-"`
}

// Device は登録済みデバイスの個体を表します
type Device struct {
	ID         string     `json:"id" gorm:"primaryKey;size:26"`
	UUID       string     `json:"uuid" gorm:"uniqueIndex;size:64;not null"`
	ProductID  string     `json:"-" gorm:"size:26;index"`
	Product    *Product   `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Status     bool       `json:"status" gorm:"not null;default:true"`
	LastSeenAt *time.Time `json:"lastSeenAt,omitempty"` // 最終アクティビティ受信日時（workerが更新）
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"-"`
}

// Feedback はアプリからのフィードバックを表します
// 送信元アプリ・デバイスのメタデータも一緒に保持します
type Feedback struct {
	ID               string    `json:"id" gorm:"primaryKey;size:26"`
	Email            string    `json:"email" gorm:"size:191;not null"`
	Subject          string    `json:"subject" gorm:"size:191;not null"`
	Content          string    `json:"content" gorm:"type:text;not null"`
	Reply            string    `json:"reply,omitempty" gorm:"type:text"`
	ReplyUserID      string    `json:"replyUserId,omitempty" gorm:"size:26"`
	AppName          string    `json:"appName,omitempty" gorm:"size:128"`
	AppVersion       string    `json:"appVersion,omitempty" gorm:"size:64"`
	DeviceOS         string    `json:"deviceOs,omitempty" gorm:"size:64"`
	DeviceLocaleCode string    `json:"deviceLocaleCode,omitempty" gorm:"size:32"`
	DeviceBuildID    string    `json:"deviceBuildId,omitempty" gorm:"size:64"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"-"`
}

// Activity はユーザーのアクティビティログ1件を表します
// Value は任意のJSONオブジェクトをそのまま保持します
type Activity struct {
	ID        string    `json:"id" gorm:"primaryKey;size:26"`
	UserID    string    `json:"-" gorm:"size:26;not null;index"`
	DeviceID  string    `json:"deviceId,omitempty" gorm:"size:26;index"`
	Key       string    `json:"key" gorm:"size:128;not null"`
	Value     string    `json:"value" gorm:"type:text;not null"` // JSON文字列
	CreatedAt time.Time `json:"createdAt"`
}

// MemberIDs は参加順のメンバーのユーザーID一覧を返します
func (r Room) MemberIDs() []string {
	ids := make([]string, 0, len(r.Members))
	for _, m := range r.Members {
		ids = append(ids, m.UserID)
	}
	return ids
}

// HasMember は userId が永続化済みメンバー一覧に含まれるかを返します
func (r Room) HasMember(userID string) bool {
	for _, m := range r.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}
