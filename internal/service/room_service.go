package service

import (
	"context"
	"errors"

	"devicehub-api/internal/idgen"
	"devicehub-api/internal/models"
	"devicehub-api/internal/repo"
)

// RoomService はチャットルーム管理のビジネスロジックを提供します
// REST経由のメンバー追加/削除と、Gatewayが参加判定に使うルーム取得を担当します
type RoomService struct {
	rooms repo.RoomRepo
	users repo.UserRepo
}

// ChatRoomView はルームの詳細（オーナーとメンバーのユーザー情報つき）
type ChatRoomView struct {
	Room  models.Room   `json:"room"`
	Owner models.User   `json:"owner"`
	Users []models.User `json:"users"`
}

// NewRoomService は新しいRoomServiceを作成します
func NewRoomService(rooms repo.RoomRepo, users repo.UserRepo) *RoomService {
	return &RoomService{rooms: rooms, users: users}
}

// Create は新しいルームを作成します
// 作成者がオーナーとなり、最初のメンバーとして登録されます
func (s *RoomService) Create(ctx context.Context, title, ownerID string) (models.Room, error) {
	room := models.Room{
		ID:      idgen.NewULID(),
		Title:   title,
		OwnerID: ownerID,
	}
	if err := s.rooms.CreateRoom(ctx, &room); err != nil {
		return models.Room{}, err
	}
	// 作成時にオーナー入室とする
	if err := s.rooms.AddMember(ctx, room.ID, ownerID); err != nil {
		return models.Room{}, err
	}
	return s.Get(ctx, room.ID)
}

// Get はメンバー一覧つきのルームを取得します
// Gatewayの参加判定はこのメソッドを毎回呼び、キャッシュしません
func (s *RoomService) Get(ctx context.Context, roomID string) (models.Room, error) {
	room, err := s.rooms.GetRoom(ctx, roomID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return models.Room{}, ErrRoomNotFound
		}
		return models.Room{}, err
	}
	return room, nil
}

// List はルーム一覧を取得します（管理者向け）
func (s *RoomService) List(ctx context.Context, q repo.RoomQuery) ([]models.Room, error) {
	return s.rooms.ListRooms(ctx, q)
}

// UpdateTitle はルームのタイトルを変更します
// オーナー本人か管理者のみ実行できます
func (s *RoomService) UpdateTitle(ctx context.Context, roomID, title string, caller Identity) (models.Room, error) {
	room, err := s.Get(ctx, roomID)
	if err != nil {
		return models.Room{}, err
	}
	if room.OwnerID != caller.UserID && !caller.IsAdmin() {
		return models.Room{}, ErrNotRoomOwner
	}
	if err := s.rooms.UpdateRoomTitle(ctx, roomID, title); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return models.Room{}, ErrRoomNotFound
		}
		return models.Room{}, err
	}
	return s.Get(ctx, roomID)
}

// ChatView はルームの詳細（オーナーとメンバーのユーザー情報つき）を返します
func (s *RoomService) ChatView(ctx context.Context, roomID string) (ChatRoomView, error) {
	room, err := s.Get(ctx, roomID)
	if err != nil {
		return ChatRoomView{}, err
	}
	owner, err := s.users.GetUser(ctx, room.OwnerID)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return ChatRoomView{}, err
	}
	userList, err := s.users.ListUsersByIDs(ctx, room.MemberIDs())
	if err != nil {
		return ChatRoomView{}, err
	}
	return ChatRoomView{Room: room, Owner: owner, Users: userList}, nil
}

// AddMember はユーザーをルームのメンバー一覧に追記します
// すでにメンバーの場合も成功として扱います（冪等）
// これはREST段階の参加登録で、リアルタイムのチャンネル購読とは別の操作です
func (s *RoomService) AddMember(ctx context.Context, roomID, userID string) (ChatRoomView, error) {
	if _, err := s.Get(ctx, roomID); err != nil {
		return ChatRoomView{}, err
	}
	if err := s.rooms.AddMember(ctx, roomID, userID); err != nil {
		return ChatRoomView{}, err
	}
	return s.ChatView(ctx, roomID)
}

// RemoveMember はユーザーをメンバー一覧から削除します。未登録ならno-op
func (s *RoomService) RemoveMember(ctx context.Context, roomID, userID string) error {
	if _, err := s.Get(ctx, roomID); err != nil {
		return err
	}
	return s.rooms.RemoveMember(ctx, roomID, userID)
}
