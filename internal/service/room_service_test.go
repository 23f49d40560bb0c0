package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devicehub-api/internal/models"
	"devicehub-api/internal/repo"
)

func newTestRoomService(t *testing.T) (*RoomService, *memUserRepo) {
	t.Helper()
	users := newMemUserRepo()
	return NewRoomService(newMemRoomRepo(), users), users
}

func seedUser(t *testing.T, users *memUserRepo, id, email string) {
	t.Helper()
	err := users.CreateUser(context.Background(), &models.User{ID: id, Email: email, Name: id, Role: models.RoleUser})
	require.NoError(t, err)
}

func TestRoomService_Create_OwnerBecomesMember(t *testing.T) {
	svc, users := newTestRoomService(t)
	ctx := context.Background()
	seedUser(t, users, "u1", "u1@example.com")

	room, err := svc.Create(ctx, "general", "u1")
	require.NoError(t, err)
	assert.NotEmpty(t, room.ID)
	assert.Equal(t, "u1", room.OwnerID)
	assert.True(t, room.HasMember("u1"))
}

func TestRoomService_Get_NotFound(t *testing.T) {
	svc, _ := newTestRoomService(t)
	_, err := svc.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestRoomService_UpdateTitle(t *testing.T) {
	svc, users := newTestRoomService(t)
	ctx := context.Background()
	seedUser(t, users, "u1", "u1@example.com")

	room, err := svc.Create(ctx, "general", "u1")
	require.NoError(t, err)

	t.Run("owner can rename", func(t *testing.T) {
		updated, err := svc.UpdateTitle(ctx, room.ID, "random", Identity{UserID: "u1", Role: models.RoleUser})
		require.NoError(t, err)
		assert.Equal(t, "random", updated.Title)
	})

	t.Run("non-owner is rejected", func(t *testing.T) {
		_, err := svc.UpdateTitle(ctx, room.ID, "hijacked", Identity{UserID: "u2", Role: models.RoleUser})
		assert.ErrorIs(t, err, ErrNotRoomOwner)
	})

	t.Run("admin can rename any room", func(t *testing.T) {
		updated, err := svc.UpdateTitle(ctx, room.ID, "moderated", Identity{UserID: "admin", Role: models.RoleAdmin})
		require.NoError(t, err)
		assert.Equal(t, "moderated", updated.Title)
	})

	t.Run("unknown room", func(t *testing.T) {
		_, err := svc.UpdateTitle(ctx, "missing", "x", Identity{UserID: "u1", Role: models.RoleUser})
		assert.ErrorIs(t, err, ErrRoomNotFound)
	})
}

func TestRoomService_AddMember(t *testing.T) {
	svc, users := newTestRoomService(t)
	ctx := context.Background()
	seedUser(t, users, "u1", "u1@example.com")
	seedUser(t, users, "u2", "u2@example.com")

	room, err := svc.Create(ctx, "general", "u1")
	require.NoError(t, err)

	view, err := svc.AddMember(ctx, room.ID, "u2")
	require.NoError(t, err)
	assert.True(t, view.Room.HasMember("u2"))
	assert.Len(t, view.Users, 2)

	// 重複参加は成功扱いでメンバー数は変わらない
	view, err = svc.AddMember(ctx, room.ID, "u2")
	require.NoError(t, err)
	assert.Len(t, view.Room.Members, 2)

	_, err = svc.AddMember(ctx, "missing", "u2")
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestRoomService_RemoveMember(t *testing.T) {
	svc, users := newTestRoomService(t)
	ctx := context.Background()
	seedUser(t, users, "u1", "u1@example.com")
	seedUser(t, users, "u2", "u2@example.com")

	room, err := svc.Create(ctx, "general", "u1")
	require.NoError(t, err)
	_, err = svc.AddMember(ctx, room.ID, "u2")
	require.NoError(t, err)

	require.NoError(t, svc.RemoveMember(ctx, room.ID, "u2"))
	got, err := svc.Get(ctx, room.ID)
	require.NoError(t, err)
	assert.False(t, got.HasMember("u2"))

	// 未登録ユーザーの削除はno-op
	require.NoError(t, svc.RemoveMember(ctx, room.ID, "u2"))

	assert.ErrorIs(t, svc.RemoveMember(ctx, "missing", "u2"), ErrRoomNotFound)
}

func TestRoomService_ChatView(t *testing.T) {
	svc, users := newTestRoomService(t)
	ctx := context.Background()
	seedUser(t, users, "u1", "u1@example.com")
	seedUser(t, users, "u2", "u2@example.com")

	room, err := svc.Create(ctx, "general", "u1")
	require.NoError(t, err)
	_, err = svc.AddMember(ctx, room.ID, "u2")
	require.NoError(t, err)

	view, err := svc.ChatView(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, "u1", view.Owner.ID)
	assert.Len(t, view.Users, 2)
}

func TestRoomService_List_Filters(t *testing.T) {
	svc, users := newTestRoomService(t)
	ctx := context.Background()
	seedUser(t, users, "u1", "u1@example.com")
	seedUser(t, users, "u2", "u2@example.com")

	_, err := svc.Create(ctx, "general", "u1")
	require.NoError(t, err)
	_, err = svc.Create(ctx, "random", "u2")
	require.NoError(t, err)

	rooms, err := svc.List(ctx, repo.RoomQuery{OwnerID: "u2"})
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, "random", rooms[0].Title)
}
