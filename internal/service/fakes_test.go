package service

import (
	"context"
	"sync"

	"devicehub-api/internal/models"
	"devicehub-api/internal/repo"
)

// memUserRepo はUserRepoのインメモリ実装
type memUserRepo struct {
	mu    sync.Mutex
	users map[string]models.User // ID -> user
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]models.User)}
}

func (r *memUserRepo) CreateUser(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return repo.ErrDuplicate
		}
	}
	r.users[user.ID] = *user
	return nil
}

func (r *memUserRepo) GetUser(ctx context.Context, userID string) (models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return models.User{}, repo.ErrNotFound
	}
	return user, nil
}

func (r *memUserRepo) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, repo.ErrNotFound
}

func (r *memUserRepo) ListUsers(ctx context.Context, page, perPage int) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, nil
}

func (r *memUserRepo) ListUsersByIDs(ctx context.Context, userIDs []string) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.User
	for _, id := range userIDs {
		if u, ok := r.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

// memTokenCache はTokenCacheのインメモリ実装
type memTokenCache struct {
	mu     sync.Mutex
	tokens map[string]string
}

func newMemTokenCache() *memTokenCache {
	return &memTokenCache{tokens: make(map[string]string)}
}

func (c *memTokenCache) CacheToken(ctx context.Context, email, token string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tokens[email] = token
	return nil
}

func (c *memTokenCache) GetToken(ctx context.Context, email string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	token, ok := c.tokens[email]
	if !ok {
		return "", repo.ErrNotFound
	}
	return token, nil
}

// memRoomRepo はRoomRepoのインメモリ実装
type memRoomRepo struct {
	mu    sync.Mutex
	rooms map[string]*models.Room
}

func newMemRoomRepo() *memRoomRepo {
	return &memRoomRepo{rooms: make(map[string]*models.Room)}
}

func (r *memRoomRepo) CreateRoom(ctx context.Context, room *models.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *room
	r.rooms[room.ID] = &cp
	return nil
}

func (r *memRoomRepo) GetRoom(ctx context.Context, roomID string) (models.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[roomID]
	if !ok {
		return models.Room{}, repo.ErrNotFound
	}
	return *room, nil
}

func (r *memRoomRepo) ListRooms(ctx context.Context, q repo.RoomQuery) ([]models.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Room
	for _, room := range r.rooms {
		if q.Title != "" && room.Title != q.Title {
			continue
		}
		if q.OwnerID != "" && room.OwnerID != q.OwnerID {
			continue
		}
		out = append(out, *room)
	}
	return out, nil
}

func (r *memRoomRepo) UpdateRoomTitle(ctx context.Context, roomID, title string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[roomID]
	if !ok {
		return repo.ErrNotFound
	}
	room.Title = title
	return nil
}

func (r *memRoomRepo) AddMember(ctx context.Context, roomID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[roomID]
	if !ok {
		return repo.ErrNotFound
	}
	if room.HasMember(userID) {
		return nil
	}
	room.Members = append(room.Members, models.RoomMember{RoomID: roomID, UserID: userID})
	return nil
}

func (r *memRoomRepo) RemoveMember(ctx context.Context, roomID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[roomID]
	if !ok {
		return repo.ErrNotFound
	}
	members := room.Members[:0]
	for _, m := range room.Members {
		if m.UserID != userID {
			members = append(members, m)
		}
	}
	room.Members = members
	return nil
}
