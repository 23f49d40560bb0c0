package chat

import "sync"

// Presence はこのプロセスに接続中のソケットのルーム購読状態を管理します
// (roomId, socketId) -> userId のテーブルで、永続化はしません
// プロセスをまたぐ可視性はBus経由のイベント中継で実現します
type Presence struct {
	mu    sync.RWMutex
	rooms map[string]map[string]string // roomID -> socketID -> userID
}

// NewPresence は新しいPresenceを作成します
func NewPresence() *Presence {
	return &Presence{rooms: make(map[string]map[string]string)}
}

// Add はソケットのルーム購読を記録します
func (p *Presence) Add(roomID, socketID, userID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	sockets, ok := p.rooms[roomID]
	if !ok {
		sockets = make(map[string]string)
		p.rooms[roomID] = sockets
	}
	sockets[socketID] = userID
}

// Remove はソケットのルーム購読を削除します
func (p *Presence) Remove(roomID, socketID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.removeLocked(roomID, socketID)
}

// RemoveAll はソケットの全ルーム購読を削除し、購読していたルームID一覧を返します
// 切断時のクリーンアップに使います
func (p *Presence) RemoveAll(socketID string) []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var roomIDs []string
	for roomID, sockets := range p.rooms {
		if _, ok := sockets[socketID]; ok {
			roomIDs = append(roomIDs, roomID)
			p.removeLocked(roomID, socketID)
		}
	}
	return roomIDs
}

// Joined はソケットがルームを購読中かを返します
func (p *Presence) Joined(roomID, socketID string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.rooms[roomID][socketID]
	return ok
}

// Sockets はルームを購読中のローカルソケットの socketID -> userID を返します
// 返り値はコピーで、呼び出し側が自由に使えます
func (p *Presence) Sockets(roomID string) map[string]string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make(map[string]string, len(p.rooms[roomID]))
	for socketID, userID := range p.rooms[roomID] {
		out[socketID] = userID
	}
	return out
}

// OnlineUsers はルームを購読中のローカルソケットのユーザーID一覧（重複なし）を返します
func (p *Presence) OnlineUsers(roomID string) []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	seen := make(map[string]bool, len(p.rooms[roomID]))
	users := make([]string, 0, len(p.rooms[roomID]))
	for _, userID := range p.rooms[roomID] {
		if !seen[userID] {
			seen[userID] = true
			users = append(users, userID)
		}
	}
	return users
}

// removeLocked は購読1件を削除し、空になったルームのエントリも片付けます
func (p *Presence) removeLocked(roomID, socketID string) {
	sockets, ok := p.rooms[roomID]
	if !ok {
		return
	}
	delete(sockets, socketID)
	if len(sockets) == 0 {
		delete(p.rooms, roomID)
	}
}
