package chat

import (
	"sort"
	"testing"
)

func TestPresence_AddAndOnlineUsers(t *testing.T) {
	p := NewPresence()
	p.Add("r1", "s1", "u1")
	p.Add("r1", "s2", "u2")

	users := p.OnlineUsers("r1")
	sort.Strings(users)
	if len(users) != 2 || users[0] != "u1" || users[1] != "u2" {
		t.Errorf("got %v, want [u1 u2]", users)
	}
}

func TestPresence_DuplicateUserCountedOnce(t *testing.T) {
	p := NewPresence()
	// 同一ユーザーが同じルームに複数ソケットで参加した場合も一覧では1件
	p.Add("r1", "s1", "u1")
	p.Add("r1", "s2", "u1")

	users := p.OnlineUsers("r1")
	if len(users) != 1 || users[0] != "u1" {
		t.Errorf("got %v, want [u1]", users)
	}
}

func TestPresence_Joined(t *testing.T) {
	p := NewPresence()
	p.Add("r1", "s1", "u1")

	if !p.Joined("r1", "s1") {
		t.Error("s1 should be joined to r1")
	}
	if p.Joined("r2", "s1") {
		t.Error("s1 should not be joined to r2")
	}
	if p.Joined("r1", "s2") {
		t.Error("s2 should not be joined to r1")
	}
}

func TestPresence_Remove(t *testing.T) {
	p := NewPresence()
	p.Add("r1", "s1", "u1")
	p.Remove("r1", "s1")

	if p.Joined("r1", "s1") {
		t.Error("s1 should have been removed from r1")
	}
	if got := p.OnlineUsers("r1"); len(got) != 0 {
		t.Errorf("got %v, want empty", got)
	}
}

func TestPresence_RemoveAllReturnsJoinedRooms(t *testing.T) {
	p := NewPresence()
	p.Add("r1", "s1", "u1")
	p.Add("r2", "s1", "u1")
	p.Add("r1", "s2", "u2")

	rooms := p.RemoveAll("s1")
	sort.Strings(rooms)
	if len(rooms) != 2 || rooms[0] != "r1" || rooms[1] != "r2" {
		t.Errorf("got %v, want [r1 r2]", rooms)
	}

	// 他のソケットの購読は残る
	if !p.Joined("r1", "s2") {
		t.Error("s2 should still be joined to r1")
	}
	if got := p.OnlineUsers("r2"); len(got) != 0 {
		t.Errorf("r2 should be empty, got %v", got)
	}
}

func TestPresence_SocketsReturnsCopy(t *testing.T) {
	p := NewPresence()
	p.Add("r1", "s1", "u1")

	sockets := p.Sockets("r1")
	delete(sockets, "s1")

	if !p.Joined("r1", "s1") {
		t.Error("mutating the returned map must not affect presence state")
	}
}
