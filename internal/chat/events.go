// Package chat はリアルタイムチャットの中核を提供します
// WebSocket接続の認証・ルームへの参加判定・プロセス間のイベント中継を担当します
package chat

import "encoding/json"

// クライアントから受信するフレームのタイプ
const (
	FrameJoin       = "join"       // ルームのチャンネル購読を要求
	FrameNewMessage = "newMessage" // ルームへのメッセージ送信
)

// クライアントへ送信するフレームのタイプ
const (
	FrameOnlineUsers = "onlineUsers" // 参加/退出時のオンラインユーザー一覧
	FrameAddMessage  = "addMessage"  // 他メンバーからのメッセージ
)

// ClientFrame はクライアントから受信するメッセージの構造
type ClientFrame struct {
	Type    string          `json:"type"`              // フレームタイプ
	RoomID  string          `json:"roomId"`            // 対象ルームID
	Message json.RawMessage `json:"message,omitempty"` // newMessage時のペイロード（中身は関知しない）
}

// ServerFrame はクライアントへ送信するメッセージの構造
type ServerFrame struct {
	Type    string `json:"type"`    // フレームタイプ
	Payload any    `json:"payload"` // ペイロード
}

// Busで中継するイベントの種別
const (
	EventJoin    = "join"    // ソケットがルームに参加した
	EventLeave   = "leave"   // ソケットがルームを離れた（切断含む）
	EventMessage = "message" // メッセージ中継
)

// BusEvent はGatewayプロセス間で中継するイベント
// SocketID は発生元ソケットのIDで、送信元自身への再送を抑止するために使います
type BusEvent struct {
	Kind     string          `json:"kind"`
	RoomID   string          `json:"roomId"`
	UserID   string          `json:"userId"`
	SocketID string          `json:"socketId"`
	Message  json.RawMessage `json:"message,omitempty"`
}
