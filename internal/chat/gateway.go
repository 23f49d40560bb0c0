package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"devicehub-api/internal/idgen"
	"devicehub-api/internal/models"
	"devicehub-api/internal/service"
)

// RoomLoader はルームを永続ストアから取得します
// Gatewayは参加要求のたびに再取得し、結果をリクエストをまたいでキャッシュしません
type RoomLoader interface {
	Get(ctx context.Context, roomID string) (models.Room, error)
}

// Authenticator はハンドシェイク時の資格情報を検証します
type Authenticator interface {
	Verify(ctx context.Context, credentialHeader string) (service.Identity, error)
}

// Gateway はチャット名前空間のWebSocket接続を終端します
// 接続ごとに一度だけ認証し、参加判定・プレゼンス管理・イベントの中継を行います
//
// 参加・退出・メッセージはすべてBusに発行され、各プロセス（発行元自身を含む）が
// 購読経由で受け取ってローカルのソケットへ配送します。発生元ソケットには配送しません
type Gateway struct {
	rooms    RoomLoader
	auth     Authenticator
	bus      Bus
	presence *Presence
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[string]*Client // socketID -> client
}

// NewGateway は新しいGatewayを作成します
func NewGateway(rooms RoomLoader, auth Authenticator, bus Bus) *Gateway {
	return &Gateway{
		rooms:    rooms,
		auth:     auth,
		bus:      bus,
		presence: NewPresence(),
		clients:  make(map[string]*Client),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// OriginチェックはルーターのCORS設定に合わせて本番で絞ること
				return true
			},
		},
	}
}

// Run はBusの購読を開始し、受信イベントをローカルソケットへ配送し続けます
// ctxのキャンセルで停止します。別goroutineで実行してください
func (g *Gateway) Run(ctx context.Context) error {
	events, err := g.bus.Subscribe(ctx)
	if err != nil {
		return err
	}
	logrus.Info("chat gateway subscribed to broadcast bus")

	for ev := range events {
		switch ev.Kind {
		case EventJoin, EventLeave:
			// 参加・退出時はこのプロセスのローカルソケットから見えている
			// オンラインユーザー一覧を組み立て直して配る
			users := g.presence.OnlineUsers(ev.RoomID)
			g.deliverLocal(ev.RoomID, ev.SocketID, ServerFrame{Type: FrameOnlineUsers, Payload: users})
		case EventMessage:
			g.deliverLocal(ev.RoomID, ev.SocketID, ServerFrame{Type: FrameAddMessage, Payload: json.RawMessage(ev.Message)})
		default:
			logrus.WithField("kind", ev.Kind).Warn("unknown bus event kind")
		}
	}
	return nil
}

// HandleWebSocket はチャット名前空間へのWebSocket接続を処理します
// ハンドシェイクのtokenクエリをAuthorizationヘッダー形式に変換して検証し、
// 失敗した接続はアップグレード前に401で拒否します
func (g *Gateway) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	credential := "Bearer " + r.URL.Query().Get("token")
	identity, err := g.auth.Verify(r.Context(), credential)
	if err != nil {
		// 認証に失敗した接続は名前空間に到達させない
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logrus.WithError(err).Warn("websocket upgrade error")
		return
	}

	client := &Client{
		id:     idgen.NewULID(),
		userID: identity.UserID,
		ctx:    r.Context(),
		conn:   conn,
		send:   make(chan []byte, sendQueueSize),
		gw:     g,
	}

	g.mu.Lock()
	g.clients[client.id] = client
	g.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"socket_id": client.id,
		"user_id":   client.userID,
	}).Info("websocket connected")

	go client.writePump()
	client.readPump()
}

// handleFrame はクライアントから受信した1フレームを処理します
// 返り値がfalseの場合、呼び出し元は接続を終了します
func (g *Gateway) handleFrame(c *Client, frame ClientFrame) bool {
	switch frame.Type {
	case FrameJoin:
		return g.handleJoin(c, frame.RoomID)
	case FrameNewMessage:
		return g.handleNewMessage(c, frame.RoomID, frame.Message)
	default:
		logrus.WithFields(logrus.Fields{
			"socket_id": c.id,
			"type":      frame.Type,
		}).Debug("unknown frame type ignored")
		return true
	}
}

// handleJoin はルームのチャンネル購読要求を処理します
// ルームを毎回ストアから取得し、永続化済みメンバーでなければ接続を切断します
// 参加の成否にかかわらず、REST側のメンバー一覧は変更しません
func (g *Gateway) handleJoin(c *Client, roomID string) bool {
	logCtx := logrus.WithFields(logrus.Fields{
		"socket_id": c.id,
		"user_id":   c.userID,
		"room_id":   roomID,
	})

	room, err := g.rooms.Get(c.ctx, roomID)
	if err != nil {
		// RoomNotFoundもストア障害も同じ扱い: 即切断、リトライなし
		logCtx.WithError(err).Warn("join rejected: room lookup failed")
		return false
	}
	if !room.HasMember(c.userID) {
		logCtx.Warn("join rejected: not a member")
		return false
	}

	g.presence.Add(roomID, c.id, c.userID)
	logCtx.Info("socket joined room channel")

	if err := g.bus.Publish(c.ctx, BusEvent{
		Kind:     EventJoin,
		RoomID:   roomID,
		UserID:   c.userID,
		SocketID: c.id,
	}); err != nil {
		logCtx.WithError(err).Error("failed to publish join event")
	}
	return true
}

// handleNewMessage はメッセージをルームの他メンバーへ中継します
// 本文は検査も永続化もせず、そのまま中継します。送信者自身には返しません
func (g *Gateway) handleNewMessage(c *Client, roomID string, message json.RawMessage) bool {
	if !g.presence.Joined(roomID, c.id) {
		// 購読していないルームへの送信は黙って破棄
		logrus.WithFields(logrus.Fields{
			"socket_id": c.id,
			"room_id":   roomID,
		}).Debug("message dropped: socket not joined to room")
		return true
	}

	if err := g.bus.Publish(c.ctx, BusEvent{
		Kind:     EventMessage,
		RoomID:   roomID,
		UserID:   c.userID,
		SocketID: c.id,
		Message:  message,
	}); err != nil {
		logrus.WithError(err).Error("failed to publish message event")
	}
	return true
}

// dropClient は切断したクライアントの後片付けを行います
// 購読していた各ルームについて退出イベントを発行し、プレゼンスを破棄します
func (g *Gateway) dropClient(c *Client) {
	g.mu.Lock()
	if _, ok := g.clients[c.id]; ok {
		delete(g.clients, c.id)
		close(c.send)
	}
	g.mu.Unlock()

	roomIDs := g.presence.RemoveAll(c.id)
	for _, roomID := range roomIDs {
		if err := g.bus.Publish(c.ctx, BusEvent{
			Kind:     EventLeave,
			RoomID:   roomID,
			UserID:   c.userID,
			SocketID: c.id,
		}); err != nil {
			logrus.WithError(err).Error("failed to publish leave event")
		}
	}

	logrus.WithFields(logrus.Fields{
		"socket_id": c.id,
		"user_id":   c.userID,
		"rooms":     len(roomIDs),
	}).Info("websocket disconnected")
}

// deliverLocal はフレームをルーム購読中のローカルソケットへ配送します
// excludeSocketID（イベント発生元）には配送しません
func (g *Gateway) deliverLocal(roomID, excludeSocketID string, frame ServerFrame) {
	payload, err := json.Marshal(frame)
	if err != nil {
		logrus.WithError(err).Error("failed to marshal server frame")
		return
	}

	sockets := g.presence.Sockets(roomID)
	g.mu.RLock()
	defer g.mu.RUnlock()
	for socketID := range sockets {
		if socketID == excludeSocketID {
			continue
		}
		if client, ok := g.clients[socketID]; ok {
			client.enqueue(payload)
		}
	}
}
