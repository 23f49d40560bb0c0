package chat

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	writeWait      = 10 * time.Second    // 1メッセージの書き込みに許容する時間
	pongWait       = 60 * time.Second    // Pong受信を待つ時間
	pingPeriod     = (pongWait * 9) / 10 // Ping送信間隔。pongWaitより短いこと
	maxMessageSize = 4096                // クライアントから受信する最大メッセージサイズ
	sendQueueSize  = 256                 // クライアントごとの送信キューサイズ
)

// Client は認証済みのWebSocket接続1本を表します
// 認証はハンドシェイク時に一度だけ行われ、useridは接続の生存期間中不変です
type Client struct {
	id     string          // ソケットID (ULID)
	userID string          // 認証済みユーザーID
	ctx    context.Context // 接続スコープのコンテキスト。切断・シャットダウンで閉じる
	conn   *websocket.Conn // WebSocket接続
	send   chan []byte     // このクライアントへの送信キュー
	gw     *Gateway        // 所属するGateway
}

// readPump はWebSocketからフレームを読み取りGatewayに渡します
// 接続が切れるまでブロックし、終了時にクリーンアップを依頼します
func (c *Client) readPump() {
	defer func() {
		c.gw.dropClient(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logrus.WithError(err).WithField("socket_id", c.id).Warn("websocket read error")
			}
			return
		}

		var frame ClientFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			logrus.WithField("socket_id", c.id).Debug("dropped undecodable client frame")
			continue
		}
		// ハンドラがfalseを返したら接続を終了する
		if !c.gw.handleFrame(c, frame) {
			return
		}
	}
}

// writePump は送信キューのメッセージをWebSocketへ書き込みます
// 定期的にPingを送り、切断の検出と接続維持を行います
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Gatewayがキューを閉じた
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// enqueue はメッセージを送信キューに積みます（非ブロッキング）
// キューが一杯の場合は破棄します。遅いクライアントが中継全体を塞がないためです
func (c *Client) enqueue(msg []byte) {
	select {
	case c.send <- msg:
	default:
		logrus.WithField("socket_id", c.id).Warn("client send queue full, message dropped")
	}
}
