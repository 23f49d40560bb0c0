package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Bus はGatewayプロセス間でチャットイベントを中継するpub/subです
// 共有状態は持たず、イベントの配送のみを行います
type Bus interface {
	// Publish はイベントをルームのチャンネルに発行します
	// 発行元プロセス自身も購読経由で同じイベントを受け取ります
	Publish(ctx context.Context, ev BusEvent) error
	// Subscribe は全ルームのイベントを受信するチャネルを返します
	// ctxのキャンセルで購読は終了し、チャネルはcloseされます
	Subscribe(ctx context.Context) (<-chan BusEvent, error)
}

const busChannelPrefix = "chat:room:"

// RedisBus はBusのRedis pub/sub実装
type RedisBus struct {
	rdb *redis.Client
}

// NewRedisBus は新しいRedisBusを作成します
func NewRedisBus(rdb *redis.Client) *RedisBus {
	return &RedisBus{rdb: rdb}
}

func busChannel(roomID string) string {
	return busChannelPrefix + roomID
}

func (b *RedisBus) Publish(ctx context.Context, ev BusEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("bus: failed to marshal event: %w", err)
	}
	return b.rdb.Publish(ctx, busChannel(ev.RoomID), payload).Err()
}

func (b *RedisBus) Subscribe(ctx context.Context) (<-chan BusEvent, error) {
	sub := b.rdb.PSubscribe(ctx, busChannelPrefix+"*")
	// 購読確立の確認
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("bus: failed to subscribe: %w", err)
	}

	out := make(chan BusEvent, 256)
	go func() {
		defer close(out)
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var ev BusEvent
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					logrus.WithError(err).Warn("bus: dropped undecodable event")
					continue
				}
				out <- ev
			}
		}
	}()
	return out, nil
}

// LocalBus はBusのプロセス内実装
// 単一プロセス構成やテストで使用します
type LocalBus struct {
	mu   sync.Mutex
	subs []chan BusEvent
}

// NewLocalBus は新しいLocalBusを作成します
func NewLocalBus() *LocalBus {
	return &LocalBus{}
}

func (b *LocalBus) Publish(ctx context.Context, ev BusEvent) error {
	// 送信はロック下で行う。購読解除側はロック下でsubsから外してから
	// closeするので、close済みチャネルへの送信は起こらない
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, sub := range b.subs {
		select {
		case sub <- ev:
		default:
			logrus.Warn("bus: local subscriber queue full, event dropped")
		}
	}
	return nil
}

func (b *LocalBus) Subscribe(ctx context.Context) (<-chan BusEvent, error) {
	ch := make(chan BusEvent, 256)
	b.mu.Lock()
	b.subs = append(b.subs, ch)
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		for i, sub := range b.subs {
			if sub == ch {
				b.subs = append(b.subs[:i], b.subs[i+1:]...)
				break
			}
		}
		b.mu.Unlock()
		// subsから外れた後はPublishから見えないのでcloseして安全
		close(ch)
	}()
	return ch, nil
}
