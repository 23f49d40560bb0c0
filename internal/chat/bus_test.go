package chat

import (
	"context"
	"testing"
	"time"
)

func TestLocalBus_PublishDeliversToSubscriber(t *testing.T) {
	bus := NewLocalBus()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := bus.Subscribe(ctx)
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}

	want := BusEvent{Kind: EventJoin, RoomID: "r1", UserID: "u1", SocketID: "s1"}
	if err := bus.Publish(ctx, want); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	select {
	case got := <-ch:
		if got.Kind != want.Kind || got.RoomID != want.RoomID || got.SocketID != want.SocketID {
			t.Errorf("got %+v, want %+v", got, want)
		}
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
	}
}

func TestLocalBus_AllSubscribersReceive(t *testing.T) {
	bus := NewLocalBus()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch1, _ := bus.Subscribe(ctx)
	ch2, _ := bus.Subscribe(ctx)

	_ = bus.Publish(ctx, BusEvent{Kind: EventMessage, RoomID: "r1"})

	for i, ch := range []<-chan BusEvent{ch1, ch2} {
		select {
		case got := <-ch:
			if got.Kind != EventMessage {
				t.Errorf("subscriber %d: got kind %q, want %q", i, got.Kind, EventMessage)
			}
		case <-time.After(time.Second):
			t.Fatalf("subscriber %d did not receive the event", i)
		}
	}
}

func TestLocalBus_PublishDuringCancelDoesNotPanic(t *testing.T) {
	bus := NewLocalBus()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 1000; i++ {
			_ = bus.Publish(context.Background(), BusEvent{Kind: EventLeave, RoomID: "r1"})
		}
	}()

	// 購読と解除を発行と同時並行で繰り返しても、close済みチャネルへの
	// 送信でパニックしないこと
	for i := 0; i < 200; i++ {
		ctx, cancel := context.WithCancel(context.Background())
		ch, err := bus.Subscribe(ctx)
		if err != nil {
			t.Fatalf("Subscribe failed: %v", err)
		}
		cancel()
		for range ch {
		}
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("publisher did not finish")
	}
}

func TestLocalBus_CancelClosesChannel(t *testing.T) {
	bus := NewLocalBus()
	ctx, cancel := context.WithCancel(context.Background())

	ch, _ := bus.Subscribe(ctx)
	cancel()

	select {
	case _, open := <-ch:
		if open {
			t.Error("channel should be closed after context cancel")
		}
	case <-time.After(time.Second):
		t.Fatal("channel not closed after context cancel")
	}
}
