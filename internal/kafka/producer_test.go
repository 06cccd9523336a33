package kafka

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func waitClosedWithin(t *testing.T, p *Producer, d time.Duration) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		p.WaitClosed()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(d):
		t.Fatal("WaitClosed did not return")
	}
}

func TestCloseUnblocksWaitClosed(t *testing.T) {
	p := NewProducer([]string{"127.0.0.1:1"}, "checkout.session.created", 8)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p.Start(ctx)

	p.Close()
	cancel()
	waitClosedWithin(t, p, 5*time.Second)
}

func TestCancelThenCloseDoesNotPanic(t *testing.T) {
	p := NewProducer([]string{"127.0.0.1:1"}, "checkout.session.created", 8)
	ctx, cancel := context.WithCancel(context.Background())
	p.Start(ctx)

	cancel()
	waitClosedWithin(t, p, 5*time.Second)

	require.NotPanics(t, func() { p.Close() })
}

func TestCloseIsIdempotent(t *testing.T) {
	p := NewProducer([]string{"127.0.0.1:1"}, "checkout.session.created", 8)
	p.Start(context.Background())

	p.Close()
	require.NotPanics(t, func() { p.Close() })
	waitClosedWithin(t, p, 5*time.Second)
}

func TestPublishAfterCloseIsDropped(t *testing.T) {
	p := NewProducer([]string{"127.0.0.1:1"}, "checkout.session.created", 8)
	p.Start(context.Background())

	p.Close()
	waitClosedWithin(t, p, 5*time.Second)

	require.NotPanics(t, func() {
		p.Publish([]byte("cart-1"), []byte(`{}`))
	})
	require.Empty(t, p.inbox)
}
