package kafka

import (
	"context"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

// Producer is an async publisher: Publish drops a message into the inbox and
// a single goroutine writes it out. Close flushes the remaining messages.
type Producer struct {
	w     *kafka.Writer
	inbox chan kafka.Message
	stop  chan struct{}
	done  chan struct{}
	once  sync.Once
}

func NewProducer(brokers []string, topic string, buf int) *Producer {
	return &Producer{
		w: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			Async:        true,
		},
		inbox: make(chan kafka.Message, buf),
		stop:  make(chan struct{}),
		done:  make(chan struct{}),
	}
}

func (p *Producer) Start(ctx context.Context) {
	go func() {
		defer close(p.done)
		defer p.w.Close()
		for {
			select {
			case m := <-p.inbox:
				_ = p.w.WriteMessages(context.Background(), m)
			case <-p.stop:
				p.drain()
				return
			case <-ctx.Done():
				p.drain()
				return
			}
		}
	}()
}

// drain writes out whatever is already buffered without blocking for more.
func (p *Producer) drain() {
	for {
		select {
		case m := <-p.inbox:
			_ = p.w.WriteMessages(context.Background(), m)
		default:
			return
		}
	}
}

// Publish is best effort: after Close the message is dropped.
func (p *Producer) Publish(key, value []byte, headers ...kafka.Header) {
	m := kafka.Message{
		Key:     key,
		Value:   value,
		Time:    time.Now(),
		Headers: headers,
	}
	select {
	case <-p.stop:
		return
	default:
	}
	select {
	case <-p.stop:
	case p.inbox <- m:
	}
}

// Close signals the loop to flush buffered messages and exit. Safe to call
// more than once.
func (p *Producer) Close() { p.once.Do(func() { close(p.stop) }) }

// WaitClosed blocks until the loop has finished.
func (p *Producer) WaitClosed() { <-p.done }
