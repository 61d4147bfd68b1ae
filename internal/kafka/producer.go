package kafka

import (
	"context"
	"errors"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
	"sync"
	"time"
)

var ErrProducerClosed = errors.New("producer closed")

// Producer buffers messages in an inbox and writes them asynchronously.
type Producer struct {
	w       *kafka.Writer
	log     *zap.Logger
	inbox   chan kafka.Message
	closeCh chan struct{}

	mu     sync.RWMutex
	closed bool
}

func NewProducer(brokers []string, topic string, buf int, log *zap.Logger) *Producer {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("topic", topic))
	return &Producer{
		w: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			Async:        true,
			Completion: func(msgs []kafka.Message, err error) {
				if err != nil {
					log.Error("kafka write failed", zap.Int("messages", len(msgs)), zap.Error(err))
				}
			},
		},
		log:     log,
		inbox:   make(chan kafka.Message, buf),
		closeCh: make(chan struct{}),
	}
}

// Start runs the writer loop until Close is called.
func (p *Producer) Start() {
	go func() {
		defer close(p.closeCh)
		for m := range p.inbox {
			if err := p.w.WriteMessages(context.Background(), m); err != nil {
				p.log.Error("kafka enqueue failed", zap.ByteString("key", m.Key), zap.Error(err))
			}
		}
		if err := p.w.Close(); err != nil {
			p.log.Warn("kafka writer close", zap.Error(err))
		}
	}()
}

func (p *Producer) Publish(ctx context.Context, key, value []byte, headers ...kafka.Header) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrProducerClosed
	}
	select {
	case p.inbox <- kafka.Message{Key: key, Value: value, Time: time.Now(), Headers: headers}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting messages; the loop flushes what is buffered and exits.
func (p *Producer) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	close(p.inbox)
}

func (p *Producer) WaitClosed() { <-p.closeCh }
