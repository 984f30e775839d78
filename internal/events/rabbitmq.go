package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

var errPoolExhausted = errors.New("no channels available in pool")

// ChannelPool holds a fixed set of open channels on one connection, each with
// the order queue already declared.
type ChannelPool struct {
	conn      *amqp.Connection
	channels  chan *amqp.Channel
	mu        sync.Mutex
	closed    bool
	queueName string
	logger    *log.Logger
}

func NewChannelPool(url, queueName string, size int, logger *log.Logger) (*ChannelPool, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if size <= 0 {
		size = 1
	}
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect rabbitmq: %w", err)
	}
	p := &ChannelPool{
		conn:      conn,
		channels:  make(chan *amqp.Channel, size),
		queueName: queueName,
		logger:    logger,
	}
	for i := 0; i < size; i++ {
		ch, err := p.createChannel()
		if err != nil {
			p.Close()
			return nil, fmt.Errorf("create channel %d: %w", i, err)
		}
		p.channels <- ch
	}
	logger.Printf("rabbitmq: channel pool ready queue=%s size=%d", queueName, size)
	return p, nil
}

func (p *ChannelPool) createChannel() (*amqp.Channel, error) {
	ch, err := p.conn.Channel()
	if err != nil {
		return nil, err
	}
	if _, err := ch.QueueDeclare(p.queueName, true, false, false, false, nil); err != nil {
		ch.Close()
		return nil, fmt.Errorf("declare queue: %w", err)
	}
	return ch, nil
}

// Get takes a channel from the pool, replacing it if the broker closed it.
func (p *ChannelPool) Get() (*amqp.Channel, error) {
	select {
	case ch, ok := <-p.channels:
		if !ok {
			return nil, errors.New("channel pool closed")
		}
		if ch.IsClosed() {
			return p.createChannel()
		}
		return ch, nil
	default:
		return nil, errPoolExhausted
	}
}

func (p *ChannelPool) Put(ch *amqp.Channel) {
	if ch == nil || ch.IsClosed() {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		ch.Close()
		return
	}
	select {
	case p.channels <- ch:
	default:
		ch.Close()
	}
}

func (p *ChannelPool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	close(p.channels)
	for ch := range p.channels {
		ch.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
	p.logger.Printf("rabbitmq: channel pool closed")
}

// AMQPPublisher publishes persistent JSON messages to the pool's queue via
// the default exchange.
type AMQPPublisher struct {
	pool    *ChannelPool
	timeout time.Duration
	logger  *log.Logger
}

func NewAMQPPublisher(pool *ChannelPool, logger *log.Logger) *AMQPPublisher {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &AMQPPublisher{pool: pool, timeout: 5 * time.Second, logger: logger}
}

func (p *AMQPPublisher) PublishOrderConfirmed(ctx context.Context, msg OrderConfirmed) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", msg.Type, err)
	}
	ch, err := p.pool.Get()
	if err != nil {
		return fmt.Errorf("get channel: %w", err)
	}
	defer p.pool.Put(ch)

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	err = ch.PublishWithContext(ctx, "", p.pool.queueName, false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		Type:         msg.Type,
		MessageId:    msg.OrderID,
		Timestamp:    msg.Date,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", msg.Type, err)
	}
	p.logger.Printf("rabbitmq: published %s order=%s", msg.Type, msg.OrderID)
	return nil
}
