package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher отправляет события о записях; ошибки не должны прерывать основной сценарий
type Publisher interface {
	Publish(ctx context.Context, event AppointmentEvent) error
	Close() error
}

// AMQPPublisher издатель в RabbitMQ
// Соединение устанавливается при первой публикации и переустанавливается после обрыва
type AMQPPublisher struct {
	url   string
	queue string
	log   Logger

	mu       sync.Mutex
	conn     *amqp.Connection
	ch       *amqp.Channel
	declared bool
	closed   bool
}

// NewAMQPPublisher создает издателя; очередь используется как ключ маршрутизации обменника по умолчанию
func NewAMQPPublisher(url, queue string, log Logger) *AMQPPublisher {
	return &AMQPPublisher{
		url:   url,
		queue: queue,
		log:   log,
	}
}

// Publish отправляет событие как persistent-сообщение
func (p *AMQPPublisher) Publish(ctx context.Context, event AppointmentEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMarshal, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrClosed
	}

	ch, err := p.channel()
	if err != nil {
		p.log.Warn("Publish: broker unavailable type=%s, appointment_id=%d: %v", event.Type, event.AppointmentID, err)
		return fmt.Errorf("%w: %v", ErrPublish, err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Type:         event.Type,
		MessageId:    event.Reference,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx, "", p.queue, false, false, msg); err != nil {
		p.reset()
		p.log.Warn("Publish: failed type=%s, appointment_id=%d: %v", event.Type, event.AppointmentID, err)
		return fmt.Errorf("%w: %v", ErrPublish, err)
	}

	p.log.Info("Publish: sent type=%s, appointment_id=%d", event.Type, event.AppointmentID)
	return nil
}

// channel возвращает открытый канал, при необходимости переподключаясь; вызывается под mu
func (p *AMQPPublisher) channel() (*amqp.Channel, error) {
	if p.ch != nil && !p.ch.IsClosed() && p.conn != nil && !p.conn.IsClosed() {
		return p.ch, nil
	}
	p.reset()

	conn, err := amqp.Dial(p.url)
	if err != nil {
		return nil, fmt.Errorf("dial: %v", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("channel open: %v", err)
	}

	// Очередь durable, объявление идемпотентно
	if !p.declared {
		if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
			_ = ch.Close()
			_ = conn.Close()
			return nil, fmt.Errorf("queue declare: %v", err)
		}
		p.declared = true
	}

	p.conn, p.ch = conn, ch
	return ch, nil
}

func (p *AMQPPublisher) reset() {
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
}

// Close закрывает соединение с брокером
func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.closed = true
	p.reset()
	return nil
}

// NopPublisher издатель для отключённых событий
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, AppointmentEvent) error { return nil }

func (NopPublisher) Close() error { return nil }
