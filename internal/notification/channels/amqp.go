// Package channels chứa các adapter phát sự kiện cụ thể (AMQP, ...).
package channels

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"gym_connect/internal/logger"
	"gym_connect/internal/notification"
)

// AmqpBroadcaster phát sự kiện chat lên một topic exchange của RabbitMQ.
// Routing key có dạng gym.<gymId>.<eventType> để consumer filter theo gym.
type AmqpBroadcaster struct {
	conn     *amqp091.Connection
	exchange string
	log      *logrus.Logger
}

// NewAmqpBroadcaster kết nối RabbitMQ và declare topic exchange
func NewAmqpBroadcaster(url, exchange string) (*AmqpBroadcaster, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("không thể kết nối RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("không thể mở channel RabbitMQ: %w", err)
	}
	defer ch.Close()

	if err := ch.ExchangeDeclare(
		exchange, "topic", true, false, false, false, nil,
	); err != nil {
		conn.Close()
		return nil, fmt.Errorf("không thể declare exchange %s: %w", exchange, err)
	}

	return &AmqpBroadcaster{
		conn:     conn,
		exchange: exchange,
		log:      logger.GetAppLogger(),
	}, nil
}

// RoutingKey dựng routing key cho một sự kiện
func RoutingKey(event notification.ChatEvent) string {
	return fmt.Sprintf("gym.%s.%s", event.GymID, event.Type)
}

// Emit publish sự kiện lên exchange với delivery mode persistent
func (b *AmqpBroadcaster) Emit(ctx context.Context, event notification.ChatEvent) error {
	ch, err := b.conn.Channel()
	if err != nil {
		return fmt.Errorf("không thể mở channel RabbitMQ: %w", err)
	}
	defer ch.Close()

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("không thể marshal sự kiện: %w", err)
	}

	key := RoutingKey(event)
	err = ch.PublishWithContext(
		ctx, b.exchange, key, false, false,
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			MessageId:    event.ID,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("không thể publish sự kiện %s: %w", key, err)
	}

	b.log.WithFields(logrus.Fields{
		"routing_key": key,
		"exchange":    b.exchange,
		"event_id":    event.ID,
	}).Debug("Published chat event")
	return nil
}

// Close đóng kết nối RabbitMQ
func (b *AmqpBroadcaster) Close() error {
	return b.conn.Close()
}
