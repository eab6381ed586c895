package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cookieshop/internal/usecase"

	amqp "github.com/rabbitmq/amqp091-go"
)

// 注文イベントをRabbitMQのキューへ送る
type RabbitPublisher struct {
	url   string
	queue string
}

func NewRabbitPublisher(url, queue string) *RabbitPublisher {
	if queue == "" {
		queue = "orders.events"
	}
	return &RabbitPublisher{url: url, queue: queue}
}

// 1イベントごとに接続する（発行頻度は注文数程度）
func (p *RabbitPublisher) Publish(ctx context.Context, ev usecase.OrderEvent) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("rabbitmq dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("rabbitmq channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	//durableなキュー（何度宣言してもよい）
	if _, err := ch.QueueDeclare(
		p.queue,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	); err != nil {
		return fmt.Errorf("rabbitmq queue declare: %w", err)
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Type:         ev.Type,
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", p.queue, false, false, msg); err != nil {
		return fmt.Errorf("rabbitmq publish: %w", err)
	}
	return nil
}

// RABBITMQ_URL未設定のときに使う
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, usecase.OrderEvent) error {
	return nil
}

// URLがあればRabbitPublisher、無ければNopPublisher
func NewPublisher(url, queue string) usecase.EventPublisher {
	if url == "" {
		return NopPublisher{}
	}
	return NewRabbitPublisher(url, queue)
}
