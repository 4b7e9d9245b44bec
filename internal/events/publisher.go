// Package events публикует доменные события сервиса аутентификации.
package events

import (
	"context"
	"fmt"
	"sync"

	"github.com/magabrotheeeer/auth-service/internal/lib/rabbitmq"
)

// Publisher публикует события в обменник RabbitMQ.
// amqp.Channel не рассчитан на параллельную публикацию, поэтому вызовы
// сериализуются мьютексом.
type Publisher struct {
	mu       sync.Mutex
	ch       rabbitmq.Channel
	exchange string
}

// NewPublisher создает Publisher поверх открытого канала.
func NewPublisher(ch rabbitmq.Channel, exchange string) *Publisher {
	return &Publisher{ch: ch, exchange: exchange}
}

// Publish отправляет payload с ключом маршрутизации routingKey.
func (p *Publisher) Publish(ctx context.Context, routingKey string, payload any) error {
	const op = "events.Publish"
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := rabbitmq.PublishMessage(p.ch, p.exchange, routingKey, payload); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Noop отбрасывает события. Используется, когда брокер не настроен.
type Noop struct{}

// Publish ничего не делает.
func (Noop) Publish(context.Context, string, any) error { return nil }
