package messaging

import (
	"context"

	"minierp/internal/domain"
)

// Publisher publica eventos de pedido para consumidores externos.
type Publisher interface {
	Publish(ctx context.Context, event domain.OrderEvent) error
	Close() error
}

// NopPublisher descarta eventos. Usado quando nenhum broker está configurado.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, domain.OrderEvent) error { return nil }
func (NopPublisher) Close() error                                     { return nil }
