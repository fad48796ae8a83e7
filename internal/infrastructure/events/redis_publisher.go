// Package events implementa el distribuidor de alertas de inventario sobre
// Redis pub/sub. El antiguo relay de sockets global se reemplaza por este
// colaborador inyectado con ciclo de vida explícito: el core solo conoce la
// interfaz inventory.Notifier, nunca la conexión.
package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/tu-usuario/stock-ledger/internal/application/inventory"
	"github.com/tu-usuario/stock-ledger/pkg/config"
)

var _ inventory.Notifier = (*RedisPublisher)(nil)

// RedisPublisher publica alertas de bajo stock en un canal Redis. Los clientes
// suscritos (capa de sockets, UI) deciden cómo presentarlas y deduplicarlas.
type RedisPublisher struct {
	rdb     *redis.Client
	channel string
}

// NewRedisPublisher conecta el cliente Redis y verifica la conexión.
func NewRedisPublisher(ctx context.Context, cfg config.RedisConfig, channel string) (*RedisPublisher, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisPublisher{rdb: rdb, channel: channel}, nil
}

// PublishLowStock serializa la alerta como JSON y la publica en el canal.
func (p *RedisPublisher) PublishLowStock(ctx context.Context, alert inventory.LowStockAlert) error {
	payload, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("marshal alert: %w", err)
	}
	if err := p.rdb.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish alert: %w", err)
	}
	return nil
}

// Close cierra la conexión Redis (fin de sesión del publisher).
func (p *RedisPublisher) Close() error {
	return p.rdb.Close()
}
