package events

import (
	"context"

	"github.com/tu-usuario/stock-ledger/internal/application/inventory"
	"github.com/tu-usuario/stock-ledger/pkg/logger"
)

var _ inventory.Notifier = (*LogPublisher)(nil)

// LogPublisher escribe las alertas en el log estructurado. Se usa cuando no
// hay Redis configurado (REDIS_ADDR vacío), típico en desarrollo local.
type LogPublisher struct {
	log *logger.Logger
}

// NewLogPublisher construye el publisher de solo log.
func NewLogPublisher(log *logger.Logger) *LogPublisher {
	return &LogPublisher{log: log}
}

// PublishLowStock registra la alerta; nunca falla.
func (p *LogPublisher) PublishLowStock(_ context.Context, alert inventory.LowStockAlert) error {
	p.log.Warn().
		Str("product_id", alert.ProductID).
		Str("sku", alert.SKU).
		Int64("current_stock", alert.CurrentStock).
		Int64("reorder_level", alert.ReorderLevel).
		Str("severity", string(alert.Severity)).
		Msg("alerta de bajo stock")
	return nil
}
