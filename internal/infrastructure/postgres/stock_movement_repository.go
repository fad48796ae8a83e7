package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tu-usuario/stock-ledger/internal/domain"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

const movementColumns = "id, product_id, type, quantity, previous_stock, new_stock, reason, created_by, created_at"

// StockMovementRepo implementación del libro de movimientos sobre PostgreSQL
// (usable con pool o tx). Solo inserta y lee: el libro es append-only.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create persiste una entrada del libro.
func (r *StockMovementRepo) Create(ctx context.Context, movement *entity.StockMovement) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_movements (id, product_id, type, quantity, previous_stock, new_stock, reason, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	reason := (*string)(nil)
	if movement.Reason != "" {
		reason = &movement.Reason
	}
	_, err := r.q.Exec(ctx, query,
		movement.ID, movement.ProductID, movement.Type, movement.Quantity,
		movement.PreviousStock, movement.NewStock, reason,
		movement.CreatedBy, movement.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create stock movement: %w", err)
	}
	return nil
}

// GetByID obtiene una entrada por ID.
func (r *StockMovementRepo) GetByID(ctx context.Context, id string) (*entity.StockMovement, error) {
	query := "SELECT " + movementColumns + " FROM stock_movements WHERE id = $1"
	m, err := scanMovement(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

// ListByProduct lista entradas de un producto, paginadas. order: asc | desc.
func (r *StockMovementRepo) ListByProduct(ctx context.Context, productID, order string, limit, offset int) ([]*entity.StockMovement, error) {
	direction := "DESC"
	if order == repository.OrderAsc {
		direction = "ASC"
	}
	query := "SELECT " + movementColumns + " FROM stock_movements WHERE product_id = $1" +
		" ORDER BY created_at " + direction + ", id " + direction + " LIMIT $2 OFFSET $3"

	rows, err := r.q.Query(ctx, query, productID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list movements by product: %w", err)
	}
	defer rows.Close()

	var list []*entity.StockMovement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// CountByProduct cuenta las entradas de un producto.
func (r *StockMovementRepo) CountByProduct(ctx context.Context, productID string) (int, error) {
	var total int
	err := r.q.QueryRow(ctx, "SELECT count(*) FROM stock_movements WHERE product_id = $1", productID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("count movements: %w", err)
	}
	return total, nil
}

func scanMovement(row pgx.Row) (*entity.StockMovement, error) {
	var m entity.StockMovement
	var reason *string
	err := row.Scan(
		&m.ID, &m.ProductID, &m.Type, &m.Quantity,
		&m.PreviousStock, &m.NewStock, &reason, &m.CreatedBy, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if reason != nil {
		m.Reason = *reason
	}
	return &m, nil
}
