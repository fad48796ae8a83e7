package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tu-usuario/stock-ledger/internal/domain"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = "id, sku, name, category, price, stock, min_stock_level, max_stock_level, unit, status, created_at, updated_at"

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un producto nuevo. Stock inicia en 0.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	query := `
		INSERT INTO products (id, sku, name, category, price, stock, min_stock_level, max_stock_level, unit, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		product.ID, product.SKU, product.Name, product.Category, product.Price,
		product.Stock, product.MinStockLevel, product.MaxStockLevel,
		product.Unit, product.Status, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	query := "SELECT " + productColumns + " FROM products WHERE id = $1"
	return r.scanOne(r.q.QueryRow(ctx, query, id), "get product")
}

// GetBySKU obtiene un producto por SKU.
func (r *ProductRepo) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	query := "SELECT " + productColumns + " FROM products WHERE sku = $1"
	return r.scanOne(r.q.QueryRow(ctx, query, sku), "get product by sku")
}

// GetForUpdate obtiene el producto y bloquea la fila (SELECT FOR UPDATE).
// Serializa los movimientos concurrentes contra el mismo producto; filas de
// productos distintos no comparten bloqueo.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	query := "SELECT " + productColumns + " FROM products WHERE id = $1 FOR UPDATE"
	return r.scanOne(r.q.QueryRow(ctx, query, id), "get product for update")
}

// Update actualiza los campos de catálogo. No toca Stock (se maneja vía movimientos).
func (r *ProductRepo) Update(ctx context.Context, product *entity.Product) error {
	query := `
		UPDATE products
		SET name = $2, category = $3, price = $4, min_stock_level = $5, max_stock_level = $6, unit = $7, updated_at = $8
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		product.ID, product.Name, product.Category, product.Price,
		product.MinStockLevel, product.MaxStockLevel, product.Unit, product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateStock escribe el nuevo stock. Solo debe llamarse con la fila ya
// bloqueada (GetForUpdate) dentro de la transacción del movimiento.
func (r *ProductRepo) UpdateStock(ctx context.Context, productID string, stock int64) error {
	query := `UPDATE products SET stock = $2, updated_at = now() WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query, productID, stock)
	if err != nil {
		return fmt.Errorf("update stock: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateStatus cambia el estado del producto (soft-disable).
func (r *ProductRepo) UpdateStatus(ctx context.Context, productID, status string) error {
	query := `UPDATE products SET status = $2, updated_at = now() WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query, productID, status)
	if err != nil {
		return fmt.Errorf("update product status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista productos con paginación y filtro opcional por estado.
func (r *ProductRepo) List(ctx context.Context, status string, limit, offset int) ([]*entity.Product, error) {
	query := "SELECT " + productColumns + " FROM products"
	args := []any{}
	pos := 1
	if status != "" {
		query += fmt.Sprintf(" WHERE status = $%d", pos)
		args = append(args, status)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY name LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func (r *ProductRepo) scanOne(row pgx.Row, op string) (*entity.Product, error) {
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	var category *string
	err := row.Scan(
		&p.ID, &p.SKU, &p.Name, &category, &p.Price, &p.Stock,
		&p.MinStockLevel, &p.MaxStockLevel, &p.Unit, &p.Status,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if category != nil {
		p.Category = *category
	}
	return &p, nil
}
