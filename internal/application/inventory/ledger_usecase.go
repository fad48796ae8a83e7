package inventory

import (
	"context"

	"github.com/tu-usuario/stock-ledger/internal/domain"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
)

// LedgerUseCase consultas de solo lectura sobre el libro de movimientos.
type LedgerUseCase struct {
	movRepo     repository.StockMovementRepository
	productRepo repository.ProductRepository
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(movRepo repository.StockMovementRepository, productRepo repository.ProductRepository) *LedgerUseCase {
	return &LedgerUseCase{movRepo: movRepo, productRepo: productRepo}
}

// LedgerPage página del libro de movimientos de un producto.
type LedgerPage struct {
	Items []*entity.StockMovement
	Total int
}

// ListByProduct devuelve una página del libro de un producto, más recientes
// primero por defecto; order=asc para orden cronológico. Nunca devuelve la
// historia completa de una vez.
func (uc *LedgerUseCase) ListByProduct(ctx context.Context, productID, order string, limit, offset int) (*LedgerPage, error) {
	switch order {
	case "":
		order = repository.OrderDesc
	case repository.OrderAsc, repository.OrderDesc:
	default:
		return nil, domain.ErrInvalidInput
	}

	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}

	items, err := uc.movRepo.ListByProduct(ctx, productID, order, limit, offset)
	if err != nil {
		return nil, err
	}
	total, err := uc.movRepo.CountByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return &LedgerPage{Items: items, Total: total}, nil
}
