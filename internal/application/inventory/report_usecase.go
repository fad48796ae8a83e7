package inventory

import (
	"context"

	"github.com/tu-usuario/stock-ledger/internal/domain"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
)

// reportMaxEntries tope de entradas incluidas en un reporte PDF.
const reportMaxEntries = 500

// LedgerPDFGenerator genera la representación PDF del historial de
// movimientos de un producto.
type LedgerPDFGenerator interface {
	GenerateLedgerPDF(ctx context.Context, product *entity.Product, movements []*entity.StockMovement) ([]byte, error)
}

// ReportUseCase genera el reporte PDF del libro de movimientos de un producto.
type ReportUseCase struct {
	movRepo     repository.StockMovementRepository
	productRepo repository.ProductRepository
	pdf         LedgerPDFGenerator
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
	pdf LedgerPDFGenerator,
) *ReportUseCase {
	return &ReportUseCase{movRepo: movRepo, productRepo: productRepo, pdf: pdf}
}

// GenerateLedgerReport devuelve los bytes del PDF con las últimas entradas del
// libro del producto (hasta reportMaxEntries, más recientes primero).
func (uc *ReportUseCase) GenerateLedgerReport(ctx context.Context, productID string) ([]byte, error) {
	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	movements, err := uc.movRepo.ListByProduct(ctx, productID, repository.OrderDesc, reportMaxEntries, 0)
	if err != nil {
		return nil, err
	}
	return uc.pdf.GenerateLedgerPDF(ctx, product, movements)
}
