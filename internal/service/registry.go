package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nurpe/hvut-filing/internal/model"
	"github.com/nurpe/hvut-filing/internal/repository"
)

// FilingRegistry is the persistence surface the pipeline needs. The
// transaction closure receives a registry scoped to that transaction.
type FilingRegistry interface {
	Transaction(ctx context.Context, fn func(FilingRegistry) error) error
	CreateFiling(ctx context.Context, userID uuid.UUID, month string, vehicleCount int, totalTax decimal.Decimal, payload []byte) (*model.Filing, error)
	SetDocumentKey(ctx context.Context, filingID uuid.UUID, docType model.DocumentType, key string) error
	GetFiling(ctx context.Context, id uuid.UUID) (*model.Filing, error)
	ListFilingsForPeriod(ctx context.Context, userID uuid.UUID, fromMonth, toMonth string) ([]model.Filing, error)
}

// gormRegistry adapts the gorm repository to FilingRegistry.
type gormRegistry struct {
	repo *repository.FilingRepository
}

func (g gormRegistry) Transaction(ctx context.Context, fn func(FilingRegistry) error) error {
	return g.repo.Transaction(ctx, func(tx *repository.FilingRepository) error {
		return fn(gormRegistry{repo: tx})
	})
}

func (g gormRegistry) CreateFiling(ctx context.Context, userID uuid.UUID, month string, vehicleCount int, totalTax decimal.Decimal, payload []byte) (*model.Filing, error) {
	return g.repo.CreateFiling(ctx, userID, month, vehicleCount, totalTax, payload)
}

func (g gormRegistry) SetDocumentKey(ctx context.Context, filingID uuid.UUID, docType model.DocumentType, key string) error {
	return g.repo.SetDocumentKey(ctx, filingID, docType, key)
}

func (g gormRegistry) GetFiling(ctx context.Context, id uuid.UUID) (*model.Filing, error) {
	return g.repo.GetFiling(ctx, id)
}

func (g gormRegistry) ListFilingsForPeriod(ctx context.Context, userID uuid.UUID, fromMonth, toMonth string) ([]model.Filing, error) {
	return g.repo.ListFilingsForPeriod(ctx, userID, fromMonth, toMonth)
}
