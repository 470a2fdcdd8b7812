package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/nurpe/hvut-filing/internal/model"
)

type FilingRepository struct {
	db *gorm.DB
}

func NewFilingRepository(db *gorm.DB) *FilingRepository {
	return &FilingRepository{db: db}
}

// Transaction runs fn against a transaction-scoped repository. Used per
// month: a failure rolls back that month's rows only.
func (r *FilingRepository) Transaction(ctx context.Context, fn func(*FilingRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&FilingRepository{db: tx})
	})
}

// CreateFiling inserts the filing row up front; its identifier seeds the
// artifact key scheme before any document is generated.
func (r *FilingRepository) CreateFiling(
	ctx context.Context,
	userID uuid.UUID,
	month string,
	vehicleCount int,
	totalTax decimal.Decimal,
	payload []byte,
) (*model.Filing, error) {
	var saved model.Filing
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO filings (user_id, month, vehicle_count, total_tax, payload)
		VALUES (?, ?, ?, ?, ?)
		RETURNING
			id,
			user_id,
			month,
			xml_key,
			pdf_key,
			vehicle_count,
			total_tax,
			payload,
			created_at
	`, userID, month, vehicleCount, totalTax, payload).Scan(&saved).Error
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

// SetDocumentKey records a stored artifact on the filing row and upserts
// the document link keyed on (filing_id, document_type).
func (r *FilingRepository) SetDocumentKey(
	ctx context.Context,
	filingID uuid.UUID,
	docType model.DocumentType,
	key string,
) error {
	var column string
	switch docType {
	case model.DocumentXML:
		column = "xml_key"
	case model.DocumentPDF:
		column = "pdf_key"
	default:
		return fmt.Errorf("unknown document type %q", docType)
	}

	if err := r.db.WithContext(ctx).Exec(
		fmt.Sprintf("UPDATE filings SET %s = ? WHERE id = ?", column),
		key, filingID,
	).Error; err != nil {
		return err
	}

	return r.db.WithContext(ctx).Exec(`
		INSERT INTO filing_documents (filing_id, document_type, object_key)
		VALUES (?, ?, ?)
		ON CONFLICT (filing_id, document_type)
		DO UPDATE SET object_key = EXCLUDED.object_key
	`, filingID, docType, key).Error
}

func (r *FilingRepository) GetFiling(ctx context.Context, id uuid.UUID) (*model.Filing, error) {
	var filing model.Filing
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			id,
			user_id,
			month,
			xml_key,
			pdf_key,
			vehicle_count,
			total_tax,
			payload,
			created_at
		FROM filings
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&filing).Error
	if err != nil {
		return nil, err
	}
	if filing.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &filing, nil
}

// ListFilingsForPeriod returns a user's filings with months inside the
// inclusive YYYYMM range, oldest month first.
func (r *FilingRepository) ListFilingsForPeriod(
	ctx context.Context,
	userID uuid.UUID,
	fromMonth, toMonth string,
) ([]model.Filing, error) {
	var filings []model.Filing
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			id,
			user_id,
			month,
			xml_key,
			pdf_key,
			vehicle_count,
			total_tax,
			payload,
			created_at
		FROM filings
		WHERE user_id = ?
			AND month >= ?
			AND month <= ?
		ORDER BY month ASC, created_at ASC
	`, userID, fromMonth, toMonth).Scan(&filings).Error
	if err != nil {
		return nil, err
	}
	return filings, nil
}
