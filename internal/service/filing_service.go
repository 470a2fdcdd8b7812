package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/nurpe/hvut-filing/internal/audit"
	"github.com/nurpe/hvut-filing/internal/config"
	"github.com/nurpe/hvut-filing/internal/layout"
	"github.com/nurpe/hvut-filing/internal/model"
	"github.com/nurpe/hvut-filing/internal/render"
	"github.com/nurpe/hvut-filing/internal/repository"
	"github.com/nurpe/hvut-filing/internal/storage"
	"github.com/nurpe/hvut-filing/internal/tax"
)

type ReturnBuilder interface {
	Build(req *render.Request) ([]byte, error)
}

type OverlayRenderer interface {
	Render(req *render.Request) ([]byte, error)
}

type SummaryExporter interface {
	Generate(export model.FilingExport) ([]byte, error)
}

type FilingService struct {
	registry     FilingRegistry
	store        storage.ObjectStore
	resolver     *storage.Resolver
	returns      ReturnBuilder
	overlay      OverlayRenderer
	exporter     SummaryExporter
	layouts      *layout.Store
	audit        audit.Sink
	log          zerolog.Logger
	defaultMonth string
}

func NewFilingService(
	repo *repository.FilingRepository,
	store storage.ObjectStore,
	returns ReturnBuilder,
	overlay OverlayRenderer,
	exporter SummaryExporter,
	layouts *layout.Store,
	sink audit.Sink,
	cfg *config.Config,
	log zerolog.Logger,
) *FilingService {
	return newFilingService(gormRegistry{repo: repo}, store, returns, overlay, exporter, layouts, sink, cfg.Filing.DefaultMonth, log)
}

func newFilingService(
	registry FilingRegistry,
	store storage.ObjectStore,
	returns ReturnBuilder,
	overlay OverlayRenderer,
	exporter SummaryExporter,
	layouts *layout.Store,
	sink audit.Sink,
	defaultMonth string,
	log zerolog.Logger,
) *FilingService {
	return &FilingService{
		registry:     registry,
		store:        store,
		resolver:     storage.NewResolver(store),
		returns:      returns,
		overlay:      overlay,
		exporter:     exporter,
		layouts:      layouts,
		audit:        sink,
		log:          log.With().Str("component", "filing").Logger(),
		defaultMonth: defaultMonth,
	}
}

type SubmissionInput struct {
	Principal     model.Principal
	Business      model.Business
	Vehicles      []model.Vehicle
	Summaries     map[model.WeightCategory]model.CategorySummary
	AdditionalTax decimal.Decimal
	Credits       decimal.Decimal
	Flags         model.ReturnFlags
	Preparer      *model.Preparer
	Designee      *model.Designee
	Payment       *model.Payment
	DefaultMonth  string
}

// MonthResult is the per-month outcome of a submission. A failed month
// never aborts the others.
type MonthResult struct {
	Month    string    `json:"month"`
	FilingID uuid.UUID `json:"filing_id,omitempty"`
	XMLKey   string    `json:"xml_key,omitempty"`
	PDFKey   string    `json:"pdf_key,omitempty"`
	Success  bool      `json:"success"`
	Reason   string    `json:"reason,omitempty"`
}

// ProcessSubmission validates the fleet, splits it into per-month groups
// and files each group independently, strictly in order.
func (s *FilingService) ProcessSubmission(ctx context.Context, input SubmissionInput) ([]MonthResult, error) {
	if err := validateSubmission(input); err != nil {
		return nil, err
	}

	defaultMonth := input.DefaultMonth
	if defaultMonth == "" {
		defaultMonth = s.defaultMonth
	}

	groups, err := tax.Partition(input.Business, input.Vehicles, defaultMonth)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	payload, err := json.Marshal(submissionPayload(input))
	if err != nil {
		return nil, fmt.Errorf("serialize submission: %w", err)
	}

	s.audit.Record(ctx, audit.Event{
		Action: "submission_received",
		UserID: input.Principal.UserID,
		Detail: fmt.Sprintf("%d vehicles, %d months", len(input.Vehicles), len(groups)),
	})

	results := make([]MonthResult, 0, len(groups))
	for _, group := range groups {
		results = append(results, s.processMonth(ctx, input, group, payload))
	}
	return results, nil
}

func (s *FilingService) processMonth(ctx context.Context, input SubmissionInput, group model.MonthGroup, payload []byte) MonthResult {
	breakdown, err := tax.Assemble(group, input.Summaries, input.AdditionalTax, input.Credits)
	if err != nil {
		s.log.Error().Err(err).Str("month", group.Month).Msg("assemble month failed")
		return MonthResult{Month: group.Month, Reason: err.Error()}
	}

	req := &render.Request{
		Group:     group,
		Breakdown: breakdown,
		Flags:     input.Flags,
		Preparer:  input.Preparer,
		Designee:  input.Designee,
		Payment:   input.Payment,
	}

	var (
		filingID uuid.UUID
		xmlKey   string
		pdfKey   string
	)

	err = s.registry.Transaction(ctx, func(tx FilingRegistry) error {
		filing, err := tx.CreateFiling(ctx, input.Principal.UserID, group.Month, len(group.Vehicles), breakdown.Line4Total, payload)
		if err != nil {
			return fmt.Errorf("create filing: %w", err)
		}
		filingID = filing.ID

		xmlBytes, err := s.returns.Build(req)
		if err != nil {
			return fmt.Errorf("build xml return: %w", err)
		}
		key := storage.ArtifactKey(filing.ID, model.DocumentXML)
		if putErr := s.store.Put(ctx, key, xmlBytes, "application/xml"); putErr != nil {
			s.log.Warn().Err(putErr).Str("key", key).Msg("xml upload failed, filing kept without xml key")
		} else {
			if err := tx.SetDocumentKey(ctx, filing.ID, model.DocumentXML, key); err != nil {
				return fmt.Errorf("record xml key: %w", err)
			}
			xmlKey = key
		}

		pdfBytes, err := s.overlay.Render(req)
		if err != nil {
			// the filing stays valid with only its XML artifact
			s.log.Error().Err(err).Str("month", group.Month).Msg("pdf render failed")
			return nil
		}
		key = storage.ArtifactKey(filing.ID, model.DocumentPDF)
		if putErr := s.store.Put(ctx, key, pdfBytes, "application/pdf"); putErr != nil {
			s.log.Warn().Err(putErr).Str("key", key).Msg("pdf upload failed, filing kept without pdf key")
			return nil
		}
		if err := tx.SetDocumentKey(ctx, filing.ID, model.DocumentPDF, key); err != nil {
			return fmt.Errorf("record pdf key: %w", err)
		}
		pdfKey = key
		return nil
	})
	if err != nil {
		s.log.Error().Err(err).Str("month", group.Month).Msg("month filing failed")
		return MonthResult{Month: group.Month, Reason: err.Error()}
	}

	s.audit.Record(ctx, audit.Event{
		Action:   "filing_created",
		UserID:   input.Principal.UserID,
		FilingID: filingID,
		Month:    group.Month,
	})

	return MonthResult{
		Month:    group.Month,
		FilingID: filingID,
		XMLKey:   xmlKey,
		PDFKey:   pdfKey,
		Success:  true,
	}
}

type DocumentResult struct {
	FileName    string
	ContentType string
	Content     []byte
}

// DownloadDocument resolves a stored artifact across historical key
// layouts and returns its bytes.
func (s *FilingService) DownloadDocument(ctx context.Context, principal model.Principal, filingID uuid.UUID, docType model.DocumentType) (*DocumentResult, error) {
	filing, err := s.registry.GetFiling(ctx, filingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if filing.UserID != principal.UserID && !principal.IsAdmin() {
		return nil, ErrPermissionDenied
	}

	key, found, err := s.resolver.Resolve(ctx, filing, docType)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: no stored %s document", ErrNotFound, docType)
	}

	content, err := s.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return nil, err
	}

	contentType := "application/xml"
	if docType == model.DocumentPDF {
		contentType = "application/pdf"
	}
	return &DocumentResult{
		FileName:    fmt.Sprintf("form2290_%s.%s", filing.Month, docType.Extension()),
		ContentType: contentType,
		Content:     content,
	}, nil
}

type ExportResult struct {
	FileName string
	Content  []byte
}

// ExportSummary renders the caller's filings inside an inclusive YYYYMM
// range as a spreadsheet.
func (s *FilingService) ExportSummary(ctx context.Context, principal model.Principal, fromMonth, toMonth string) (*ExportResult, error) {
	if tax.MonthNumber(fromMonth) == 0 || tax.MonthNumber(toMonth) == 0 {
		return nil, fmt.Errorf("%w: months must be YYYYMM", ErrInvalidInput)
	}
	if fromMonth > toMonth {
		return nil, fmt.Errorf("%w: from month after to month", ErrInvalidInput)
	}

	filings, err := s.registry.ListFilingsForPeriod(ctx, principal.UserID, fromMonth, toMonth)
	if err != nil {
		return nil, err
	}

	content, err := s.exporter.Generate(model.FilingExport{
		FromMonth: fromMonth,
		ToMonth:   toMonth,
		Filings:   filings,
	})
	if err != nil {
		return nil, err
	}

	return &ExportResult{
		FileName: fmt.Sprintf("filings-%s-%s.xlsx", fromMonth, toMonth),
		Content:  content,
	}, nil
}

// ReplaceLayout swaps the process-wide field layout after validating the
// replacement in full. Admin only.
func (s *FilingService) ReplaceLayout(ctx context.Context, principal model.Principal, raw []byte) error {
	if !principal.IsAdmin() {
		return ErrPermissionDenied
	}

	parsed, err := layout.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.layouts.Replace(parsed); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	s.audit.Record(ctx, audit.Event{
		Action: "layout_replaced",
		UserID: principal.UserID,
		Detail: fmt.Sprintf("%d fields", len(parsed)),
	})
	return nil
}

func validateSubmission(input SubmissionInput) error {
	if strings.TrimSpace(input.Business.Name) == "" {
		return fmt.Errorf("%w: business name is required", ErrInvalidInput)
	}
	if strings.TrimSpace(input.Business.EIN) == "" {
		return fmt.Errorf("%w: ein is required", ErrInvalidInput)
	}
	if len(input.Vehicles) == 0 {
		return fmt.Errorf("%w: at least one vehicle is required", ErrInvalidInput)
	}
	for _, vehicle := range input.Vehicles {
		if strings.TrimSpace(vehicle.VIN) == "" {
			return fmt.Errorf("%w: vehicle without vin", ErrInvalidInput)
		}
		if !vehicle.Category.Valid() {
			return fmt.Errorf("%w: unknown weight category %q for vin %s", ErrInvalidInput, vehicle.Category, vehicle.VIN)
		}
	}
	return nil
}

// submissionPayload is the serialized original submission persisted on
// every filing row produced from it.
func submissionPayload(input SubmissionInput) map[string]interface{} {
	return map[string]interface{}{
		"business":       input.Business,
		"vehicles":       input.Vehicles,
		"summaries":      input.Summaries,
		"additional_tax": input.AdditionalTax,
		"credits":        input.Credits,
		"flags":          input.Flags,
	}
}
