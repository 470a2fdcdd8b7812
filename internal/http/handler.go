package http

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/nurpe/hvut-filing/internal/http/middleware"
	"github.com/nurpe/hvut-filing/internal/model"
	"github.com/nurpe/hvut-filing/internal/service"
)

type Handler struct {
	filings *service.FilingService
	log     zerolog.Logger
}

func NewHandler(filings *service.FilingService, log zerolog.Logger) *Handler {
	return &Handler{filings: filings, log: log}
}

func (h *Handler) Register(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	protected := router.Group("/")
	protected.Use(authMiddleware)
	protected.POST("/filings", h.submitFiling)
	protected.GET("/filings/:id/documents/:type", h.downloadDocument)
	protected.GET("/filings/export", h.exportFilings)
	protected.PUT("/admin/layout", h.replaceLayout)
}

type businessPayload struct {
	Name        string `json:"name" binding:"required"`
	AddressLine string `json:"address_line"`
	City        string `json:"city"`
	State       string `json:"state"`
	Zip         string `json:"zip"`
	EIN         string `json:"ein" binding:"required"`
	Phone       string `json:"phone"`
}

type vehiclePayload struct {
	VIN            string `json:"vin" binding:"required"`
	Category       string `json:"category" binding:"required"`
	FirstUsedMonth string `json:"first_used_month"`
	Logging        bool   `json:"logging"`
	Suspended      bool   `json:"suspended"`
	Agricultural   bool   `json:"agricultural"`
	LowMileage     bool   `json:"low_mileage"`
}

type summaryPayload struct {
	RegularCount int    `json:"regular_count"`
	RegularTax   string `json:"regular_tax"`
	LoggingCount int    `json:"logging_count"`
	LoggingTax   string `json:"logging_tax"`
}

type flagsPayload struct {
	AddressChange bool `json:"address_change"`
	Amended       bool `json:"amended"`
	VINCorrection bool `json:"vin_correction"`
	FinalReturn   bool `json:"final_return"`
}

type preparerPayload struct {
	Include      bool   `json:"include"`
	Name         string `json:"name"`
	Firm         string `json:"firm"`
	Phone        string `json:"phone"`
	PTIN         string `json:"ptin"`
	SelfEmployed bool   `json:"self_employed"`
}

type designeePayload struct {
	Include bool   `json:"include"`
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	PIN     string `json:"pin"`
}

type paymentPayload struct {
	Include       bool   `json:"include"`
	RoutingNumber string `json:"routing_number"`
	AccountNumber string `json:"account_number"`
	AccountType   string `json:"account_type"`
	Phone         string `json:"phone"`
}

type submitFilingRequest struct {
	Business      businessPayload           `json:"business" binding:"required"`
	Vehicles      []vehiclePayload          `json:"vehicles" binding:"required"`
	Summaries     map[string]summaryPayload `json:"category_summaries"`
	AdditionalTax string                    `json:"additional_tax"`
	Credits       string                    `json:"credits"`
	Flags         flagsPayload              `json:"flags"`
	Preparer      *preparerPayload          `json:"preparer"`
	Designee      *designeePayload          `json:"designee"`
	Payment       *paymentPayload           `json:"payment"`
	DefaultMonth  string                    `json:"default_month"`
}

func (h *Handler) submitFiling(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	var req submitFilingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input, err := buildSubmissionInput(principal, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	results, err := h.filings.ProcessSubmission(c.Request.Context(), input)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": results})
}

func (h *Handler) downloadDocument(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	filingID, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid filing id"})
		return
	}
	docType, ok := model.ParseDocumentType(c.Param("type"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid document type"})
		return
	}

	result, err := h.filings.DownloadDocument(c.Request.Context(), principal, filingID, docType)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, result.ContentType, result.Content)
}

func (h *Handler) exportFilings(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	from := strings.TrimSpace(c.Query("from"))
	to := strings.TrimSpace(c.Query("to"))

	result, err := h.filings.ExportSummary(c.Request.Context(), principal, from, to)
	if err != nil {
		h.handleError(c, err)
		return
	}

	const xlsxType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, xlsxType, result.Content)
}

func (h *Handler) replaceLayout(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable body"})
		return
	}

	if err := h.filings.ReplaceLayout(c.Request.Context(), principal, raw); err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "replaced"})
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Msg("filing request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func buildSubmissionInput(principal model.Principal, req submitFilingRequest) (service.SubmissionInput, error) {
	additional, err := parseAmount(req.AdditionalTax)
	if err != nil {
		return service.SubmissionInput{}, errors.New("invalid additional_tax")
	}
	credits, err := parseAmount(req.Credits)
	if err != nil {
		return service.SubmissionInput{}, errors.New("invalid credits")
	}

	vehicles := make([]model.Vehicle, 0, len(req.Vehicles))
	for _, v := range req.Vehicles {
		vehicles = append(vehicles, model.Vehicle{
			VIN:            strings.TrimSpace(v.VIN),
			Category:       model.WeightCategory(strings.ToUpper(strings.TrimSpace(v.Category))),
			FirstUsedMonth: strings.TrimSpace(v.FirstUsedMonth),
			Logging:        v.Logging,
			Suspended:      v.Suspended,
			Agricultural:   v.Agricultural,
			LowMileage:     v.LowMileage,
		})
	}

	var summaries map[model.WeightCategory]model.CategorySummary
	if len(req.Summaries) > 0 {
		summaries = make(map[model.WeightCategory]model.CategorySummary, len(req.Summaries))
		for category, s := range req.Summaries {
			regularTax, err := parseAmount(s.RegularTax)
			if err != nil {
				return service.SubmissionInput{}, errors.New("invalid summary regular_tax")
			}
			loggingTax, err := parseAmount(s.LoggingTax)
			if err != nil {
				return service.SubmissionInput{}, errors.New("invalid summary logging_tax")
			}
			summaries[model.WeightCategory(strings.ToUpper(category))] = model.CategorySummary{
				RegularCount: s.RegularCount,
				RegularTax:   regularTax,
				LoggingCount: s.LoggingCount,
				LoggingTax:   loggingTax,
			}
		}
	}

	input := service.SubmissionInput{
		Principal: principal,
		Business: model.Business{
			Name:        strings.TrimSpace(req.Business.Name),
			AddressLine: req.Business.AddressLine,
			City:        req.Business.City,
			State:       req.Business.State,
			Zip:         req.Business.Zip,
			EIN:         strings.TrimSpace(req.Business.EIN),
			Phone:       req.Business.Phone,
		},
		Vehicles:      vehicles,
		Summaries:     summaries,
		AdditionalTax: additional,
		Credits:       credits,
		Flags: model.ReturnFlags{
			AddressChange: req.Flags.AddressChange,
			Amended:       req.Flags.Amended,
			VINCorrection: req.Flags.VINCorrection,
			FinalReturn:   req.Flags.FinalReturn,
		},
		DefaultMonth: strings.TrimSpace(req.DefaultMonth),
	}

	if req.Preparer != nil {
		input.Preparer = &model.Preparer{
			Include:      req.Preparer.Include,
			Name:         req.Preparer.Name,
			Firm:         req.Preparer.Firm,
			Phone:        req.Preparer.Phone,
			PTIN:         req.Preparer.PTIN,
			SelfEmployed: req.Preparer.SelfEmployed,
		}
	}
	if req.Designee != nil {
		input.Designee = &model.Designee{
			Include: req.Designee.Include,
			Name:    req.Designee.Name,
			Phone:   req.Designee.Phone,
			PIN:     req.Designee.PIN,
		}
	}
	if req.Payment != nil {
		input.Payment = &model.Payment{
			Include:       req.Payment.Include,
			RoutingNumber: req.Payment.RoutingNumber,
			AccountNumber: req.Payment.AccountNumber,
			AccountType:   req.Payment.AccountType,
			Phone:         req.Payment.Phone,
		}
	}

	return input, nil
}

func parseAmount(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(raw)
}
