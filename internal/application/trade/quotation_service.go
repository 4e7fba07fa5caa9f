package trade

import (
	"context"
	"strings"

	"github.com/vellap/portal/internal/domain/shared"
	"github.com/vellap/portal/internal/domain/trade"
	"github.com/vellap/portal/internal/infrastructure/config"
	"github.com/vellap/portal/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// QuotationService manages draft quotations offered to customers
type QuotationService struct {
	quotationRepo trade.QuotationRepository
	clock         shared.Clock
	config        config.PortalConfig
	logger        *zap.Logger
}

// NewQuotationService creates a new quotation service
func NewQuotationService(quotationRepo trade.QuotationRepository, clock shared.Clock, cfg config.PortalConfig, logger *zap.Logger) *QuotationService {
	if clock == nil {
		clock = shared.SystemClock{}
	}
	return &QuotationService{
		quotationRepo: quotationRepo,
		clock:         clock,
		config:        cfg,
		logger:        logger,
	}
}

// Create stores a draft quotation named from the SAL-QTN-YYYY- series
func (s *QuotationService) Create(ctx context.Context, input CreateQuotationInput) (*QuotationResponse, error) {
	items := make([]trade.LineItem, 0, len(input.Items))
	for _, in := range input.Items {
		item, err := trade.NewLineItem(in.ItemCode, in.ItemName, in.Description, in.Qty, in.Rate, in.UOM)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	date := s.clock.Now()
	if input.TransactionDate != nil {
		date = *input.TransactionDate
	}
	company := strings.TrimSpace(input.Company)
	if company == "" {
		company = s.config.DefaultCompany
	}

	name, err := s.quotationRepo.NextName(ctx, shared.SeriesPrefix(shared.SeriesQuotation, date))
	if err != nil {
		return nil, err
	}
	q, err := trade.NewQuotation(name, input.PartyName, company, date, items)
	if err != nil {
		return nil, err
	}
	if err := s.quotationRepo.Create(ctx, q); err != nil {
		return nil, err
	}

	logger.WithLogger(ctx, s.logger).Info("Quotation created",
		zap.String("quotation", q.Name),
		zap.String("party", q.PartyName),
		zap.String("grand_total", q.GrandTotal.String()),
	)
	resp := ToQuotationResponse(q)
	return &resp, nil
}

// Get returns a quotation by name
func (s *QuotationService) Get(ctx context.Context, name string) (*QuotationResponse, error) {
	q, err := s.quotationRepo.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	resp := ToQuotationResponse(q)
	return &resp, nil
}

// Cancel cancels a submitted quotation so it no longer feeds a sales cycle
func (s *QuotationService) Cancel(ctx context.Context, name string) (*QuotationResponse, error) {
	q, err := s.quotationRepo.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if err := q.Cancel(); err != nil {
		return nil, err
	}
	if err := s.quotationRepo.Update(ctx, q); err != nil {
		return nil, err
	}

	logger.WithLogger(ctx, s.logger).Info("Quotation cancelled",
		zap.String("quotation", q.Name),
		zap.String("party", q.PartyName),
	)
	resp := ToQuotationResponse(q)
	return &resp, nil
}

// List returns a page of quotations filtered by party and status
func (s *QuotationService) List(ctx context.Context, input ListQuotationsInput) (shared.Paginated[QuotationResponse], error) {
	filter := trade.QuotationFilter{
		Filter:    shared.DefaultFilter(),
		PartyName: strings.TrimSpace(input.PartyName),
	}
	if input.Page > 0 {
		filter.Page = input.Page
	}
	if input.PageSize > 0 {
		filter.PageSize = input.PageSize
	}
	if input.OrderBy != "" {
		filter.OrderBy = input.OrderBy
	}
	if input.OrderDir != "" {
		filter.OrderDir = input.OrderDir
	}
	if input.DocStatus != nil {
		status := shared.DocStatus(*input.DocStatus)
		if !status.IsValid() {
			return shared.Paginated[QuotationResponse]{}, shared.NewDomainErrorf("INVALID_DOCSTATUS", "Unknown docstatus %d", *input.DocStatus)
		}
		filter.DocStatus = &status
	}

	quotations, total, err := s.quotationRepo.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[QuotationResponse]{}, err
	}
	items := make([]QuotationResponse, len(quotations))
	for i, q := range quotations {
		items[i] = ToQuotationResponse(q)
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}
