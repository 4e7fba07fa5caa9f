package automation

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/vellap/portal/internal/domain/automation"
	"github.com/vellap/portal/internal/domain/shared"
	"github.com/vellap/portal/internal/domain/trade"
	"github.com/vellap/portal/internal/infrastructure/config"
	"github.com/vellap/portal/internal/infrastructure/logger"
	"github.com/vellap/portal/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

const defaultTicketLockTTL = 2 * time.Minute

// CycleMetrics receives sales cycle outcomes
type CycleMetrics interface {
	RecordSalesCycle(ctx context.Context, outcome string, d time.Duration)
}

// TicketService creates Ticket Automation records and runs their sales cycle on submit
type TicketService struct {
	txScope        TransactionScope
	ticketRepo     automation.TicketRepository
	orchestrator   *SalesCycleOrchestrator
	locker         shared.Locker
	clock          shared.Clock
	config         config.PortalConfig
	eventPublisher shared.EventPublisher
	metrics        CycleMetrics
	logger         *zap.Logger
}

// NewTicketService creates a new ticket service
func NewTicketService(
	txScope TransactionScope,
	ticketRepo automation.TicketRepository,
	orchestrator *SalesCycleOrchestrator,
	locker shared.Locker,
	cfg config.PortalConfig,
	logger *zap.Logger,
) *TicketService {
	if cfg.TicketLockTTL <= 0 {
		cfg.TicketLockTTL = defaultTicketLockTTL
	}
	return &TicketService{
		txScope:      txScope,
		ticketRepo:   ticketRepo,
		orchestrator: orchestrator,
		locker:       locker,
		clock:        orchestrator.clock,
		config:       cfg,
		logger:       logger,
	}
}

// SetEventPublisher sets the publisher for sales cycle events
func (s *TicketService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetMetrics sets the sales cycle outcome recorder
func (s *TicketService) SetMetrics(m CycleMetrics) {
	s.metrics = m
}

// Create stores a draft ticket named after its customer. Without quotation
// rows the customer's draft quotations are used.
func (s *TicketService) Create(ctx context.Context, input CreateTicketInput) (*TicketResponse, error) {
	company := strings.TrimSpace(input.Company)
	if company == "" {
		company = s.config.DefaultCompany
	}

	customer := strings.TrimSpace(input.Customer)

	var ticket *automation.TicketAutomation
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if customer != "" {
			exists, err := repos.CustomerRepo().ExistsByName(ctx, customer)
			if err != nil {
				return err
			}
			if !exists {
				return shared.NewDomainErrorf("NOT_FOUND", "Customer %s not found", customer)
			}
		}
		rows, err := s.resolveRows(ctx, repos.QuotationRepo(), input)
		if err != nil {
			return err
		}
		existing, err := repos.TicketRepo().CountByCustomer(ctx, customer)
		if err != nil {
			return err
		}
		ticket, err = automation.NewTicketAutomation(input.Customer, company, input.ModeOfPayment, input.InvoiceReferenceNo, existing, rows)
		if err != nil {
			return err
		}
		return repos.TicketRepo().Create(ctx, ticket)
	})
	if err != nil {
		return nil, err
	}

	logger.WithLogger(ctx, s.logger).Info("Ticket created",
		zap.String("ticket", ticket.Name),
		zap.String("customer", ticket.Customer),
		zap.Int("quotations", len(ticket.Quotations)),
		zap.String("total_amount", ticket.TotalAmount.String()),
	)
	resp := ToTicketResponse(ticket)
	return &resp, nil
}

func (s *TicketService) resolveRows(ctx context.Context, quotations trade.QuotationRepository, input CreateTicketInput) ([]automation.TicketQuotation, error) {
	if len(input.Quotations) == 0 {
		draft := shared.DocStatusDraft
		found, _, err := quotations.FindAll(ctx, trade.QuotationFilter{
			Filter:    shared.Filter{OrderBy: "name", OrderDir: "asc"},
			PartyName: strings.TrimSpace(input.Customer),
			DocStatus: &draft,
		})
		if err != nil {
			return nil, err
		}
		rows := make([]automation.TicketQuotation, len(found))
		for i, q := range found {
			rows[i] = ticketRow(q)
		}
		return rows, nil
	}

	rows := make([]automation.TicketQuotation, len(input.Quotations))
	for i, in := range input.Quotations {
		row := automation.TicketQuotation{Quotation: strings.TrimSpace(in.Quotation), Status: in.Status}
		if in.TotalAmount != nil {
			row.TotalAmount = *in.TotalAmount
		}
		if in.Date != nil {
			row.Date = *in.Date
		}
		if in.TotalAmount == nil || in.Status == "" || in.Date == nil {
			q, err := quotations.FindByName(ctx, row.Quotation)
			if err != nil {
				if errors.Is(err, shared.ErrNotFound) {
					return nil, shared.NewDomainErrorf("INVALID_QUOTATION", "Quotation %s not found", row.Quotation)
				}
				return nil, err
			}
			fill := ticketRow(q)
			if in.TotalAmount == nil {
				row.TotalAmount = fill.TotalAmount
			}
			if row.Status == "" {
				row.Status = fill.Status
			}
			if in.Date == nil {
				row.Date = fill.Date
			}
		}
		rows[i] = row
	}
	return rows, nil
}

func ticketRow(q *trade.Quotation) automation.TicketQuotation {
	return automation.TicketQuotation{
		Quotation:   q.Name,
		TotalAmount: q.GrandTotal,
		Status:      q.DocStatus.String(),
		Date:        q.TransactionDate,
	}
}

// Get returns a ticket by name
func (s *TicketService) Get(ctx context.Context, name string) (*TicketResponse, error) {
	ticket, err := s.ticketRepo.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	resp := ToTicketResponse(ticket)
	return &resp, nil
}

// Submit submits a draft ticket and runs its sales cycle in the same
// transaction. A fatal cycle failure is returned as *CycleError and leaves
// the ticket a draft; a stopped cycle still submits the ticket.
func (s *TicketService) Submit(ctx context.Context, name string) (*CycleResult, error) {
	ctx = logger.WithTicket(ctx, name)
	ctx, span := telemetry.StartServiceSpan(ctx, "ticket", "submit",
		telemetry.WithAttribute(telemetry.SpanAttrTicket, name),
	)
	defer span.End()
	log := logger.WithLogger(ctx, s.logger)

	lock, err := s.locker.Obtain(ctx, "ticket:"+name, s.config.TicketLockTTL)
	if err != nil {
		if errors.Is(err, shared.ErrLockNotObtained) {
			return nil, shared.NewDomainErrorf("TICKET_BUSY", "Ticket Automation %s is being submitted", name)
		}
		return nil, err
	}
	defer func() {
		if err := lock.Release(context.WithoutCancel(ctx)); err != nil {
			log.Warn("Failed to release ticket lock", zap.Error(err))
		}
	}()

	start := time.Now()
	var (
		result       *CycleResult
		ticketEvents []shared.DomainEvent
	)
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		ticket, err := repos.TicketRepo().FindByName(ctx, name)
		if err != nil {
			return err
		}
		ticket.Validate()
		if err := ticket.Submit(s.clock.Now()); err != nil {
			return err
		}

		result, err = s.orchestrator.OnSubmit(ctx, repos, ticket)
		if err != nil {
			return err
		}
		result.Amount = ticket.TotalAmount

		if err := repos.TicketRepo().Update(ctx, ticket); err != nil {
			return err
		}
		ticketEvents = ticket.GetDomainEvents()
		ticket.ClearDomainEvents()
		return nil
	})
	if err != nil {
		var cycleErr *CycleError
		if errors.As(err, &cycleErr) {
			s.recordCycle(ctx, cycleFailed, time.Since(start))
		}
		telemetry.RecordError(span, err)
		log.Warn("Ticket submission failed", zap.Error(err))
		return nil, err
	}

	s.recordCycle(ctx, result.Outcome, time.Since(start))
	telemetry.SetAttributes(span,
		telemetry.SpanAttrOutcome, string(result.Outcome),
		telemetry.SpanAttrSalesOrder, result.SalesOrder,
		telemetry.SpanAttrPaymentEntry, result.PaymentEntry,
	)
	s.publishEvents(ctx, append(ticketEvents, result.events...))
	result.events = nil

	log.Info("Ticket submitted",
		zap.String("outcome", string(result.Outcome)),
		zap.String("sales_order", result.SalesOrder),
		zap.String("payment_entry", result.PaymentEntry),
	)
	return result, nil
}

func (s *TicketService) recordCycle(ctx context.Context, outcome CycleOutcome, d time.Duration) {
	if s.metrics != nil {
		s.metrics.RecordSalesCycle(ctx, string(outcome), d)
	}
}

func (s *TicketService) publishEvents(ctx context.Context, events []shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		logger.WithLogger(ctx, s.logger).Warn("Failed to publish sales cycle events", zap.Error(err))
	}
}
