package automation

import (
	"context"
	"errors"
	"fmt"

	"github.com/vellap/portal/internal/domain/automation"
	"github.com/vellap/portal/internal/domain/finance"
	"github.com/vellap/portal/internal/domain/shared"
	"github.com/vellap/portal/internal/domain/trade"
	"github.com/vellap/portal/internal/infrastructure/logger"
	"github.com/vellap/portal/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// SalesCycleOrchestrator turns a submitted ticket into submitted quotations,
// one combined Sales Order and one Payment Entry. It only writes through the
// repositories it is handed, so the caller owns the transaction.
type SalesCycleOrchestrator struct {
	clock  shared.Clock
	logger *zap.Logger
}

// NewSalesCycleOrchestrator creates a new orchestrator
func NewSalesCycleOrchestrator(clock shared.Clock, logger *zap.Logger) *SalesCycleOrchestrator {
	if clock == nil {
		clock = shared.SystemClock{}
	}
	return &SalesCycleOrchestrator{clock: clock, logger: logger}
}

// cycle carries the state of one run
type cycle struct {
	ctx    context.Context
	repos  TransactionalRepositories
	ticket *automation.TicketAutomation
	result *CycleResult
	log    *logger.ContextLogger
	clock  shared.Clock
}

func (c *cycle) notice(format string, args ...any) string {
	msg := fmt.Sprintf(format, args...)
	c.result.Notices = append(c.result.Notices, msg)
	c.log.Info(msg)
	return msg
}

func (c *cycle) fail(cause error, format string, args ...any) error {
	msg := c.notice(format, args...)
	c.log.Error("Sales cycle failed", zap.Error(cause))
	return &CycleError{
		Notices: c.result.Notices,
		Err:     shared.NewDomainErrorWithCause("SALES_CYCLE_FAILED", msg, cause),
	}
}

func (c *cycle) collect(events []shared.DomainEvent) {
	c.result.events = append(c.result.events, events...)
}

// OnSubmit runs the sales cycle for a ticket that was just submitted.
// A *CycleError means the caller must roll back.
func (o *SalesCycleOrchestrator) OnSubmit(ctx context.Context, repos TransactionalRepositories, ticket *automation.TicketAutomation) (*CycleResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "sales_cycle", "on_submit",
		telemetry.WithAttribute(telemetry.SpanAttrTicket, ticket.Name),
		telemetry.WithAttribute(telemetry.SpanAttrCustomer, ticket.Customer),
	)
	defer span.End()

	c := &cycle{
		ctx:    ctx,
		repos:  repos,
		ticket: ticket,
		result: &CycleResult{Ticket: ticket.Name, Notices: make([]string, 0, 8)},
		log:    logger.WithLogger(logger.WithTicket(ctx, ticket.Name), o.logger),
		clock:  o.clock,
	}
	c.notice(NoticeStarting)

	result, err := c.run()
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrOutcome, string(result.Outcome))
	telemetry.SetOK(span)
	return result, nil
}

func (c *cycle) run() (*CycleResult, error) {
	submitted, err := c.submitQuotations()
	if err != nil {
		return nil, err
	}
	if len(submitted) == 0 {
		c.notice(NoticeNoQuotations)
		c.result.Outcome = CycleStopped
		c.collect([]shared.DomainEvent{automation.NewSalesCycleStoppedEvent(c.ticket, NoticeNoQuotations)})
		return c.result, nil
	}

	order, err := c.createSalesOrder(submitted)
	if err != nil {
		return nil, err
	}

	entry, err := c.createPaymentEntry(order)
	if err != nil {
		return nil, err
	}

	c.ticket.RecordCycle(order.Name, entry.Name)
	c.result.Outcome = CycleCompleted
	c.result.SalesOrder = order.Name
	c.result.PaymentEntry = entry.Name
	c.result.Amount = entry.PaidAmount
	c.notice(NoticeCompleted)
	c.collect([]shared.DomainEvent{automation.NewSalesCycleCompletedEvent(c.ticket)})
	return c.result, nil
}

// submitQuotations submits every draft quotation of the ticket in row order.
// Already submitted quotations are taken as they are.
func (c *cycle) submitQuotations() ([]*trade.Quotation, error) {
	now := c.clock.Now()
	quotations := c.repos.QuotationRepo()
	submitted := make([]*trade.Quotation, 0, len(c.ticket.Quotations))

	for _, name := range c.ticket.QuotationNames() {
		q, err := quotations.FindByName(c.ctx, name)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				err = shared.NewDomainErrorf("NOT_FOUND", "Quotation %s not found", name)
			}
			return nil, c.fail(err, NoticeQuotationFailed, name, err.Error())
		}
		if q.IsSubmitted() {
			submitted = append(submitted, q)
			continue
		}
		if err := q.Submit(now); err != nil {
			return nil, c.fail(err, NoticeQuotationFailed, name, err.Error())
		}
		if err := quotations.Update(c.ctx, q); err != nil {
			return nil, c.fail(err, NoticeQuotationFailed, name, err.Error())
		}
		c.collect(q.GetDomainEvents())
		q.ClearDomainEvents()
		submitted = append(submitted, q)
		c.notice(NoticeQuotationDone, name)
	}
	return submitted, nil
}

func (c *cycle) createSalesOrder(quotations []*trade.Quotation) (*trade.SalesOrder, error) {
	now := c.clock.Now()
	orders := c.repos.SalesOrderRepo()

	name, err := orders.NextName(c.ctx, shared.SeriesPrefix(shared.SeriesSalesOrder, now))
	if err != nil {
		return nil, c.fail(err, NoticeSalesOrderFailed, err.Error())
	}
	order, err := trade.NewSalesOrderFromQuotations(name, c.ticket.Customer, c.ticket.Company, now, quotations)
	if err != nil {
		return nil, c.fail(err, NoticeSalesOrderFailed, err.Error())
	}
	if err := order.Submit(now); err != nil {
		return nil, c.fail(err, NoticeSalesOrderFailed, err.Error())
	}
	if err := orders.Create(c.ctx, order); err != nil {
		return nil, c.fail(err, NoticeSalesOrderFailed, err.Error())
	}

	c.collect(order.GetDomainEvents())
	order.ClearDomainEvents()
	c.notice(NoticeSalesOrderDone, order.Name, len(quotations))
	return order, nil
}

// createPaymentEntry receives the ticket total against the order
func (c *cycle) createPaymentEntry(order *trade.SalesOrder) (*finance.PaymentEntry, error) {
	now := c.clock.Now()
	t := c.ticket

	account, err := c.repos.PaymentAccountRepo().FindDefaultAccount(c.ctx, t.ModeOfPayment, t.Company)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			err = shared.NewDomainErrorf("NO_DEFAULT_ACCOUNT", NoticeNoDefaultAccount, t.ModeOfPayment, t.Company)
		}
		return nil, c.fail(err, NoticePaymentEntryFailed, err.Error())
	}

	entries := c.repos.PaymentEntryRepo()
	name, err := entries.NextName(c.ctx, shared.SeriesPrefix(shared.SeriesPaymentEntry, now))
	if err != nil {
		return nil, c.fail(err, NoticePaymentEntryFailed, err.Error())
	}
	entry, err := finance.NewReceipt(finance.ReceiptRequest{
		Name:          name,
		Company:       t.Company,
		Customer:      t.Customer,
		ModeOfPayment: t.ModeOfPayment,
		PaidTo:        account,
		Amount:        t.TotalAmount,
		ReferenceNo:   t.InvoiceReferenceNo,
		OrderDoctype:  trade.DoctypeSalesOrder,
		OrderName:     order.Name,
		Today:         now,
	})
	if err != nil {
		return nil, c.fail(err, NoticePaymentEntryFailed, err.Error())
	}
	if err := entry.Submit(now); err != nil {
		return nil, c.fail(err, NoticePaymentEntryFailed, err.Error())
	}
	if err := entries.Create(c.ctx, entry); err != nil {
		return nil, c.fail(err, NoticePaymentEntryFailed, err.Error())
	}

	c.collect(entry.GetDomainEvents())
	entry.ClearDomainEvents()
	c.notice(NoticePaymentEntryDone, entry.Name)
	return entry, nil
}
