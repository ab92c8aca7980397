package sale

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/saleledger/backend/internal/domain/offline"
	"github.com/saleledger/backend/internal/domain/sale"
	"github.com/saleledger/backend/internal/domain/shared"
	"github.com/saleledger/backend/internal/domain/shared/valueobject"
)

// RateSource provides the VAT rate for a business. Rate may reach the
// directory; LastKnownRate must answer without any network I/O, from
// whatever this instance observed most recently.
type RateSource interface {
	Rate(ctx context.Context, businessID uuid.UUID) (decimal.Decimal, error)
	LastKnownRate(businessID uuid.UUID) (decimal.Decimal, error)
}

// OnlineChecker reports whether the authoritative backend is reachable
type OnlineChecker interface {
	IsOnline() bool
}

// CaptureService handles sale capture across the online/offline boundary.
// Online captures write through to the authoritative store; offline
// captures land in the local durable queue. The two paths are independent:
// a failed online write is reported to the caller, never silently retried
// through the queue, and a failed queue append is likewise surfaced rather
// than redirected to the network.
type CaptureService struct {
	sales  sale.Repository
	queue  offline.Queue
	rates  RateSource
	online OnlineChecker
	log    *zap.Logger
}

// NewCaptureService creates a new CaptureService
func NewCaptureService(sales sale.Repository, queue offline.Queue, rates RateSource, online OnlineChecker, log *zap.Logger) *CaptureService {
	if log == nil {
		log = zap.NewNop()
	}
	return &CaptureService{
		sales:  sales,
		queue:  queue,
		rates:  rates,
		online: online,
		log:    log.Named("capture"),
	}
}

// RecordSale captures a sale, committing it to the authoritative store
// when online or appending it to the local queue when offline. The
// response reports which path was taken so the caller can message the
// operator accordingly.
func (s *CaptureService) RecordSale(ctx context.Context, req RecordSaleRequest) (*RecordSaleResponse, error) {
	items := make([]sale.LineItem, 0, len(req.Items))
	for _, input := range req.Items {
		item, err := sale.NewLineItem(input.ProductName, input.Quantity, valueobject.NewMoney(input.UnitPrice))
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if s.online.IsOnline() {
		return s.recordOnline(ctx, req, items)
	}
	return s.recordOffline(ctx, req, items)
}

func (s *CaptureService) recordOnline(ctx context.Context, req RecordSaleRequest, items []sale.LineItem) (*RecordSaleResponse, error) {
	rateValue, err := s.rates.Rate(ctx, req.BusinessID)
	if err != nil {
		return nil, err
	}
	computed, err := s.buildSale(req, items, rateValue)
	if err != nil {
		return nil, err
	}

	if err := s.sales.Save(ctx, computed); err != nil {
		return nil, err
	}

	s.log.Info("Sale committed",
		zap.String("sale_id", computed.ID.String()),
		zap.String("business_id", req.BusinessID.String()),
		zap.String("total", computed.Total.String()))

	response := ToSaleResponse(computed)
	return &RecordSaleResponse{Sale: &response}, nil
}

func (s *CaptureService) recordOffline(ctx context.Context, req RecordSaleRequest, items []sale.LineItem) (*RecordSaleResponse, error) {
	rateValue, err := s.rates.LastKnownRate(req.BusinessID)
	if err != nil {
		return nil, fmt.Errorf("%w: no known VAT rate for business %s while offline", shared.ErrNotFound, req.BusinessID)
	}
	computed, err := s.buildSale(req, items, rateValue)
	if err != nil {
		return nil, err
	}

	record, err := offline.NewPendingSale(computed)
	if err != nil {
		return nil, err
	}
	localID, err := s.queue.Append(ctx, record)
	if err != nil {
		return nil, err
	}

	s.log.Info("Sale queued for later synchronization",
		zap.String("local_id", localID.String()),
		zap.String("business_id", req.BusinessID.String()),
		zap.String("total", computed.Total.String()))

	return &RecordSaleResponse{Queued: true, LocalID: &localID}, nil
}

func (s *CaptureService) buildSale(req RecordSaleRequest, items []sale.LineItem, rateValue decimal.Decimal) (*sale.Sale, error) {
	rate, err := sale.NewVATRate(rateValue)
	if err != nil {
		return nil, err
	}
	return sale.NewSale(req.BusinessID, req.RecordedBy, items, req.PaymentMethod, rate)
}

// ListSales returns committed sales for a business within a date range
func (s *CaptureService) ListSales(ctx context.Context, filter ListSalesFilter) ([]SaleResponse, error) {
	businessID, err := uuid.Parse(filter.BusinessID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid business id %q", shared.ErrInvalidInput, filter.BusinessID)
	}

	sales, err := s.sales.FindByBusinessAndDateRange(ctx, businessID, filter.StartDate, filter.EndDate)
	if err != nil {
		return nil, err
	}

	responses := make([]SaleResponse, len(sales))
	for i := range sales {
		responses[i] = ToSaleResponse(&sales[i])
	}
	return responses, nil
}

// PendingCount returns how many captures are still waiting in the local
// queue, optionally filtered by business
func (s *CaptureService) PendingCount(ctx context.Context, businessID uuid.UUID) (int64, error) {
	return s.queue.CountUnsynchronized(ctx, businessID)
}
