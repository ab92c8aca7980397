package business

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/saleledger/backend/internal/domain/business"
	"github.com/saleledger/backend/internal/domain/sale"
)

// CreateBusinessRequest represents a request to register a business.
// VATRate is optional; omitting it applies sale.DefaultVATRate.
type CreateBusinessRequest struct {
	Name    string           `json:"name" binding:"required,min=1,max=200"`
	VATRate *decimal.Decimal `json:"vat_rate" binding:"omitempty,gte=0,lte=1"`
}

// UpdateVATRateRequest represents a request to change a business's VAT rate
type UpdateVATRateRequest struct {
	VATRate decimal.Decimal `json:"vat_rate" binding:"gte=0,lte=1"`
}

// BusinessResponse represents a business in responses
type BusinessResponse struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	VATRate string    `json:"vat_rate"`
	Active  bool      `json:"active"`
}

// CacheInvalidator drops a cached VAT rate so the next capture sees the
// updated directory value
type CacheInvalidator interface {
	Invalidate(ctx context.Context, businessID uuid.UUID)
}

// DirectoryService handles business directory administration
type DirectoryService struct {
	repo  business.Repository
	cache CacheInvalidator
	log   *zap.Logger
}

// NewDirectoryService creates a new DirectoryService. cache may be nil
// when no rate cache is in front of the directory.
func NewDirectoryService(repo business.Repository, cache CacheInvalidator, log *zap.Logger) *DirectoryService {
	if log == nil {
		log = zap.NewNop()
	}
	return &DirectoryService{
		repo:  repo,
		cache: cache,
		log:   log.Named("directory"),
	}
}

// Create registers a new business
func (s *DirectoryService) Create(ctx context.Context, req CreateBusinessRequest) (*BusinessResponse, error) {
	rate := sale.DefaultVATRate
	if req.VATRate != nil {
		rate = *req.VATRate
	}
	b, err := business.NewBusiness(req.Name, rate)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, b); err != nil {
		return nil, err
	}

	s.log.Info("Business registered",
		zap.String("business_id", b.ID.String()),
		zap.String("vat_rate", b.VATRate.String()))

	response := toBusinessResponse(b)
	return &response, nil
}

// GetByID retrieves a business by ID
func (s *DirectoryService) GetByID(ctx context.Context, id uuid.UUID) (*BusinessResponse, error) {
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := toBusinessResponse(b)
	return &response, nil
}

// List retrieves all businesses
func (s *DirectoryService) List(ctx context.Context) ([]BusinessResponse, error) {
	all, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]BusinessResponse, len(all))
	for i := range all {
		responses[i] = toBusinessResponse(&all[i])
	}
	return responses, nil
}

// UpdateVATRate changes a business's VAT rate and invalidates the cached
// value. Previously committed sales keep their rate snapshot.
func (s *DirectoryService) UpdateVATRate(ctx context.Context, id uuid.UUID, req UpdateVATRateRequest) (*BusinessResponse, error) {
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := b.UpdateVATRate(req.VATRate); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, b); err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx, id)
	}

	s.log.Info("Business VAT rate updated",
		zap.String("business_id", id.String()),
		zap.String("vat_rate", req.VATRate.String()))

	response := toBusinessResponse(b)
	return &response, nil
}

// Deactivate marks a business inactive and drops its cached rate, so
// new online captures against it are rejected right away
func (s *DirectoryService) Deactivate(ctx context.Context, id uuid.UUID) error {
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	b.Deactivate()
	if err := s.repo.Save(ctx, b); err != nil {
		return err
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx, id)
	}
	return nil
}

func toBusinessResponse(b *business.Business) BusinessResponse {
	return BusinessResponse{
		ID:      b.ID,
		Name:    b.Name,
		VATRate: b.VATRate.String(),
		Active:  b.Active,
	}
}
