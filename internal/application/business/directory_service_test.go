package business

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/saleledger/backend/internal/domain/business"
	"github.com/saleledger/backend/internal/domain/shared"
)

// MockBusinessRepository is a mock implementation of business.Repository
type MockBusinessRepository struct {
	mock.Mock
}

func (m *MockBusinessRepository) FindByID(ctx context.Context, id uuid.UUID) (*business.Business, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*business.Business), args.Error(1)
}

func (m *MockBusinessRepository) VATRate(ctx context.Context, businessID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, businessID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockBusinessRepository) Save(ctx context.Context, b *business.Business) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *MockBusinessRepository) FindAll(ctx context.Context) ([]business.Business, error) {
	args := m.Called(ctx)
	return args.Get(0).([]business.Business), args.Error(1)
}

type recordingInvalidator struct {
	invalidated []uuid.UUID
}

func (r *recordingInvalidator) Invalidate(_ context.Context, businessID uuid.UUID) {
	r.invalidated = append(r.invalidated, businessID)
}

func ratePtr(rate float64) *decimal.Decimal {
	d := decimal.NewFromFloat(rate)
	return &d
}

func TestDirectoryService_Create(t *testing.T) {
	repo := new(MockBusinessRepository)
	repo.On("Save", mock.Anything, mock.Anything).Return(nil)

	service := NewDirectoryService(repo, nil, nil)
	response, err := service.Create(context.Background(), CreateBusinessRequest{
		Name:    "Corner Bakery",
		VATRate: ratePtr(0.18),
	})

	require.NoError(t, err)
	assert.Equal(t, "Corner Bakery", response.Name)
	assert.Equal(t, "0.18", response.VATRate)
	assert.True(t, response.Active)
	repo.AssertExpectations(t)
}

func TestDirectoryService_CreateDefaultsVATRate(t *testing.T) {
	repo := new(MockBusinessRepository)
	repo.On("Save", mock.Anything, mock.Anything).Return(nil)

	service := NewDirectoryService(repo, nil, nil)
	response, err := service.Create(context.Background(), CreateBusinessRequest{
		Name: "Corner Bakery",
	})

	require.NoError(t, err)
	assert.Equal(t, "0.18", response.VATRate)
}

func TestDirectoryService_CreateRejectsInvalidRate(t *testing.T) {
	repo := new(MockBusinessRepository)

	service := NewDirectoryService(repo, nil, nil)
	_, err := service.Create(context.Background(), CreateBusinessRequest{
		Name:    "Corner Bakery",
		VATRate: ratePtr(1.5),
	})

	require.Error(t, err)
	repo.AssertNotCalled(t, "Save")
}

func TestDirectoryService_UpdateVATRateInvalidatesCache(t *testing.T) {
	existing, err := business.NewBusiness("Corner Bakery", decimal.NewFromFloat(0.18))
	require.NoError(t, err)

	repo := new(MockBusinessRepository)
	repo.On("FindByID", mock.Anything, existing.ID).Return(existing, nil)
	repo.On("Save", mock.Anything, existing).Return(nil)

	invalidator := &recordingInvalidator{}
	service := NewDirectoryService(repo, invalidator, nil)

	response, err := service.UpdateVATRate(context.Background(), existing.ID, UpdateVATRateRequest{
		VATRate: decimal.NewFromFloat(0.21),
	})

	require.NoError(t, err)
	assert.Equal(t, "0.21", response.VATRate)
	require.Len(t, invalidator.invalidated, 1)
	assert.Equal(t, existing.ID, invalidator.invalidated[0])
}

func TestDirectoryService_UpdateVATRateNotFound(t *testing.T) {
	repo := new(MockBusinessRepository)
	id := uuid.New()
	repo.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

	service := NewDirectoryService(repo, nil, nil)
	_, err := service.UpdateVATRate(context.Background(), id, UpdateVATRateRequest{
		VATRate: decimal.NewFromFloat(0.21),
	})

	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestDirectoryService_Deactivate(t *testing.T) {
	existing, err := business.NewBusiness("Corner Bakery", decimal.NewFromFloat(0.18))
	require.NoError(t, err)

	repo := new(MockBusinessRepository)
	repo.On("FindByID", mock.Anything, existing.ID).Return(existing, nil)
	repo.On("Save", mock.Anything, existing).Return(nil)

	invalidator := &recordingInvalidator{}
	service := NewDirectoryService(repo, invalidator, nil)
	require.NoError(t, service.Deactivate(context.Background(), existing.ID))
	assert.False(t, existing.Active)
	require.Len(t, invalidator.invalidated, 1)
	assert.Equal(t, existing.ID, invalidator.invalidated[0])
}
