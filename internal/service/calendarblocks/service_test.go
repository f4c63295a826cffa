package calendarblocks

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/capozzinicolas-stack/vivelo-sub000/internal/domain"
	blockRepo "github.com/capozzinicolas-stack/vivelo-sub000/internal/infra/storage/calendarblock"
	"github.com/capozzinicolas-stack/vivelo-sub000/internal/service/calendarblocks/models"
)

type mockBlockRepo struct {
	mock.Mock
}

func (m *mockBlockRepo) Create(ctx context.Context, block *domain.VendorCalendarBlock) (*domain.VendorCalendarBlock, error) {
	args := m.Called(ctx, block)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VendorCalendarBlock), args.Error(1)
}

func (m *mockBlockRepo) GetByProviderID(ctx context.Context, providerID int64) ([]*domain.VendorCalendarBlock, error) {
	args := m.Called(ctx, providerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.VendorCalendarBlock), args.Error(1)
}

func (m *mockBlockRepo) DeleteManual(ctx context.Context, id int64, providerID int64) error {
	args := m.Called(ctx, id, providerID)
	return args.Error(0)
}

type nopLogger struct{}

func (l *nopLogger) Info(format string, v ...interface{})  {}
func (l *nopLogger) Warn(format string, v ...interface{})  {}
func (l *nopLogger) Error(format string, v ...interface{}) {}

var (
	blockStart = time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	blockEnd   = time.Date(2026, 10, 1, 18, 0, 0, 0, time.UTC)
)

func TestCreate_ManualBlock(t *testing.T) {
	repo := new(mockBlockRepo)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(b *domain.VendorCalendarBlock) bool {
		return b.ProviderID == 3 && b.Source == domain.BlockSourceManual
	})).Return(&domain.VendorCalendarBlock{
		ID:            10,
		ProviderID:    3,
		StartDatetime: blockStart,
		EndDatetime:   blockEnd,
		Source:        domain.BlockSourceManual,
	}, nil)

	svc := NewService(repo, &nopLogger{})

	resp, err := svc.Create(context.Background(), &models.CreateBlockRequest{
		ProviderID:    3,
		StartDatetime: blockStart,
		EndDatetime:   blockEnd,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(10), resp.ID)
	assert.Equal(t, "manual", resp.Source)
}

func TestCreate_InvalidWindow(t *testing.T) {
	svc := NewService(new(mockBlockRepo), &nopLogger{})

	_, err := svc.Create(context.Background(), &models.CreateBlockRequest{
		ProviderID:    3,
		StartDatetime: blockEnd,
		EndDatetime:   blockStart,
	})

	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestDelete_ExternalBlockRejected(t *testing.T) {
	repo := new(mockBlockRepo)
	repo.On("DeleteManual", mock.Anything, int64(10), int64(3)).Return(blockRepo.ErrNotManual)

	svc := NewService(repo, &nopLogger{})

	err := svc.Delete(context.Background(), 10, 3)
	assert.ErrorIs(t, err, ErrNotManual)
}

func TestDelete_NotFound(t *testing.T) {
	repo := new(mockBlockRepo)
	repo.On("DeleteManual", mock.Anything, int64(10), int64(3)).Return(blockRepo.ErrBlockNotFound)

	svc := NewService(repo, &nopLogger{})

	err := svc.Delete(context.Background(), 10, 3)
	assert.ErrorIs(t, err, ErrBlockNotFound)
}

func TestList(t *testing.T) {
	repo := new(mockBlockRepo)
	repo.On("GetByProviderID", mock.Anything, int64(3)).Return([]*domain.VendorCalendarBlock{
		{ID: 10, ProviderID: 3, Source: domain.BlockSourceManual},
		{ID: 11, ProviderID: 3, Source: domain.BlockSourceExternalSync},
	}, nil)

	svc := NewService(repo, &nopLogger{})

	resp, err := svc.List(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, resp.Blocks, 2)
	assert.Equal(t, "external_sync", resp.Blocks[1].Source)
}
