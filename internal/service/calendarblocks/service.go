package calendarblocks

import (
	"context"
	"errors"
	"fmt"

	"github.com/capozzinicolas-stack/vivelo-sub000/internal/domain"
	blockRepo "github.com/capozzinicolas-stack/vivelo-sub000/internal/infra/storage/calendarblock"
	"github.com/capozzinicolas-stack/vivelo-sub000/internal/service/calendarblocks/models"
)

// Service сервис управления блокировками календаря вендора
type Service struct {
	blockRepo BlockRepository
	logger    Logger
}

// NewService создает новый экземпляр сервиса блокировок
func NewService(blockRepo BlockRepository, logger Logger) *Service {
	return &Service{
		blockRepo: blockRepo,
		logger:    logger,
	}
}

// Create создает ручную блокировку интервала
// Блокировка - вето для новых бронирований, пересечение с существующими
// бронированиями и блокировками не проверяется
func (s *Service) Create(ctx context.Context, req *models.CreateBlockRequest) (*models.BlockResponse, error) {
	s.logger.Info("CreateBlock: provider=%d, window=%s - %s",
		req.ProviderID, req.StartDatetime.Format("2006-01-02 15:04"), req.EndDatetime.Format("2006-01-02 15:04"))

	if req.ProviderID <= 0 {
		return nil, fmt.Errorf("%w: providerID must be positive", ErrInvalidInput)
	}
	if err := domain.ValidateWindow(req.StartDatetime, req.EndDatetime); err != nil {
		s.logger.Warn("CreateBlock: invalid window for provider=%d: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	block := &domain.VendorCalendarBlock{
		ProviderID:    req.ProviderID,
		StartDatetime: req.StartDatetime,
		EndDatetime:   req.EndDatetime,
		Reason:        req.Reason,
		Source:        domain.BlockSourceManual,
	}

	created, err := s.blockRepo.Create(ctx, block)
	if err != nil {
		s.logger.Error("CreateBlock: repository error for provider=%d: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreateBlock: successfully created block id=%d for provider=%d", created.ID, req.ProviderID)
	return models.FromDomainBlock(created), nil
}

// List возвращает все блокировки провайдера (ручные и из внешней синхронизации)
func (s *Service) List(ctx context.Context, providerID int64) (*models.BlockListResponse, error) {
	s.logger.Info("ListBlocks: provider=%d", providerID)

	if providerID <= 0 {
		return nil, fmt.Errorf("%w: providerID must be positive", ErrInvalidInput)
	}

	blocks, err := s.blockRepo.GetByProviderID(ctx, providerID)
	if err != nil {
		s.logger.Error("ListBlocks: repository error for provider=%d: %v", providerID, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainBlockList(blocks), nil
}

// Delete удаляет ручную блокировку провайдера
// Блокировки внешней синхронизации удаляет только адаптер при следующей сверке
func (s *Service) Delete(ctx context.Context, id int64, providerID int64) error {
	s.logger.Info("DeleteBlock: block=%d, provider=%d", id, providerID)

	if id <= 0 || providerID <= 0 {
		return fmt.Errorf("%w: id and providerID must be positive", ErrInvalidInput)
	}

	if err := s.blockRepo.DeleteManual(ctx, id, providerID); err != nil {
		switch {
		case errors.Is(err, blockRepo.ErrBlockNotFound):
			s.logger.Warn("DeleteBlock: block id=%d not found for provider=%d", id, providerID)
			return ErrBlockNotFound
		case errors.Is(err, blockRepo.ErrNotManual):
			s.logger.Warn("DeleteBlock: block id=%d is managed by external sync", id)
			return ErrNotManual
		default:
			s.logger.Error("DeleteBlock: repository error for block id=%d: %v", id, err)
			return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
		}
	}

	s.logger.Info("DeleteBlock: successfully deleted block id=%d for provider=%d", id, providerID)
	return nil
}
