package sync

import (
	"context"
	"errors"
	"time"

	"github.com/capozzinicolas-stack/vivelo-sub000/internal/domain"
	"github.com/capozzinicolas-stack/vivelo-sub000/internal/integrations/calendarsync"
)

const (
	// DefaultInterval период между сверками внешних календарей
	DefaultInterval = 15 * time.Minute

	// DefaultHorizon горизонт, на который забираются занятые интервалы
	DefaultHorizon = 90 * 24 * time.Hour

	// syncTimeout таймаут одного полного прохода сверки
	syncTimeout = 5 * time.Minute
)

// Worker фоновая сверка внешних календарей провайдеров
//
// Каждый проход забирает занятые интервалы из календарного шлюза и атомарно
// замещает ими блокировки source=external_sync. Ручные блокировки и
// бронирования не затрагиваются. Сбой по одному провайдеру не прерывает
// проход: его прежние блокировки остаются до следующей удачной сверки
type Worker struct {
	bookingRepo    BookingRepository
	blockRepo      CalendarBlockRepository
	calendarClient CalendarSyncClient
	txManager      TransactionManager
	logger         Logger

	interval time.Duration
	horizon  time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewWorker создает новый экземпляр воркера синхронизации
func NewWorker(
	bookingRepo BookingRepository,
	blockRepo CalendarBlockRepository,
	calendarClient CalendarSyncClient,
	txManager TransactionManager,
	interval time.Duration,
	logger Logger,
) *Worker {
	if interval <= 0 {
		interval = DefaultInterval
	}

	return &Worker{
		bookingRepo:    bookingRepo,
		blockRepo:      blockRepo,
		calendarClient: calendarClient,
		txManager:      txManager,
		logger:         logger,
		interval:       interval,
		horizon:        DefaultHorizon,
		stopCh:         make(chan struct{}),
		doneCh:         make(chan struct{}),
	}
}

// Start запускает периодическую сверку в отдельной горутине
func (w *Worker) Start() {
	w.logger.Info("CalendarSync: worker started, interval=%s", w.interval)

	go func() {
		defer close(w.doneCh)

		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		// Первый проход сразу, не дожидаясь тика
		w.runOnce()

		for {
			select {
			case <-ticker.C:
				w.runOnce()
			case <-w.stopCh:
				return
			}
		}
	}()
}

// Stop останавливает воркер и дожидается завершения текущего прохода
func (w *Worker) Stop() {
	close(w.stopCh)
	<-w.doneCh
	w.logger.Info("CalendarSync: worker stopped")
}

// runOnce выполняет один полный проход сверки
func (w *Worker) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
	defer cancel()

	providerIDs, err := w.bookingRepo.GetProviderIDs(ctx)
	if err != nil {
		w.logger.Error("CalendarSync: failed to list providers: %v", err)
		return
	}

	synced := 0
	for _, providerID := range providerIDs {
		if err := w.SyncProvider(ctx, providerID); err != nil {
			w.logger.Warn("CalendarSync: provider id=%d sync failed: %v", providerID, err)
			continue
		}
		synced++
	}

	w.logger.Info("CalendarSync: pass finished, %d/%d providers synced", synced, len(providerIDs))
}

// SyncProvider сверяет внешний календарь одного провайдера
func (w *Worker) SyncProvider(ctx context.Context, providerID int64) error {
	now := time.Now()

	intervals, err := w.calendarClient.PullBusyIntervals(ctx, providerID, now, now.Add(w.horizon))
	if err != nil {
		// Провайдер отключил календарь: его внешние блокировки снимаются
		if errors.Is(err, calendarsync.ErrProviderNotConnected) {
			intervals = nil
		} else {
			return err
		}
	}

	blocks := make([]*domain.VendorCalendarBlock, 0, len(intervals))
	for _, interval := range intervals {
		if !interval.EndsAt.After(interval.StartsAt) {
			w.logger.Warn("CalendarSync: provider id=%d skipping malformed interval %s", providerID, interval.ExternalEventID)
			continue
		}

		block := &domain.VendorCalendarBlock{
			ProviderID:      providerID,
			StartDatetime:   interval.StartsAt,
			EndDatetime:     interval.EndsAt,
			Source:          domain.BlockSourceExternalSync,
			ExternalEventID: &interval.ExternalEventID,
		}
		if interval.Title != "" {
			title := interval.Title
			block.Reason = &title
		}
		blocks = append(blocks, block)
	}

	return w.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		return w.blockRepo.ReplaceExternal(txCtx, providerID, blocks)
	})
}
