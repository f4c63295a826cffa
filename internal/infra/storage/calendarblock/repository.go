package calendarblock

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/capozzinicolas-stack/vivelo-sub000/internal/domain"
	"github.com/capozzinicolas-stack/vivelo-sub000/pkg/dbmetrics"
	"github.com/capozzinicolas-stack/vivelo-sub000/pkg/psqlbuilder"
)

// Переиспользуем интерфейсы из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor

// blockColumns колонки таблицы vendor_calendar_blocks в порядке сканирования
var blockColumns = []string{
	"id",
	"provider_id",
	"start_datetime",
	"end_datetime",
	"reason",
	"source",
	"external_event_id",
	"created_at",
}

// Repository репозиторий для работы с календарными блокировками вендоров
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория блокировок
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новую блокировку
func (r *Repository) Create(ctx context.Context, block *domain.VendorCalendarBlock) (*domain.VendorCalendarBlock, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("vendor_calendar_blocks").
		Columns(
			"provider_id",
			"start_datetime",
			"end_datetime",
			"reason",
			"source",
			"external_event_id",
		).
		Values(
			block.ProviderID,
			block.StartDatetime,
			block.EndDatetime,
			block.Reason,
			block.Source,
			block.ExternalEventID,
		).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&block.ID, &createdAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	block.CreatedAt = createdAt.Time

	return block, nil
}

// GetByID получает блокировку по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.VendorCalendarBlock, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(blockColumns...).
		From("vendor_calendar_blocks").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	block, err := scanBlock(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrBlockNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan block: %v", ErrScanRow, err)
	}

	return block, nil
}

// GetByProviderID получает все блокировки вендора, отсортированные по началу
func (r *Repository) GetByProviderID(ctx context.Context, providerID int64) ([]*domain.VendorCalendarBlock, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(blockColumns...).
		From("vendor_calendar_blocks").
		Where(squirrel.Eq{"provider_id": providerID}).
		OrderBy("start_datetime ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByProviderID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByProviderID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBlocks(rows)
}

// HasOverlapping проверяет, пересекает ли хотя бы одна блокировка вендора
// полуоткрытый интервал [start, end)
// Блокировка - абсолютное вето независимо от лимита одновременных услуг
func (r *Repository) HasOverlapping(ctx context.Context, providerID int64, start, end time.Time) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		From("vendor_calendar_blocks").
		Where(squirrel.Eq{"provider_id": providerID}).
		Where(squirrel.Lt{"start_datetime": end}).
		Where(squirrel.Gt{"end_datetime": start}).
		Limit(1).
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: HasOverlapping - build select query: %v", ErrBuildQuery, err)
	}

	var one int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: HasOverlapping - scan row: %v", ErrScanRow, err)
	}

	return true, nil
}

// DeleteManual удаляет блокировку, созданную провайдером вручную
// Блокировки внешней синхронизации удаляются только циклом reconciliation
func (r *Repository) DeleteManual(ctx context.Context, id int64, providerID int64) error {
	block, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if block.ProviderID != providerID {
		return ErrBlockNotFound
	}
	if !block.IsManual() {
		return ErrNotManual
	}

	query, args, err := psqlbuilder.Delete("vendor_calendar_blocks").
		Where(squirrel.Eq{"id": id, "source": domain.BlockSourceManual}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: DeleteManual - build delete query: %v", ErrBuildQuery, err)
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DeleteManual - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DeleteManual - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBlockNotFound
	}

	return nil
}

// ReplaceExternal приводит блокировки внешней синхронизации вендора к набору,
// полученному из внешнего календаря: новые интервалы добавляются, существующие
// обновляются по external_event_id, исчезнувшие upstream - удаляются.
// Ожидает активную транзакцию в контексте (вызывается из reconciliation-цикла)
func (r *Repository) ReplaceExternal(ctx context.Context, providerID int64, blocks []*domain.VendorCalendarBlock) error {
	if !dbmetrics.IsInTransaction(ctx) {
		return fmt.Errorf("%w: ReplaceExternal requires an active transaction", ErrTransaction)
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	externalIDs := make([]string, 0, len(blocks))
	for _, block := range blocks {
		if block.ExternalEventID != nil {
			externalIDs = append(externalIDs, *block.ExternalEventID)
		}
	}

	// Удаляем блокировки, которых больше нет во внешнем календаре
	deleteBuilder := psqlbuilder.Delete("vendor_calendar_blocks").
		Where(squirrel.Eq{"provider_id": providerID, "source": domain.BlockSourceExternalSync})
	if len(externalIDs) > 0 {
		deleteBuilder = deleteBuilder.Where(squirrel.NotEq{"external_event_id": externalIDs})
	}

	query, args, err := deleteBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceExternal - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: ReplaceExternal - execute delete: %v", ErrExecQuery, err)
	}

	// Вставляем/обновляем актуальный набор по external_event_id
	for _, block := range blocks {
		query, args, err := psqlbuilder.Insert("vendor_calendar_blocks").
			Columns(
				"provider_id",
				"start_datetime",
				"end_datetime",
				"reason",
				"source",
				"external_event_id",
			).
			Values(
				providerID,
				block.StartDatetime,
				block.EndDatetime,
				block.Reason,
				domain.BlockSourceExternalSync,
				block.ExternalEventID,
			).
			Suffix(`ON CONFLICT (provider_id, external_event_id) WHERE source = 'external_sync'
				DO UPDATE SET start_datetime = EXCLUDED.start_datetime,
				              end_datetime = EXCLUDED.end_datetime,
				              reason = EXCLUDED.reason`).
			ToSql()

		if err != nil {
			return fmt.Errorf("%w: ReplaceExternal - build upsert query: %v", ErrBuildQuery, err)
		}

		if _, err := executor.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("%w: ReplaceExternal - execute upsert: %v", ErrExecQuery, err)
		}
	}

	return nil
}

// scanBlock сканирует одну строку в блокировку
func scanBlock(row *sql.Row) (*domain.VendorCalendarBlock, error) {
	var block domain.VendorCalendarBlock
	var createdAt sql.NullTime

	err := row.Scan(
		&block.ID,
		&block.ProviderID,
		&block.StartDatetime,
		&block.EndDatetime,
		&block.Reason,
		&block.Source,
		&block.ExternalEventID,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	block.CreatedAt = createdAt.Time
	return &block, nil
}

// scanBlocks сканирует результаты запроса в слайс блокировок
func scanBlocks(rows *sql.Rows) ([]*domain.VendorCalendarBlock, error) {
	blocks := make([]*domain.VendorCalendarBlock, 0)

	for rows.Next() {
		var block domain.VendorCalendarBlock
		var createdAt sql.NullTime

		err := rows.Scan(
			&block.ID,
			&block.ProviderID,
			&block.StartDatetime,
			&block.EndDatetime,
			&block.Reason,
			&block.Source,
			&block.ExternalEventID,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBlocks - scan row: %v", ErrScanRow, err)
		}

		block.CreatedAt = createdAt.Time
		blocks = append(blocks, &block)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBlocks - rows error: %v", ErrScanRow, err)
	}

	return blocks, nil
}
