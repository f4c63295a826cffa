package booking

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/capozzinicolas-stack/vivelo-sub000/internal/domain"
	"github.com/capozzinicolas-stack/vivelo-sub000/pkg/dbmetrics"
	"github.com/capozzinicolas-stack/vivelo-sub000/pkg/psqlbuilder"
)

// pgExclusionViolation код ошибки PostgreSQL при нарушении exclusion constraint
const pgExclusionViolation = "23P01"

// bookingColumns колонки таблицы bookings в порядке сканирования
var bookingColumns = []string{
	"id",
	"service_id",
	"client_id",
	"provider_id",
	"event_date",
	"start_time",
	"end_time",
	"event_hours",
	"guest_count",
	"base_total",
	"extras_total",
	"discount_total",
	"total",
	"commission",
	"commission_rate_snapshot",
	"status",
	"exclusive",
	"start_datetime",
	"end_datetime",
	"effective_start",
	"effective_end",
	"policy_snapshot",
	"service_name",
	"refund_amount",
	"refund_percent",
	"cancelled_at",
	"cancelled_by",
	"cancel_reason",
	"payment_id",
	"external_event_id",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование
// Если в контексте передана активная транзакция (через context.Value), использует её.
//
// Снимок политики отмены сериализуется в JSONB. На таблице действует
// exclusion constraint по пересечению занятых интервалов активных бронирований -
// его срабатывание (гонка двух параллельных оформлений) возвращается
// как ErrOverlapConflict, вызывающая сторона повторяет проверку доступности
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	policySnapshot, err := encodePolicySnapshot(booking.PolicySnapshot)
	if err != nil {
		return nil, err
	}

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"service_id",
			"client_id",
			"provider_id",
			"event_date",
			"start_time",
			"end_time",
			"event_hours",
			"guest_count",
			"base_total",
			"extras_total",
			"discount_total",
			"total",
			"commission",
			"commission_rate_snapshot",
			"status",
			"exclusive",
			"start_datetime",
			"end_datetime",
			"effective_start",
			"effective_end",
			"policy_snapshot",
			"service_name",
			"payment_id",
		).
		Values(
			booking.ServiceID,
			booking.ClientID,
			booking.ProviderID,
			booking.EventDate,
			booking.StartTime,
			booking.EndTime,
			booking.EventHours,
			booking.GuestCount,
			booking.BaseTotal,
			booking.ExtrasTotal,
			booking.DiscountTotal,
			booking.Total,
			booking.Commission,
			booking.CommissionRateSnapshot,
			booking.Status,
			booking.Exclusive,
			booking.StartDatetime,
			booking.EndDatetime,
			booking.EffectiveStart,
			booking.EffectiveEnd,
			policySnapshot,
			booking.ServiceName,
			booking.PaymentID,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		if isExclusionViolation(err) {
			return nil, ErrOverlapConflict
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return booking, nil
}

// GetByID получает бронирование по ID
// Внутри транзакции строка блокируется (FOR UPDATE) - используется
// сценарием отмены для защиты от параллельной двойной отмены
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	return booking, nil
}

// CountActiveOverlapping подсчитывает активные бронирования вендора,
// чей занятый интервал пересекает [start, end) по правилу полуоткрытых интервалов.
// excludeID исключает бронирование из собственной проверки конфликтов (может быть nil).
// Внутри транзакции пересекающиеся строки блокируются (FOR UPDATE) -
// сериализация проверки доступности с последующей вставкой
func (r *Repository) CountActiveOverlapping(ctx context.Context, providerID int64, start, end time.Time, excludeID *int64) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	activeStatuses := make([]string, len(domain.ActiveStatuses))
	for i, s := range domain.ActiveStatuses {
		activeStatuses[i] = string(s)
	}

	selectBuilder := psqlbuilder.Select("id").
		From("bookings").
		Where(squirrel.Eq{"provider_id": providerID}).
		Where(squirrel.Eq{"status": activeStatuses}).
		Where(squirrel.Lt{"effective_start": end}).
		Where(squirrel.Gt{"effective_end": start})

	if excludeID != nil {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"id": *excludeID})
	}

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CountActiveOverlapping - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: CountActiveOverlapping - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return 0, fmt.Errorf("%w: CountActiveOverlapping - scan row: %v", ErrScanRow, err)
		}
		count++
	}

	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("%w: CountActiveOverlapping - rows error: %v", ErrScanRow, err)
	}

	return count, nil
}

// GetByClientID получает список бронирований клиента
// Опционально фильтрует по статусу
func (r *Repository) GetByClientID(ctx context.Context, clientID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"client_id": clientID}).
		OrderBy("event_date DESC, start_time DESC")

	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByClientID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByClientID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// GetByProviderWithFilter получает бронирования провайдера с гибкой фильтрацией
// Поддерживает фильтрацию по периоду, статусу и включению финальных бронирований
func (r *Repository) GetByProviderWithFilter(ctx context.Context, filter domain.ProviderBookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"provider_id": filter.ProviderID})

	if filter.StartDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"event_date": *filter.StartDate})
	}
	if filter.EndDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"event_date": *filter.EndDate})
	}

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	} else if !filter.IncludeInactive {
		terminalStatuses := make([]string, len(domain.TerminalStatuses))
		for i, s := range domain.TerminalStatuses {
			terminalStatuses[i] = string(s)
		}
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": terminalStatuses})
	}

	selectBuilder = selectBuilder.OrderBy("event_date DESC, start_time DESC")

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByProviderWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByProviderWithFilter - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// UpdateStatus обновляет статус бронирования
// Допустимость перехода проверяется вызывающей стороной через state machine
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// SetExternalEventID сохраняет идентификатор события во внешнем календаре
// (после push подтверждённого бронирования)
func (r *Repository) SetExternalEventID(ctx context.Context, id int64, externalEventID *string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("external_event_id", externalEventID).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: SetExternalEventID - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: SetExternalEventID - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: SetExternalEventID - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// GetProviderIDs возвращает идентификаторы провайдеров, у которых есть
// актуальные бронирования (для фоновой сверки внешних календарей)
func (r *Repository) GetProviderIDs(ctx context.Context) ([]int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("DISTINCT provider_id").
		From("bookings").
		Where("effective_end >= NOW()").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetProviderIDs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetProviderIDs - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	providerIDs := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: GetProviderIDs - scan row: %v", ErrScanRow, err)
		}
		providerIDs = append(providerIDs, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetProviderIDs - rows error: %v", ErrScanRow, err)
	}

	return providerIDs, nil
}

// Cancel отменяет бронирование, фиксируя поля возврата ровно один раз
// Условие status != cancelled защищает поля возврата от перезаписи
// при повторной отмене
func (r *Repository) Cancel(
	ctx context.Context,
	id int64,
	actor domain.CancelActor,
	reason *string,
	refund domain.RefundResult,
	cancelledAt time.Time,
) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", domain.StatusCancelled).
		Set("cancelled_at", cancelledAt).
		Set("cancelled_by", actor).
		Set("cancel_reason", reason).
		Set("refund_amount", refund.RefundAmount).
		Set("refund_percent", refund.RefundPercent).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.NotEq{"status": domain.StatusCancelled}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Cancel - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Cancel - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// scanBooking сканирует одну строку в бронирование
func scanBooking(row *sql.Row) (*domain.Booking, error) {
	var booking domain.Booking
	var createdAt, updatedAt sql.NullTime
	var policySnapshot []byte
	var cancelledBy sql.NullString

	err := row.Scan(
		&booking.ID,
		&booking.ServiceID,
		&booking.ClientID,
		&booking.ProviderID,
		&booking.EventDate,
		&booking.StartTime,
		&booking.EndTime,
		&booking.EventHours,
		&booking.GuestCount,
		&booking.BaseTotal,
		&booking.ExtrasTotal,
		&booking.DiscountTotal,
		&booking.Total,
		&booking.Commission,
		&booking.CommissionRateSnapshot,
		&booking.Status,
		&booking.Exclusive,
		&booking.StartDatetime,
		&booking.EndDatetime,
		&booking.EffectiveStart,
		&booking.EffectiveEnd,
		&policySnapshot,
		&booking.ServiceName,
		&booking.RefundAmount,
		&booking.RefundPercent,
		&booking.CancelledAt,
		&cancelledBy,
		&booking.CancelReason,
		&booking.PaymentID,
		&booking.ExternalEventID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := decodeBookingExtras(&booking, policySnapshot, cancelledBy); err != nil {
		return nil, err
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return &booking, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		var booking domain.Booking
		var createdAt, updatedAt sql.NullTime
		var policySnapshot []byte
		var cancelledBy sql.NullString

		err := rows.Scan(
			&booking.ID,
			&booking.ServiceID,
			&booking.ClientID,
			&booking.ProviderID,
			&booking.EventDate,
			&booking.StartTime,
			&booking.EndTime,
			&booking.EventHours,
			&booking.GuestCount,
			&booking.BaseTotal,
			&booking.ExtrasTotal,
			&booking.DiscountTotal,
			&booking.Total,
			&booking.Commission,
			&booking.CommissionRateSnapshot,
			&booking.Status,
			&booking.Exclusive,
			&booking.StartDatetime,
			&booking.EndDatetime,
			&booking.EffectiveStart,
			&booking.EffectiveEnd,
			&policySnapshot,
			&booking.ServiceName,
			&booking.RefundAmount,
			&booking.RefundPercent,
			&booking.CancelledAt,
			&cancelledBy,
			&booking.CancelReason,
			&booking.PaymentID,
			&booking.ExternalEventID,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}

		if err := decodeBookingExtras(&booking, policySnapshot, cancelledBy); err != nil {
			return nil, fmt.Errorf("%w: scanBookings - decode row: %v", ErrScanRow, err)
		}

		booking.CreatedAt = createdAt.Time
		booking.UpdatedAt = updatedAt.Time

		bookings = append(bookings, &booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}

// decodeBookingExtras распаковывает JSONB снимок политики и nullable-поля
func decodeBookingExtras(booking *domain.Booking, policySnapshot []byte, cancelledBy sql.NullString) error {
	if len(policySnapshot) > 0 {
		var policy domain.CancellationPolicy
		if err := json.Unmarshal(policySnapshot, &policy); err != nil {
			return err
		}
		booking.PolicySnapshot = &policy
	}

	if cancelledBy.Valid {
		actor := domain.CancelActor(cancelledBy.String)
		booking.CancelledBy = &actor
	}

	return nil
}

// encodePolicySnapshot сериализует снимок политики в JSONB (NULL, если политики нет)
func encodePolicySnapshot(policy *domain.CancellationPolicy) ([]byte, error) {
	if policy == nil {
		return nil, nil
	}

	data, err := json.Marshal(policy)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncodeSnapshot, err)
	}
	return data, nil
}

// isExclusionViolation проверяет нарушение exclusion constraint PostgreSQL
func isExclusionViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pgExclusionViolation
	}
	return false
}
