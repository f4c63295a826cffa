package check_availability

import (
	"time"

	"github.com/capozzinicolas-stack/vivelo-sub000/internal/domain"
	checkAvailability "github.com/capozzinicolas-stack/vivelo-sub000/internal/usecase/check_availability"
	"github.com/capozzinicolas-stack/vivelo-sub000/pkg/types"
)

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	Available        bool   `json:"available"`
	OverlappingCount int    `json:"overlappingCount"`
	MaxConcurrent    int    `json:"maxConcurrent"`
	CalendarBlocked  bool   `json:"calendarBlocked"`
	EffectiveStart   string `json:"effectiveStart"`
	EffectiveEnd     string `json:"effectiveEnd"`
}

// toUseCaseRequest собирает запрос use case из query параметров
func toUseCaseRequest(serviceID int64, date, start, end string) (*checkAvailability.Request, error) {
	eventDate, err := time.Parse(domain.DateFormat, date)
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(start)
	if err != nil {
		return nil, err
	}

	endTime, err := types.NewTimeStringFromString(end)
	if err != nil {
		return nil, err
	}

	return &checkAvailability.Request{
		ServiceID: serviceID,
		EventDate: eventDate,
		StartTime: startTime,
		EndTime:   endTime,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *checkAvailability.Response) *AvailabilityResponse {
	return &AvailabilityResponse{
		Available:        resp.Available,
		OverlappingCount: resp.OverlappingCount,
		MaxConcurrent:    resp.MaxConcurrent,
		CalendarBlocked:  resp.CalendarBlocked,
		EffectiveStart:   resp.EffectiveStart.Format(time.RFC3339),
		EffectiveEnd:     resp.EffectiveEnd.Format(time.RFC3339),
	}
}
