package catalogservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/capozzinicolas-stack/vivelo-sub000/internal/domain"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент для работы с каталогом услуг и провайдеров
// Каталог (услуги, профили, политики, кампании) ведётся вне ядра бронирований
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента каталога
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetServiceOffering получает услугу по ID вместе с привязанной политикой отмены
func (c *Client) GetServiceOffering(ctx context.Context, serviceID int64) (*domain.ServiceOffering, error) {
	url := fmt.Sprintf("%s/internal/services/%d", c.baseURL, serviceID)

	var dto serviceOfferingDTO
	if err := c.getJSON(ctx, url, &dto, ErrServiceNotFound); err != nil {
		return nil, err
	}

	return dto.toDomain(), nil
}

// GetProviderProfile получает профиль провайдера по ID
func (c *Client) GetProviderProfile(ctx context.Context, providerID int64) (*domain.ProviderProfile, error) {
	url := fmt.Sprintf("%s/internal/providers/%d", c.baseURL, providerID)

	var dto providerProfileDTO
	if err := c.getJSON(ctx, url, &dto, ErrProviderNotFound); err != nil {
		return nil, err
	}

	return dto.toDomain(), nil
}

// GetActiveCampaign получает активную кампанию для услуги
func (c *Client) GetActiveCampaign(ctx context.Context, serviceID int64) (*domain.Campaign, error) {
	url := fmt.Sprintf("%s/internal/services/%d/active-campaign", c.baseURL, serviceID)

	var dto campaignDTO
	if err := c.getJSON(ctx, url, &dto, ErrNoCampaign); err != nil {
		return nil, err
	}

	return dto.toDomain(), nil
}

// GetActiveCampaignWithGracefulDegradation получает активную кампанию с graceful degradation
// При недоступности каталога возвращает ErrServiceDegraded: оформление продолжается
// без кампании (по базовой цене и ставке), а не падает
func (c *Client) GetActiveCampaignWithGracefulDegradation(ctx context.Context, serviceID int64) (*domain.Campaign, error) {
	campaign, err := c.GetActiveCampaign(ctx, serviceID)
	if err != nil {
		// Отсутствие кампании - штатный ответ, пробрасываем как есть
		if errors.Is(err, ErrNoCampaign) {
			return nil, err
		}

		// Для остальных ошибок (недоступность, timeout, ошибки парсинга)
		// применяем graceful degradation
		c.log.Error("CatalogService unavailable, applying graceful degradation for service_id=%d: %v", serviceID, err)
		return nil, fmt.Errorf("%w: service_id=%d, error=%v", ErrServiceDegraded, serviceID, err)
	}

	c.log.Info("Active campaign found for service_id=%d: campaign=%s", serviceID, campaign.Name)
	return campaign, nil
}

// getJSON выполняет GET запрос и декодирует JSON ответ
// notFound возвращается для статуса 404
func (c *Client) getJSON(ctx context.Context, url string, out interface{}, notFound error) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusNotFound:
		return notFound
	default:
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return nil
}
