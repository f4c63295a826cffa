package paymentservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultCurrency = "RUB"

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент для работы с платёжным сервисом
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента платёжного сервиса
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// CapturePayment списывает средства клиента за бронирование
// idempotencyKey защищает от двойного списания при ретраях
func (c *Client) CapturePayment(ctx context.Context, clientID int64, amount float64, description, idempotencyKey string) (string, error) {
	reqBody := capturePaymentRequest{
		ClientID:       clientID,
		Amount:         amount,
		Currency:       defaultCurrency,
		Description:    description,
		IdempotencyKey: idempotencyKey,
	}

	var respBody capturePaymentResponse
	if err := c.postJSON(ctx, c.baseURL+"/internal/payments/capture", reqBody, &respBody, ErrPaymentDeclined); err != nil {
		return "", err
	}

	if respBody.PaymentID == "" {
		return "", fmt.Errorf("%w: empty payment_id in response", ErrInvalidResponse)
	}

	c.log.Info("Payment captured: payment_id=%s, client_id=%d, amount=%.2f", respBody.PaymentID, clientID, amount)
	return respBody.PaymentID, nil
}

// RefundPayment возвращает клиенту часть средств по платежу
// idempotencyKey защищает от двойного возврата при повторной отмене
func (c *Client) RefundPayment(ctx context.Context, paymentID string, amount float64, reason, idempotencyKey string) error {
	if amount <= 0 {
		// Нулевой возврат не требует обращения к платёжному сервису
		return nil
	}

	reqBody := refundPaymentRequest{
		PaymentID:      paymentID,
		Amount:         amount,
		Reason:         reason,
		IdempotencyKey: idempotencyKey,
	}

	var respBody refundPaymentResponse
	if err := c.postJSON(ctx, c.baseURL+"/internal/payments/refund", reqBody, &respBody, ErrRefundRejected); err != nil {
		return err
	}

	c.log.Info("Payment refunded: payment_id=%s, refund_id=%s, amount=%.2f", paymentID, respBody.RefundID, amount)
	return nil
}

// postJSON выполняет POST запрос с JSON телом и декодирует JSON ответ
// rejected возвращается при отказе платёжного провайдера (402/422)
func (c *Client) postJSON(ctx context.Context, url string, in, out interface{}, rejected error) error {
	data, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal request: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
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
	case http.StatusOK, http.StatusCreated:
		// Продолжаем обработку
	case http.StatusNotFound:
		return ErrPaymentNotFound
	case http.StatusPaymentRequired, http.StatusUnprocessableEntity:
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: %s", rejected, string(body))
	default:
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInternal, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return nil
}
