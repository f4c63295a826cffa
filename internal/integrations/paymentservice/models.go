package paymentservice

// capturePaymentRequest запрос на списание средств
type capturePaymentRequest struct {
	ClientID       int64   `json:"client_id"`
	Amount         float64 `json:"amount"`
	Currency       string  `json:"currency"`
	Description    string  `json:"description"`
	IdempotencyKey string  `json:"idempotency_key"`
}

// capturePaymentResponse ответ на списание средств
type capturePaymentResponse struct {
	PaymentID string `json:"payment_id"`
	Status    string `json:"status"`
}

// refundPaymentRequest запрос на возврат средств
type refundPaymentRequest struct {
	PaymentID      string  `json:"payment_id"`
	Amount         float64 `json:"amount"`
	Reason         string  `json:"reason"`
	IdempotencyKey string  `json:"idempotency_key"`
}

// refundPaymentResponse ответ на возврат средств
type refundPaymentResponse struct {
	RefundID string `json:"refund_id"`
	Status   string `json:"status"`
}

// ErrorResponse модель ошибки от платёжного сервиса
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
