package paymentservice

import "errors"

var (
	// ErrPaymentNotFound платёж не найден
	ErrPaymentNotFound = errors.New("paymentservice: payment not found")

	// ErrPaymentDeclined платёж отклонён платёжным провайдером
	ErrPaymentDeclined = errors.New("paymentservice: payment declined")

	// ErrRefundRejected возврат отклонён платёжным провайдером
	ErrRefundRejected = errors.New("paymentservice: refund rejected")

	// ErrInternal внутренняя ошибка при обращении к платёжному сервису
	ErrInternal = errors.New("paymentservice: internal error")

	// ErrInvalidResponse некорректный ответ от платёжного сервиса
	ErrInvalidResponse = errors.New("paymentservice: invalid response")
)
