package dto

import (
	"time"

	"library-service-be/internal/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentResponse struct {
	Id          uuid.UUID       `json:"id"`
	Status      string          `json:"status"`
	Type        string          `json:"type"`
	BorrowingId uuid.UUID       `json:"borrowing_id"`
	SessionUrl  string          `json:"session_url"`
	SessionId   string          `json:"session_id"`
	MoneyToPay  decimal.Decimal `json:"money_to_pay"`
	ExpiresAt   time.Time       `json:"expires_at"`
}

func NewPaymentResponse(p *entity.Payment) PaymentResponse {
	return PaymentResponse{
		Id:          p.Id,
		Status:      string(p.Status),
		Type:        string(p.Type),
		BorrowingId: p.BorrowingId,
		SessionUrl:  p.SessionUrl,
		SessionId:   p.SessionId,
		MoneyToPay:  p.MoneyToPay,
		ExpiresAt:   p.ExpiresAt,
	}
}

type ConfirmSessionResponse struct {
	PaymentId uuid.UUID `json:"payment_id"`
	Status    string    `json:"status"`
	Confirmed bool      `json:"confirmed"`
}

type MidtransNotificationRequest struct {
	TransactionStatus string `json:"transaction_status"`
	OrderId           string `json:"order_id" validate:"required"`
	FraudStatus       string `json:"fraud_status"`
	SignatureKey      string `json:"signature_key" validate:"required"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
}
