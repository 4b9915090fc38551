package mapper

import (
	"library-service-be/internal/entity"
	"library-service-be/internal/model"

	"github.com/google/uuid"
)

type PaymentMapper struct{}

func NewPaymentMapper() *PaymentMapper {
	return &PaymentMapper{}
}

func (m *PaymentMapper) ToEntity(p *model.Payment) *entity.Payment {
	if p == nil {
		return nil
	}
	payment := &entity.Payment{
		Id:          p.Id,
		Status:      entity.PaymentStatus(p.Status),
		Type:        entity.PaymentType(p.Type),
		BorrowingId: p.BorrowingId,
		SessionUrl:  p.SessionUrl,
		SessionId:   p.SessionId,
		MoneyToPay:  p.MoneyToPay,
		ExpiresAt:   p.ExpiresAt,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.Borrowing.Id != uuid.Nil {
		// Payments are leaves; avoid recursing back into Borrowing.Payments.
		p.Borrowing.Payments = nil
		payment.Borrowing = NewBorrowingMapper().ToEntity(&p.Borrowing)
	}
	return payment
}

func (m *PaymentMapper) ToModel(p *entity.Payment) *model.Payment {
	if p == nil {
		return nil
	}
	return &model.Payment{
		Id:          p.Id,
		Status:      string(p.Status),
		Type:        string(p.Type),
		BorrowingId: p.BorrowingId,
		SessionUrl:  p.SessionUrl,
		SessionId:   p.SessionId,
		MoneyToPay:  p.MoneyToPay,
		ExpiresAt:   p.ExpiresAt,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (m *PaymentMapper) ToEntities(payments []*model.Payment) []*entity.Payment {
	entities := make([]*entity.Payment, len(payments))
	for i, p := range payments {
		entities[i] = m.ToEntity(p)
	}
	return entities
}
