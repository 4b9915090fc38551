package dto

import (
	"library-service-be/internal/entity"

	"github.com/google/uuid"
)

type CreateBorrowingRequest struct {
	BookId             uuid.UUID `json:"book_id" validate:"required"`
	ExpectedReturnDate string    `json:"expected_return_date" validate:"required,datetime=2006-01-02"`
}

type BorrowingResponse struct {
	Id                 uuid.UUID         `json:"id"`
	BorrowDate         string            `json:"borrow_date"`
	ExpectedReturnDate string            `json:"expected_return_date"`
	ActualReturnDate   *string           `json:"actual_return_date"`
	BookId             uuid.UUID         `json:"book_id"`
	BookTitle          string            `json:"book_title,omitempty"`
	UserId             uuid.UUID         `json:"user_id"`
	IsActive           bool              `json:"is_active"`
	Payments           []PaymentResponse `json:"payments"`
}

func NewBorrowingResponse(b *entity.Borrowing) BorrowingResponse {
	resp := BorrowingResponse{
		Id:                 b.Id,
		BorrowDate:         b.BorrowDate.Format(entity.DateLayout),
		ExpectedReturnDate: b.ExpectedReturnDate.Format(entity.DateLayout),
		BookId:             b.BookId,
		UserId:             b.UserId,
		IsActive:           b.IsActive(),
		Payments:           make([]PaymentResponse, 0, len(b.Payments)),
	}
	if b.ActualReturnDate != nil {
		returned := b.ActualReturnDate.Format(entity.DateLayout)
		resp.ActualReturnDate = &returned
	}
	if b.Book != nil {
		resp.BookTitle = b.Book.Title
	}
	for _, p := range b.Payments {
		resp.Payments = append(resp.Payments, NewPaymentResponse(p))
	}
	return resp
}

// BorrowingCheckoutResponse is returned when the caller has to pay through SessionUrl.
type BorrowingCheckoutResponse struct {
	Borrowing  BorrowingResponse `json:"borrowing"`
	SessionUrl string            `json:"session_url,omitempty"`
}

type BorrowingFilter struct {
	PageQuery
	// UserIds is honoured for staff only.
	UserIds  []uuid.UUID
	IsActive *bool
}
