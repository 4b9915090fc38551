package mapper

import (
	"time"

	"library-service-be/internal/entity"
	"library-service-be/internal/model"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type BorrowingMapper struct {
	books    *BookMapper
	users    *UserMapper
	payments *PaymentMapper
}

func NewBorrowingMapper() *BorrowingMapper {
	return &BorrowingMapper{
		books:    NewBookMapper(),
		users:    NewUserMapper(),
		payments: NewPaymentMapper(),
	}
}

func (m *BorrowingMapper) ToEntity(b *model.Borrowing) *entity.Borrowing {
	if b == nil {
		return nil
	}
	borrowing := &entity.Borrowing{
		Id:                 b.Id,
		BorrowDate:         entity.DateOf(time.Time(b.BorrowDate)),
		ExpectedReturnDate: entity.DateOf(time.Time(b.ExpectedReturnDate)),
		BookId:             b.BookId,
		UserId:             b.UserId,
		CreatedAt:          b.CreatedAt,
	}
	if b.ActualReturnDate != nil {
		returned := entity.DateOf(time.Time(*b.ActualReturnDate))
		borrowing.ActualReturnDate = &returned
	}
	if b.Book.Id != uuid.Nil {
		borrowing.Book = m.books.ToEntity(&b.Book)
	}
	if b.User.Id != uuid.Nil {
		borrowing.User = m.users.ToEntity(&b.User)
	}
	if len(b.Payments) > 0 {
		borrowing.Payments = make([]*entity.Payment, len(b.Payments))
		for i := range b.Payments {
			borrowing.Payments[i] = m.payments.ToEntity(&b.Payments[i])
		}
	}
	return borrowing
}

// ToModel maps the borrowing columns only; associations are written by their own repositories.
func (m *BorrowingMapper) ToModel(b *entity.Borrowing) *model.Borrowing {
	if b == nil {
		return nil
	}
	borrowing := &model.Borrowing{
		Id:                 b.Id,
		BorrowDate:         datatypes.Date(entity.DateOf(b.BorrowDate)),
		ExpectedReturnDate: datatypes.Date(entity.DateOf(b.ExpectedReturnDate)),
		BookId:             b.BookId,
		UserId:             b.UserId,
		CreatedAt:          b.CreatedAt,
	}
	if b.ActualReturnDate != nil {
		returned := datatypes.Date(entity.DateOf(*b.ActualReturnDate))
		borrowing.ActualReturnDate = &returned
	}
	return borrowing
}

func (m *BorrowingMapper) ToEntities(borrowings []*model.Borrowing) []*entity.Borrowing {
	entities := make([]*entity.Borrowing, len(borrowings))
	for i, b := range borrowings {
		entities[i] = m.ToEntity(b)
	}
	return entities
}
