package unitofwork

import (
	"context"

	"library-service-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	AuthorRepository() contract.AuthorRepository
	SubscriptionRepository() contract.SubscriptionRepository
	BookRepository() contract.BookRepository
	BorrowingRepository() contract.BorrowingRepository
	PaymentRepository() contract.PaymentRepository
}
