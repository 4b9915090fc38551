package entity

import (
	"testing"
	"time"

	"library-service-be/internal/pkg/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestBorrowingValidate(t *testing.T) {
	b := &Borrowing{
		BorrowDate:         mustDate(t, "2024-01-05"),
		ExpectedReturnDate: mustDate(t, "2024-01-04"),
	}
	assert.ErrorIs(t, b.Validate(), apperror.ErrInvalidDateRange)

	b.ExpectedReturnDate = mustDate(t, "2024-01-05")
	assert.NoError(t, b.Validate())

	early := mustDate(t, "2024-01-01")
	b.ActualReturnDate = &early
	assert.ErrorIs(t, b.Validate(), apperror.ErrInvalidDateRange)
}

func TestBorrowingFees(t *testing.T) {
	fee := decimal.RequireFromString("1.50")
	b := &Borrowing{
		BorrowDate:         mustDate(t, "2024-01-01"),
		ExpectedReturnDate: mustDate(t, "2024-01-08"),
	}

	assert.True(t, b.RentalFee(fee).Equal(decimal.RequireFromString("10.50")))

	returned := mustDate(t, "2024-01-10")
	assert.Equal(t, 2, b.OverdueDays(returned))
	assert.True(t, b.Fine(fee, returned, 2).Equal(decimal.RequireFromString("6.00")))

	onTime := mustDate(t, "2024-01-08")
	assert.True(t, b.Fine(fee, onTime, 2).IsZero())
	assert.False(t, b.IsOverdue(onTime))
	assert.True(t, b.IsOverdue(returned))

	b.ActualReturnDate = &returned
	assert.False(t, b.IsOverdue(returned), "returned borrowings are never overdue")
}

func TestBookValidate(t *testing.T) {
	book := &Book{Id: uuid.New(), Title: "Dune", Cover: BookCoverHard, Inventory: 0, DailyFee: decimal.Zero}
	assert.NoError(t, book.Validate())

	book.Inventory = -1
	assert.ErrorIs(t, book.Validate(), apperror.ErrValidation)

	book.Inventory = 1
	book.Cover = "paper"
	assert.ErrorIs(t, book.Validate(), apperror.ErrValidation)

	book.Cover = BookCoverSoft
	book.DailyFee = decimal.NewFromInt(-1)
	assert.ErrorIs(t, book.Validate(), apperror.ErrValidation)
}

func TestActorCanAccess(t *testing.T) {
	owner := uuid.New()
	assert.True(t, Actor{UserId: owner}.CanAccess(owner))
	assert.False(t, Actor{UserId: uuid.New()}.CanAccess(owner))
	assert.True(t, Actor{UserId: uuid.New(), IsStaff: true}.CanAccess(owner))
}

func TestDaysBetweenIgnoresClockTime(t *testing.T) {
	a := time.Date(2024, 1, 1, 23, 59, 0, 0, time.UTC)
	b := time.Date(2024, 1, 2, 0, 1, 0, 0, time.UTC)
	assert.Equal(t, 1, DaysBetween(a, b))
	assert.Equal(t, -1, DaysBetween(b, a))
}
