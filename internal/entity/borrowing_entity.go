package entity

import (
	"fmt"
	"time"

	"library-service-be/internal/pkg/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Borrowing struct {
	Id                 uuid.UUID
	BorrowDate         time.Time
	ExpectedReturnDate time.Time
	ActualReturnDate   *time.Time
	BookId             uuid.UUID
	Book               *Book
	UserId             uuid.UUID
	User               *User
	Payments           []*Payment
	CreatedAt          time.Time
}

func (b *Borrowing) IsActive() bool {
	return b.ActualReturnDate == nil
}

// Validate checks expected_return_date >= borrow_date and, once returned,
// actual_return_date >= borrow_date.
func (b *Borrowing) Validate() error {
	if DateOf(b.ExpectedReturnDate).Before(DateOf(b.BorrowDate)) {
		return fmt.Errorf("%w: expected return date must be later than borrow date", apperror.ErrInvalidDateRange)
	}
	if b.ActualReturnDate != nil && DateOf(*b.ActualReturnDate).Before(DateOf(b.BorrowDate)) {
		return fmt.Errorf("%w: actual return date must be later than borrow date", apperror.ErrInvalidDateRange)
	}
	return nil
}

// RentalFee is the amount owed for the planned loan period.
func (b *Borrowing) RentalFee(dailyFee decimal.Decimal) decimal.Decimal {
	days := DaysBetween(b.BorrowDate, b.ExpectedReturnDate)
	if days <= 0 {
		return decimal.Zero
	}
	return dailyFee.Mul(decimal.NewFromInt(int64(days)))
}

func (b *Borrowing) OverdueDays(today time.Time) int {
	days := DaysBetween(b.ExpectedReturnDate, today)
	if days < 0 {
		return 0
	}
	return days
}

func (b *Borrowing) IsOverdue(today time.Time) bool {
	return b.IsActive() && b.OverdueDays(today) > 0
}

// Fine is overdue_days * daily_fee * multiplier, zero when returned in time.
func (b *Borrowing) Fine(dailyFee decimal.Decimal, returnedOn time.Time, multiplier int) decimal.Decimal {
	days := b.OverdueDays(returnedOn)
	if days == 0 {
		return decimal.Zero
	}
	return dailyFee.Mul(decimal.NewFromInt(int64(days))).Mul(decimal.NewFromInt(int64(multiplier)))
}

func (b *Borrowing) String() string {
	title := b.BookId.String()
	if b.Book != nil {
		title = b.Book.Title
	}
	borrower := b.UserId.String()
	if b.User != nil {
		borrower = b.User.Email
	}
	return fmt.Sprintf("'%s' borrowed by %s", title, borrower)
}
