package specification

import (
	"time"

	"gorm.io/gorm"
)

type BorrowingActive struct {
	Active bool
}

func (s BorrowingActive) Apply(db *gorm.DB) *gorm.DB {
	if s.Active {
		return db.Where("borrowings.actual_return_date IS NULL")
	}
	return db.Where("borrowings.actual_return_date IS NOT NULL")
}

// OverdueOn selects active borrowings whose expected return date is before Date.
type OverdueOn struct {
	Date time.Time
}

func (s OverdueOn) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("borrowings.actual_return_date IS NULL AND borrowings.expected_return_date < ?", s.Date.Format("2006-01-02"))
}
