package scope

import (
	"library-service-be/internal/repository/specification"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// WithBooksCount selects authors together with their computed books_count.
func WithBooksCount(db *gorm.DB) *gorm.DB {
	return db.Select("authors.*, " + specification.BooksCountExpr + " AS books_count")
}

// ForUpdate takes a row lock held until the surrounding transaction ends.
func ForUpdate(db *gorm.DB) *gorm.DB {
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}
