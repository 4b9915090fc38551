package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BooksCountExpr is the correlated subquery behind authors.books_count.
const BooksCountExpr = "(SELECT COUNT(*) FROM books WHERE books.author_id = authors.id)"

type FirstNameContains struct {
	Value string
}

func (s FirstNameContains) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("authors.first_name ILIKE ?", "%"+s.Value+"%")
}

type LastNameContains struct {
	Value string
}

func (s LastNameContains) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("authors.last_name ILIKE ?", "%"+s.Value+"%")
}

type ByFullName struct {
	FirstName string
	LastName  string
}

func (s ByFullName) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("authors.first_name = ? AND authors.last_name = ?", s.FirstName, s.LastName)
}

// BooksCount compares the number of books an author has.
// Op is one of "=", ">", "<".
type BooksCount struct {
	Op    string
	Value int
}

func (s BooksCount) Apply(db *gorm.DB) *gorm.DB {
	switch s.Op {
	case ">":
		return db.Where(BooksCountExpr+" > ?", s.Value)
	case "<":
		return db.Where(BooksCountExpr+" < ?", s.Value)
	default:
		return db.Where(BooksCountExpr+" = ?", s.Value)
	}
}

type HasBooks struct {
	Has bool
}

func (s HasBooks) Apply(db *gorm.DB) *gorm.DB {
	if s.Has {
		return db.Where(BooksCountExpr + " > 0")
	}
	return db.Where(BooksCountExpr + " = 0")
}

type ByAuthorID struct {
	AuthorID uuid.UUID
}

func (s ByAuthorID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("author_id = ?", s.AuthorID)
}
