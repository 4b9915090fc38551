package specification

import (
	"gorm.io/gorm"
)

type TitleContains struct {
	Value string
}

func (s TitleContains) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("books.title ILIKE ?", "%"+s.Value+"%")
}

type ByCover struct {
	Cover string
}

func (s ByCover) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("books.cover = ?", s.Cover)
}

type AuthorFirstNameContains struct {
	Value string
}

func (s AuthorFirstNameContains) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("books.author_id IN (SELECT id FROM authors WHERE first_name ILIKE ?)", "%"+s.Value+"%")
}

type AuthorLastNameContains struct {
	Value string
}

func (s AuthorLastNameContains) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("books.author_id IN (SELECT id FROM authors WHERE last_name ILIKE ?)", "%"+s.Value+"%")
}

// Availability keeps books with copies on the shelf (Available) or none left.
type Availability struct {
	Available bool
}

func (s Availability) Apply(db *gorm.DB) *gorm.DB {
	if s.Available {
		return db.Where("books.inventory > 0")
	}
	return db.Where("books.inventory = 0")
}
