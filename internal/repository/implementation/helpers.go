package implementation

import (
	"library-service-be/internal/repository/specification"

	"gorm.io/gorm"
)

func applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

// countable drops ordering and paging so Count works with the list specs.
func countable(specs []specification.Specification) []specification.Specification {
	filtered := make([]specification.Specification, 0, len(specs))
	for _, spec := range specs {
		switch spec.(type) {
		case specification.Pagination, specification.OrderBy:
			continue
		}
		filtered = append(filtered, spec)
	}
	return filtered
}
