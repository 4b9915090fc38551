package database

import (
	"fmt"

	"gorm.io/gorm"
)

// Migrate creates or updates the schema for the given models and installs the
// constraints AutoMigrate cannot express.
func Migrate(db *gorm.DB, models ...interface{}) error {
	setup := []string{
		`CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
	}
	for _, sql := range setup {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("setup %q: %w", sql, err)
		}
	}

	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	constraints := []struct {
		table string
		name  string
		check string
	}{
		{"books", "chk_books_inventory_non_negative", "inventory >= 0"},
		{"books", "chk_books_daily_fee_non_negative", "daily_fee >= 0"},
		{"books", "chk_books_cover", "cover IN ('hard', 'soft')"},
		{"borrowings", "chk_borrowings_expected_after_borrow", "expected_return_date >= borrow_date"},
		{"borrowings", "chk_borrowings_actual_after_borrow", "actual_return_date IS NULL OR actual_return_date >= borrow_date"},
		{"payments", "chk_payments_status", "status IN ('pending', 'paid', 'expired')"},
		{"payments", "chk_payments_type", "type IN ('payment', 'fee')"},
	}
	for _, c := range constraints {
		sql := fmt.Sprintf(
			`DO $$ BEGIN IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = '%s') THEN ALTER TABLE %s ADD CONSTRAINT %s CHECK (%s); END IF; END $$;`,
			c.name, c.table, c.name, c.check,
		)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("constraint %s: %w", c.name, err)
		}
	}
	return nil
}
