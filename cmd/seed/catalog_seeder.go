package main

import (
	"log"
	"strings"

	"library-service-be/internal/entity"
	"library-service-be/internal/model"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedStaffUser creates a staff account, or promotes an existing one.
func SeedStaffUser(db *gorm.DB, email, password string) {
	email = strings.ToLower(strings.TrimSpace(email))

	var existing model.User
	if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
		if existing.Role != string(entity.UserRoleStaff) {
			db.Model(&existing).Update("role", string(entity.UserRoleStaff))
			log.Printf("Promoted '%s' to staff", email)
		}
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Error hashing password: %v", err)
	}
	user := model.User{Email: email, PasswordHash: string(hash), Role: string(entity.UserRoleStaff)}
	if err := db.Create(&user).Error; err != nil {
		log.Printf("Error creating staff '%s': %v", email, err)
		return
	}
	log.Printf("Created staff: %s", email)
}

type seedBook struct {
	title     string
	cover     string
	inventory int
	dailyFee  string
}

// SeedCatalog populates a small catalog. Existing rows are left untouched.
func SeedCatalog(db *gorm.DB) {
	catalog := []struct {
		first, last string
		books       []seedBook
	}{
		{"George", "Orwell", []seedBook{
			{"Nineteen Eighty-Four", "hard", 3, "1.50"},
			{"Animal Farm", "soft", 5, "0.75"},
		}},
		{"Ursula", "Le Guin", []seedBook{
			{"A Wizard of Earthsea", "soft", 4, "1.00"},
			{"The Left Hand of Darkness", "hard", 2, "1.25"},
		}},
		{"Italo", "Calvino", []seedBook{
			{"Invisible Cities", "soft", 1, "0.90"},
		}},
	}

	for _, entry := range catalog {
		author := model.Author{FirstName: entry.first, LastName: entry.last}
		if err := db.Where("first_name = ? AND last_name = ?", entry.first, entry.last).
			FirstOrCreate(&author).Error; err != nil {
			log.Printf("Error seeding author '%s %s': %v", entry.first, entry.last, err)
			continue
		}

		for _, b := range entry.books {
			book := model.Book{
				Title:     b.title,
				AuthorId:  author.Id,
				Cover:     b.cover,
				Inventory: b.inventory,
				DailyFee:  decimal.RequireFromString(b.dailyFee),
			}
			if err := db.Where("title = ? AND author_id = ? AND cover = ?", b.title, author.Id, b.cover).
				FirstOrCreate(&book).Error; err != nil {
				log.Printf("Error seeding book '%s': %v", b.title, err)
				continue
			}
			log.Printf("Book ready: %s (%s)", book.Title, book.Cover)
		}
	}
}
