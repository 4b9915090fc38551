package main

import (
	"log"
	"os"

	"library-service-be/internal/config"
	"library-service-be/pkg/database"
)

func main() {
	cfg := config.Load()
	if cfg.Database.Connection == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection, cfg.App.IsProduction())
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	email := os.Getenv("SEED_STAFF_EMAIL")
	password := os.Getenv("SEED_STAFF_PASSWORD")
	if email != "" && password != "" {
		log.Println("Seeding staff account...")
		SeedStaffUser(db, email, password)
	}

	log.Println("Seeding catalog...")
	SeedCatalog(db)

	log.Println("Seeding completed!")
}
