package database

import (
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/spf13/viper"
	"github.com/tekstilpro/proforma-api/internal/config"
	"github.com/tekstilpro/proforma-api/internal/domain/entity"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	logLevel := logger.Info

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying SQL DB to set connection pool settings
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	log.Println("Successfully connected to PostgreSQL database")
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		// Operator entities
		&entity.User{},
		&entity.PricingSettings{},

		// Catalog entities
		&entity.Product{},

		// Quotation entities
		&entity.ProductionRequest{},
		&entity.RequestItem{},
		&entity.Quote{},
		&entity.QuoteItem{},

		// System entities
		&entity.IdempotencyKey{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// SeedDefaultData seeds the database with the admin operator and a starter catalog
func SeedDefaultData(db *gorm.DB) error {
	log.Println("Seeding default data...")

	// Create admin operator if configured via environment variables
	adminEmail := viper.GetString("ADMIN_EMAIL")
	adminPassword := viper.GetString("ADMIN_PASSWORD")
	adminName := viper.GetString("ADMIN_NAME")

	if adminEmail != "" && adminPassword != "" {
		var existingAdmin entity.User
		if err := db.Where("email = ?", adminEmail).First(&existingAdmin).Error; err != nil {
			hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
			if err != nil {
				log.Printf("Warning: failed to hash admin password: %v", err)
			} else {
				if adminName == "" {
					adminName = "Admin"
				}
				// Split admin name into first and last name
				firstName := adminName
				lastName := ""
				for i, c := range adminName {
					if c == ' ' {
						firstName = adminName[:i]
						lastName = adminName[i+1:]
						break
					}
				}
				adminUser := entity.User{
					ID:        uuid.New(),
					FirstName: firstName,
					LastName:  lastName,
					Email:     adminEmail,
					Password:  string(hashedPassword),
				}
				if err := db.Create(&adminUser).Error; err != nil {
					log.Printf("Warning: failed to create admin user: %v", err)
				} else {
					log.Printf("Admin user created: %s", adminEmail)

					settings := entity.PricingSettings{
						UserID:         adminUser.ID,
						DefaultVATRate: 20,
						Currency:       "TRY",
					}
					if err := db.Create(&settings).Error; err != nil {
						log.Printf("Warning: failed to create default pricing settings: %v", err)
					}
				}
			}
		} else {
			log.Printf("Admin user already exists: %s", adminEmail)
		}
	}

	// Seed a starter product catalog on an empty database
	var productCount int64
	if err := db.Model(&entity.Product{}).Count(&productCount).Error; err == nil && productCount == 0 {
		products := []entity.Product{
			{Name: "Basic T-Shirt", Code: "TS-001"},
			{Name: "Polo Shirt", Code: "PS-001"},
			{Name: "Hooded Sweatshirt", Code: "HS-001"},
			{Name: "Zip Hoodie", Code: "ZH-001"},
			{Name: "Crewneck Sweatshirt", Code: "CS-001"},
			{Name: "Work Vest", Code: "WV-001"},
		}
		for i := range products {
			if err := db.Create(&products[i]).Error; err != nil {
				log.Printf("Warning: failed to seed product %s: %v", products[i].Code, err)
			}
		}
	}

	log.Println("Default data seeding completed")
	return nil
}
