package database

import (
	"log"
	"os"

	"billing/internal/model"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewConnection initializes a new connection pool using GORM
func NewConnection(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	// Auto-migrate core models
	err = db.AutoMigrate(
		&model.User{},
		&model.Route{},
		&model.Vendor{},
		&model.Item{},
		&model.Bill{},
		&model.BillItem{},
	)
	if err != nil {
		log.Println("WARNING: Failed to auto-migrate models:", err)
	}

	return db, nil
}

// SeedAdmin creates the initial admin account from ADMIN_USERNAME/ADMIN_PASSWORD
// when the users table is empty. Does nothing on subsequent starts.
func SeedAdmin(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	username := os.Getenv("ADMIN_USERNAME")
	password := os.Getenv("ADMIN_PASSWORD")
	if username == "" {
		username = "admin"
	}
	if password == "" {
		password = "admin123"
		log.Println("WARNING: ADMIN_PASSWORD not set, seeding admin with the default password")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := model.User{Username: username, Password: string(hash), Role: model.RoleAdmin}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}
	log.Printf("Seeded admin user %q", username)
	return nil
}
