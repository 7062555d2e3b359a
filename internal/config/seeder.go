package config

import (
	"log"

	"apexdrive/internal/adapters/persistence/models"
	"apexdrive/internal/core/domain"
	"apexdrive/internal/pkg/password"

	"gorm.io/gorm"
)

// SeedAdminUser creates the default admin account on first boot.
// Skipped when any admin already exists or no password is configured.
func SeedAdminUser(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).
		Where("role = ?", string(domain.RoleAdmin)).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	adminEmail := getEnv("ADMIN_EMAIL", "admin@apexdrive.example")
	adminPass := getEnv("ADMIN_PASSWORD", "")
	if adminPass == "" {
		log.Println("⚠️ ADMIN_PASSWORD not set, skipping admin seed")
		return nil
	}

	hashed, err := password.Hash(adminPass)
	if err != nil {
		return err
	}

	admin := &models.User{
		Name:     "Administrator",
		Email:    adminEmail,
		Password: hashed,
		Role:     string(domain.RoleAdmin),
	}

	if err := db.Create(admin).Error; err != nil {
		return err
	}

	log.Printf("✅ Seeded admin user: %s", adminEmail)
	return nil
}
