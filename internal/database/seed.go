package database

import (
	"errors"
	"fmt"
	"log"

	"github.com/yukikurage/meal-attendance-api/internal/config"
	"github.com/yukikurage/meal-attendance-api/internal/constants"
	"github.com/yukikurage/meal-attendance-api/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Seed creates or resets the bootstrap admin and the read-only demo admin.
// Passwords come from APP_ADMIN_PASSWORD / APP_DEMO_ADMIN_PASSWORD so that no
// real credential ever lives in the repository. Runs once at startup.
func Seed(cfg *config.Config) error {
	if err := upsertAdminAccount(constants.AdminUsername, "Administrator", "Management", cfg.AdminPassword); err != nil {
		return err
	}
	if err := upsertAdminAccount(constants.DemoUsername, "Demo Administrator", "Demo", cfg.DemoAdminPassword); err != nil {
		return err
	}
	log.Printf("Bootstrap accounts ready: %s, %s (read-only)", constants.AdminUsername, constants.DemoUsername)
	return nil
}

func upsertAdminAccount(username, name, department, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password for %s: %w", username, err)
	}

	var user models.User
	err = DB.Where("username = ?", username).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = models.User{
			Username:     username,
			Name:         name,
			PasswordHash: string(hash),
			Department:   department,
			Role:         models.RoleAdmin,
			Approved:     true,
			Active:       true,
		}
		if err := DB.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to create account %s: %w", username, err)
		}
		log.Printf("Created bootstrap account %q", username)
	case err != nil:
		return fmt.Errorf("failed to look up account %s: %w", username, err)
	default:
		// Existing account: reset the password and re-assert the admin flags.
		user.PasswordHash = string(hash)
		user.Role = models.RoleAdmin
		user.Approved = true
		user.Active = true
		if err := DB.Save(&user).Error; err != nil {
			return fmt.Errorf("failed to update account %s: %w", username, err)
		}
		log.Printf("Reset password for bootstrap account %q", username)
	}
	return nil
}
