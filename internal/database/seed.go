package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// defaultCategories are created once on first boot, mirroring the
// categories most sites start from. Color matches the default badge tint.
var defaultCategories = []struct {
	Name        string
	Slug        string
	Description string
	Icon        string
}{
	{"Job Postings", "job-postings", "Templates for job posting announcements", "businessman"},
	{"Procurement & Bidding", "procurement-bidding", "Templates for procurement and bidding announcements", "hammer"},
	{"News & Announcements", "news-announcements", "Templates for news and general announcements", "megaphone"},
	{"Events", "events", "Templates for event announcements and invitations", "calendar"},
}

const defaultCategoryColor = "#0073aa"

// Seed populates the database with initial development data: a default
// admin user and the starter template categories. It is a no-op when
// users already exist.
func Seed(db *sql.DB) error {
	// Check if any users exist already.
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	// Hash the default admin password.
	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO users (email, password_hash, display_name, role)
		VALUES ($1, $2, $3, $4)
	`, "admin@templatekit.local", string(hash), "Admin", "admin")
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	for _, c := range defaultCategories {
		_, err = db.Exec(`
			INSERT INTO template_categories (name, slug, description, icon, color)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (slug) DO NOTHING
		`, c.Name, c.Slug, c.Description, c.Icon, defaultCategoryColor)
		if err != nil {
			return fmt.Errorf("seed category %s: %w", c.Slug, err)
		}
	}

	slog.Info("database seeded with default admin user and categories",
		"email", "admin@templatekit.local",
		"password", "admin",
	)

	return nil
}
