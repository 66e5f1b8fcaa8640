// store_test.go provides a shared test database helper for all store
// integration tests. Tests are skipped if PostgreSQL is not available.
package store

import (
	"database/sql"
	"os"
	"testing"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"templatekit/internal/database"
	"templatekit/internal/models"
)

// testDSN returns the PostgreSQL connection string for testing.
// Uses environment variables with defaults matching docker-compose.yml.
func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "templatekit")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "templatekit")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test database and runs migrations.
// If the database is unavailable, the test is skipped. A cleanup
// function is registered to close the connection when the test finishes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := testDSN()
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}

	// Run migrations to ensure the schema is current.
	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	// Downgrade goose global state.
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testUser creates a throwaway user and registers cleanup.
func testUser(t *testing.T, db *sql.DB, role models.Role) *models.User {
	t.Helper()

	email := "test-" + uuid.NewString()[:8] + "@templatekit.local"
	user, err := NewUserStore(db).Create(email, "secret", "Test User", role)
	if err != nil {
		t.Fatalf("create test user: %v", err)
	}

	t.Cleanup(func() { db.Exec("DELETE FROM users WHERE id = $1", user.ID) })
	return user
}

// testTemplate creates a published template owned by a fresh user.
func testTemplate(t *testing.T, db *sql.DB, title string) *models.Template {
	t.Helper()

	author := testUser(t, db, models.RoleAdmin)
	created, err := NewTemplateStore(db).Create(&models.Template{
		Title:           title,
		Content:         "template body",
		Status:          models.TemplateStatusPublished,
		TargetPostTypes: []string{"post"},
		AuthorID:        author.ID,
	})
	if err != nil {
		t.Fatalf("create test template: %v", err)
	}

	t.Cleanup(func() { db.Exec("DELETE FROM templates WHERE id = $1", created.ID) })
	return created
}

// testPost creates a post of the given type owned by a fresh user.
func testPost(t *testing.T, db *sql.DB, postType string) *models.Post {
	t.Helper()

	author := testUser(t, db, models.RoleAuthor)
	created, err := NewPostStore(db).Create(&models.Post{
		Type:     postType,
		Title:    "Test Post",
		Content:  "original content",
		Excerpt:  "original excerpt",
		AuthorID: author.ID,
	})
	if err != nil {
		t.Fatalf("create test post: %v", err)
	}

	t.Cleanup(func() { db.Exec("DELETE FROM posts WHERE id = $1", created.ID) })
	return created
}

// cleanUsage removes usage rows for a template. Call in t.Cleanup().
func cleanUsage(t *testing.T, db *sql.DB, templateID int64) {
	t.Helper()
	db.Exec("DELETE FROM template_usage WHERE template_id = $1", templateID)
}
