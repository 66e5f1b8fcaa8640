// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler
// integration tests. Tests are skipped when PostgreSQL or Valkey are
// unavailable.
package handlers_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"

	"templatekit/internal/auth"
	"templatekit/internal/cache"
	"templatekit/internal/database"
	"templatekit/internal/engine"
	"templatekit/internal/handlers"
	"templatekit/internal/middleware"
	"templatekit/internal/models"
	"templatekit/internal/router"
	"templatekit/internal/session"
	"templatekit/internal/store"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL and runs migrations.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "templatekit")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "templatekit")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testValkeyClient returns a Redis client for handler tests on DB 15.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		for _, pattern := range []string{"session:*", "catalog:*"} {
			keys, _ := client.Keys(ctx, pattern).Result()
			if len(keys) > 0 {
				client.Del(ctx, keys...)
			}
		}
		client.Close()
	})

	return client
}

// testApp is a fully wired application over test Postgres and Valkey,
// plus a cookie-aware HTTP client for driving the API.
type testApp struct {
	db     *sql.DB
	srv    *httptest.Server
	client *http.Client
}

// newTestApp wires stores, engine, handlers, and router the same way
// main does and serves them from an httptest server.
func newTestApp(t *testing.T) *testApp {
	t.Helper()

	db := testDB(t)
	valkey := testValkeyClient(t)

	sessions := session.NewStore(valkey, false)
	catalog := cache.NewCatalog(valkey, time.Minute)

	users := store.NewUserStore(db)
	posts := store.NewPostStore(db)
	templates := store.NewTemplateStore(db)
	categories := store.NewCategoryStore(db)
	usage := store.NewUsageStore(db)
	settings := store.NewSettingStore(db)

	eng := engine.New(templates, posts, usage, auth.NewChecker(), settings)

	limiter := middleware.NewRateLimiter(1000, time.Minute)
	t.Cleanup(limiter.Stop)

	r := router.New(
		sessions,
		handlers.NewAuth(sessions, users),
		handlers.NewTemplates(templates, usage, eng, catalog),
		handlers.NewCategories(categories, catalog),
		handlers.NewStats(templates, usage),
		handlers.NewSettings(settings),
		limiter,
	)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}

	return &testApp{
		db:     db,
		srv:    srv,
		client: &http.Client{Jar: jar},
	}
}

// createUser inserts a user with a known password and registers cleanup.
func (app *testApp) createUser(t *testing.T, role models.Role) (*models.User, string) {
	t.Helper()

	email := "h-" + uuid.NewString()[:8] + "@templatekit.local"
	password := "test-password"
	user, err := store.NewUserStore(app.db).Create(email, password, "Handler Test", role)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	t.Cleanup(func() { app.db.Exec("DELETE FROM users WHERE id = $1", user.ID) })
	return user, password
}

// login authenticates through the API so the jar holds a session cookie.
func (app *testApp) login(t *testing.T, email, password string) {
	t.Helper()

	body, _ := json.Marshal(map[string]string{"email": email, "password": password})
	resp, err := app.client.Post(app.srv.URL+"/login", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("login request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(resp.Body)
		t.Fatalf("login: status %d, body %s", resp.StatusCode, payload)
	}
}

// csrfToken primes and returns the CSRF token via a safe API request.
func (app *testApp) csrfToken(t *testing.T) string {
	t.Helper()

	resp, err := app.client.Get(app.srv.URL + "/api/me")
	if err != nil {
		t.Fatalf("prime csrf: %v", err)
	}
	resp.Body.Close()

	u, _ := url.Parse(app.srv.URL)
	for _, c := range app.client.Jar.Cookies(u) {
		if c.Name == middleware.CSRFCookieName {
			return c.Value
		}
	}
	t.Fatal("csrf cookie not set")
	return ""
}

// do sends a JSON request with the CSRF header and decodes the response
// into out when it is non-nil. Returns the status code.
func (app *testApp) do(t *testing.T, method, path string, payload, out any) int {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, app.srv.URL+path, body)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if method != http.MethodGet {
		req.Header.Set(middleware.CSRFHeaderName, app.csrfToken(t))
	}

	resp, err := app.client.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
			t.Fatalf("decode %s %s response: %v", method, path, err)
		}
	}
	return resp.StatusCode
}
