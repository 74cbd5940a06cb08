package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"chweb/internal/db"
	"chweb/internal/model"
	"chweb/pkg/snowflake"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

var snowflakeOnce sync.Once

// NewTestDB opens a uniquely named in-memory SQLite database and migrates it.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	initSnowflake()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared&_pragma=foreign_keys(1)", name, time.Now().UnixNano())
	database, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.Migrate(database); err != nil {
		database.Close()
		t.Fatalf("failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		database.Close()
	})

	return database
}

// NewFileDB opens a WAL-mode database file under t.TempDir(). Use it when a
// test needs concurrent writers; shared-cache memory databases report
// SQLITE_LOCKED instead of waiting on busy_timeout.
func NewFileDB(t *testing.T) *sql.DB {
	t.Helper()
	initSnowflake()

	database, err := db.Open(t.TempDir() + "/chweb.db")
	if err != nil {
		t.Fatalf("failed to open file database: %v", err)
	}

	t.Cleanup(func() {
		database.Close()
	})

	return database
}

func initSnowflake() {
	snowflakeOnce.Do(func() {
		if err := snowflake.Init(0); err != nil {
			panic("failed to initialize snowflake: " + err.Error())
		}
	})
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// SeedUser inserts a user and returns it. An empty APIKey gets a fresh UUID.
func SeedUser(t *testing.T, db *sql.DB, user model.User) model.User {
	t.Helper()

	if user.ID == 0 {
		user.ID = snowflake.NextID()
	}
	if user.APIKey == "" {
		user.APIKey = uuid.NewString()
	}

	ts := now()
	_, err := db.ExecContext(
		context.Background(),
		`INSERT INTO users (id, username, api_key, password_hash, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		user.ID, user.Username, user.APIKey, user.PasswordHash, ts, ts,
	)
	if err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}

	return user
}

// SeedHost inserts a host, including its inline counter, and returns it.
func SeedHost(t *testing.T, db *sql.DB, host model.Host) model.Host {
	t.Helper()

	if host.ID == 0 {
		host.ID = snowflake.NextID()
	}
	if host.APIKey == "" {
		host.APIKey = uuid.NewString()
	}

	var lastSeen interface{}
	if host.LastSeen != nil {
		lastSeen = host.LastSeen.UTC().Format(time.RFC3339Nano)
	}

	ts := now()
	_, err := db.ExecContext(
		context.Background(),
		`INSERT INTO hosts (id, name, api_key, allowed, blocked, last_seen, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		host.ID, host.Name, host.APIKey, host.Counter.Allowed, host.Counter.Blocked, lastSeen, ts, ts,
	)
	if err != nil {
		t.Fatalf("failed to seed host: %v", err)
	}

	return host
}

// SeedRule inserts a rule and returns its ID.
func SeedRule(t *testing.T, db *sql.DB, rule model.Rule) int64 {
	t.Helper()

	if rule.ID == 0 {
		rule.ID = snowflake.NextID()
	}

	ts := now()
	_, err := db.ExecContext(
		context.Background(),
		`INSERT INTO rules (id, type, action, host, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		rule.ID, rule.Type, rule.Action, rule.Host, ts, ts,
	)
	if err != nil {
		t.Fatalf("failed to seed rule: %v", err)
	}

	return rule.ID
}

// SeedSetting inserts a setting. value must be valid JSON.
func SeedSetting(t *testing.T, db *sql.DB, key, value string) {
	t.Helper()

	_, err := db.ExecContext(
		context.Background(),
		`INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)`,
		key, value, now(),
	)
	if err != nil {
		t.Fatalf("failed to seed setting: %v", err)
	}
}

// SeedCounter inserts or replaces a counters row.
func SeedCounter(t *testing.T, db *sql.DB, host string, allowed, blocked int64) {
	t.Helper()

	_, err := db.ExecContext(
		context.Background(),
		`INSERT OR REPLACE INTO counters (host, allowed, blocked) VALUES (?, ?, ?)`,
		host, allowed, blocked,
	)
	if err != nil {
		t.Fatalf("failed to seed counter: %v", err)
	}
}
