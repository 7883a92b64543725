package testutil

import (
	"path/filepath"
	"testing"

	"github.com/changhyeonkim/hello-orm/internal/model"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB creates a file-backed SQLite database for testing.
// A file is used instead of :memory: so every pooled connection sees the same data.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	return OpenTestDB(t, filepath.Join(t.TempDir(), "hello.db"), true)
}

// OpenTestDB opens path, migrating the models when migrate is true
func OpenTestDB(t *testing.T, path string, migrate bool) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent), // Silent mode for tests
	})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	if migrate {
		err = db.AutoMigrate(
			&model.Member{},
		)
		if err != nil {
			t.Fatalf("Failed to migrate test database: %v", err)
		}
	}

	return db
}

// CleanupTestDB cleans up the test database
func CleanupTestDB(t *testing.T, db *gorm.DB) {
	t.Helper()

	sqlDB, err := db.DB()
	if err != nil {
		t.Errorf("Failed to get database instance: %v", err)
		return
	}

	if err := sqlDB.Close(); err != nil {
		t.Errorf("Failed to close database: %v", err)
	}
}

// SeedMember inserts a member row directly, bypassing the persistence context
func SeedMember(t *testing.T, db *gorm.DB, id int64, name string) {
	t.Helper()

	if err := db.Create(model.NewMember(id, name)).Error; err != nil {
		t.Fatalf("Failed to seed member %d: %v", id, err)
	}
}

// LoadMember reads a member row directly, bypassing the persistence context.
// It returns nil when the row does not exist.
func LoadMember(t *testing.T, db *gorm.DB, id int64) *model.Member {
	t.Helper()

	var members []model.Member
	if err := db.Where("id = ?", id).Limit(1).Find(&members).Error; err != nil {
		t.Fatalf("Failed to load member %d: %v", id, err)
	}
	if len(members) == 0 {
		return nil
	}
	return &members[0]
}

// TruncateTable truncates a table for test isolation
func TruncateTable(t *testing.T, db *gorm.DB, tableName string) {
	t.Helper()

	if err := db.Exec("DELETE FROM " + tableName).Error; err != nil {
		t.Fatalf("Failed to truncate table %s: %v", tableName, err)
	}
}
