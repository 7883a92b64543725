package testutil

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/changhyeonkim/hello-orm/internal/config"
)

const TestJWTSecret = "test-jwt-secret-key-must-be-at-least-32-characters-long"

// NewTestConfig creates a test configuration backed by a SQLite file in t.TempDir().
// This removes the need for environment variables during testing
func NewTestConfig(t *testing.T) *config.Config {
	t.Helper()

	return &config.Config{
		App: config.AppConfig{
			Name: "hello-orm-test",
			Env:  "test",
			Port: 8080,
		},
		Persistence: config.PersistenceConfig{
			Unit: "hello",
		},
		Database: config.DatabaseConfig{
			Driver:          config.DriverSQLite,
			Path:            filepath.Join(t.TempDir(), "hello.db"),
			MaxIdleConns:    10,
			MaxOpenConns:    100,
			ConnMaxLifetime: time.Hour,
			ConnMaxIdleTime: 10 * time.Minute,
			IsAutoMigrate:   true,
			IsSeed:          true,
		},
		Update: config.UpdateConfig{
			MemberID:   1,
			MemberName: "HelloAAA",
		},
		JWT: config.JWTConfig{
			Secret: TestJWTSecret,
			Expiry: 24 * time.Hour,
		},
		CORS: config.CORSConfig{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"*"},
			AllowCredentials: true,
			MaxAge:           86400,
		},
		Server: config.ServerConfig{
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			GracefulTimeout: 30 * time.Second,
		},
	}
}
