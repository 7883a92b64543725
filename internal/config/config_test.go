package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/changhyeonkim/hello-orm/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := config.Load("local")
	require.NoError(t, err)

	assert.Equal(t, "hello", cfg.Persistence.Unit)
	assert.Equal(t, config.DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "hello.db", cfg.Database.Path)
	assert.Equal(t, int64(1), cfg.Update.MemberID)
	assert.Equal(t, "HelloAAA", cfg.Update.MemberName)
	assert.Equal(t, time.Hour, cfg.Database.ConnMaxLifetime)
	assert.False(t, cfg.Database.IsAutoMigrate)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoad_EnvFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	content := "PERSISTENCE_UNIT=hello\nDB_DRIVER=postgres\nDB_HOST=localhost\nDB_SERVICE=hello\nDB_USER=sa\nDB_PASSWORD=secret\nUPDATE_MEMBER_ID=42\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.dev"), []byte(content), 0o600))

	// godotenv does not override variables that are already set
	for _, key := range []string{"PERSISTENCE_UNIT", "DB_DRIVER", "DB_HOST", "DB_SERVICE", "DB_USER", "DB_PASSWORD", "UPDATE_MEMBER_ID"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	cfg, err := config.Load("dev")
	require.NoError(t, err)

	assert.Equal(t, config.DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, int64(42), cfg.Update.MemberID)
}

func TestLoad_ValidationError(t *testing.T) {
	chdir(t, t.TempDir())

	testCases := []struct {
		name string
		env  map[string]string
	}{
		{
			name: "Unsupported driver",
			env:  map[string]string{"DB_DRIVER": "mysql"},
		},
		{
			name: "Postgres without host",
			env:  map[string]string{"DB_DRIVER": "postgres", "DB_SERVICE": "hello", "DB_USER": "sa", "DB_PASSWORD": "pw"},
		},
		{
			name: "Empty persistence unit",
			env:  map[string]string{"PERSISTENCE_UNIT": ""},
		},
		{
			name: "Invalid member id",
			env:  map[string]string{"UPDATE_MEMBER_ID": "0"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			_, err := config.Load("local")
			assert.Error(t, err)
		})
	}
}

func TestValidateJWT(t *testing.T) {
	cfg := &config.Config{}
	assert.Error(t, cfg.ValidateJWT())

	cfg.JWT.Secret = "short"
	assert.Error(t, cfg.ValidateJWT())

	cfg.JWT.Secret = "test-jwt-secret-key-must-be-at-least-32-characters-long"
	assert.NoError(t, cfg.ValidateJWT())
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
