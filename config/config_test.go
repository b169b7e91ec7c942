package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDatabaseURL(t *testing.T) {
	testCases := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"default relative file", "sqlite:///db.sqlite", "db.sqlite", false},
		{"nested relative file", "sqlite:///data/books.db", "data/books.db", false},
		{"absolute file", "sqlite:////var/lib/books.db", "/var/lib/books.db", false},
		{"memory empty", "sqlite://", MemoryDatabase, false},
		{"memory explicit", "sqlite:///:memory:", MemoryDatabase, false},
		{"driver suffix", "sqlite+pysqlite:///db.sqlite", "db.sqlite", false},
		{"query stripped", "sqlite:///db.sqlite?mode=rwc", "db.sqlite", false},
		{"bare path", "./data/db.sqlite", "./data/db.sqlite", false},
		{"postgres rejected", "postgresql://user:pw@localhost/db", "", true},
		{"host rejected", "sqlite://localhost/db.sqlite", "", true},
		{"empty rejected", "  ", "", true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseDatabaseURL(tc.input)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedDatabaseURL)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("DATABASE_URL", "sqlite:///books.db")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test,http://b.test")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "-3")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "books.db", cfg.DatabasePath)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 0, cfg.RateLimitPerMinute)
	assert.False(t, cfg.RequireAuthForWrites)
}

func TestLoadConfigRejectsUnsupportedDatabase(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("DATABASE_URL", "mysql://root@localhost/books")

	_, err := LoadConfig()
	assert.ErrorIs(t, err, ErrUnsupportedDatabaseURL)
}
