package postgres

import (
	"testing"

	"trading-alerts/config"

	"github.com/stretchr/testify/assert"
	gormlogger "gorm.io/gorm/logger"
)

func TestDSN(t *testing.T) {
	cfg := config.Database{
		Host: "db", Port: 5432, User: "app", Password: "secret", DBName: "alerts", SSLMode: "disable",
	}
	assert.Equal(t, "host=db user=app password=secret dbname=alerts port=5432 sslmode=disable", DSN(cfg))

	cfg.TimeZone = "UTC"
	assert.Equal(t, "host=db user=app password=secret dbname=alerts port=5432 sslmode=disable TimeZone=UTC", DSN(cfg))
	assert.Equal(t, "postgres://app:secret@db:5432/alerts?sslmode=disable", URL(cfg))
}

func TestGormLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, gormLogLevel("Silent"))
	assert.Equal(t, gormlogger.Info, gormLogLevel("Info"))
	assert.Equal(t, gormlogger.Warn, gormLogLevel("whatever"))
}
