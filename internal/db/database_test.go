package db

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ikkim/foodhub-backend/internal/app/model"
	appLogger "github.com/ikkim/foodhub-backend/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	var buf bytes.Buffer
	appLogger.Initialize(appLogger.Config{Level: "debug", Format: "json", Output: &buf})
	t.Cleanup(func() {
		appLogger.Initialize(appLogger.Config{Level: "info", Format: "console"})
	})
	return &buf
}

func TestQueryLogger_Trace(t *testing.T) {
	buf := captureLogs(t)
	l := newQueryLogger(10 * time.Millisecond)
	sql := func() (string, int64) { return `SELECT * FROM "products"`, 3 }

	l.Trace(context.Background(), time.Now(), sql, nil)
	assert.Empty(t, buf.String())

	l.Trace(context.Background(), time.Now(), sql, gorm.ErrRecordNotFound)
	assert.Empty(t, buf.String())

	l.Trace(context.Background(), time.Now().Add(-time.Second), sql, nil)
	assert.Contains(t, buf.String(), "Slow query")

	buf.Reset()
	l.Trace(context.Background(), time.Now(), sql, errors.New("relation does not exist"))
	assert.Contains(t, buf.String(), "Query failed")

	buf.Reset()
	l.LogMode(logger.Silent).Trace(context.Background(), time.Now().Add(-time.Second), sql, errors.New("boom"))
	assert.Empty(t, buf.String())
}

func TestMigrateDB_SeedsDefaultTaxTemplate(t *testing.T) {
	testDB, err := SetupTestDB()
	require.NoError(t, err)
	defer CleanupTestDB(testDB)

	// running twice must not duplicate the template
	require.NoError(t, MigrateDB(testDB))

	var count int64
	require.NoError(t, testDB.Model(&model.TaxTemplate{}).Where("code = ?", DefaultTaxTemplateCode).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestTruncateAllTables(t *testing.T) {
	testDB, err := SetupTestDB()
	require.NoError(t, err)
	defer CleanupTestDB(testDB)

	require.NoError(t, testDB.Create(&model.Restaurant{Name: "Cafe", IsActive: true}).Error)
	require.NoError(t, TruncateAllTables(testDB))

	var count int64
	require.NoError(t, testDB.Model(&model.Restaurant{}).Count(&count).Error)
	assert.Zero(t, count)
}
