package db

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type widget struct {
	ID   uint `gorm:"primaryKey"`
	Name string
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, gdb.AutoMigrate(&widget{}))
	return gdb
}

func TestRunInTransaction_CommitRunsHooks(t *testing.T) {
	gdb := setupTestDB(t)
	tm := NewTransactionManager(gdb)
	ctx := context.Background()

	var hookRan bool
	err := tm.RunInTransaction(ctx, func(txCtx context.Context) error {
		assert.True(t, InTransaction(txCtx))
		assert.True(t, AfterCommit(txCtx, func(context.Context) { hookRan = true }))
		assert.False(t, hookRan)
		return GetTxFromContext(txCtx, gdb).Create(&widget{Name: "a"}).Error
	})
	require.NoError(t, err)
	assert.True(t, hookRan)

	var count int64
	require.NoError(t, gdb.Model(&widget{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRunInTransaction_RollbackDropsHooks(t *testing.T) {
	gdb := setupTestDB(t)
	tm := NewTransactionManager(gdb)
	boom := errors.New("boom")

	var hookRan bool
	err := tm.RunInTransaction(context.Background(), func(txCtx context.Context) error {
		AfterCommit(txCtx, func(context.Context) { hookRan = true })
		if err := GetTxFromContext(txCtx, gdb).Create(&widget{Name: "a"}).Error; err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.False(t, hookRan)

	var count int64
	require.NoError(t, gdb.Model(&widget{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRunInTransaction_NestedReusesOuter(t *testing.T) {
	gdb := setupTestDB(t)
	tm := NewTransactionManager(gdb)

	err := tm.RunInTransaction(context.Background(), func(outer context.Context) error {
		return tm.RunInTransaction(outer, func(inner context.Context) error {
			assert.Same(t, GetTxFromContext(outer, gdb), GetTxFromContext(inner, gdb))
			return nil
		})
	})
	require.NoError(t, err)
}

func TestAfterCommit_WithoutTransaction(t *testing.T) {
	assert.False(t, AfterCommit(context.Background(), func(context.Context) {}))
	assert.False(t, InTransaction(context.Background()))
}
