package model

import (
	"context"
	"testing"

	"github.com/ezlinkai/campaign-studio/common/helper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func useTestDB(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, migrate(db))
	DB = db
	t.Cleanup(func() {
		DB = nil
		_ = sqlDB.Close()
	})
}

func TestRecordLogsWithoutDatabase(t *testing.T) {
	DB = nil
	RecordRunLog(context.Background(), &RunLog{Run: 1})
	RecordShotLog(context.Background(), &ShotLog{Run: 1})
	deleted, err := DeleteOldLogs(helper.GetTimestamp())
	assert.NoError(t, err)
	assert.Zero(t, deleted)
}

func TestRunLogsArePagedNewestFirst(t *testing.T) {
	useTestDB(t)
	ctx := context.Background()
	for i := 1; i <= 3; i++ {
		RecordRunLog(ctx, &RunLog{Run: uint64(i), Status: "done", Style: "ugc"})
	}
	RecordRunLog(ctx, &RunLog{Run: 4, Status: "auth_required"})

	logs, total, err := GetRunLogs("", 0, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 4, total)
	require.Len(t, logs, 2)
	assert.EqualValues(t, 4, logs[0].Run)
	assert.EqualValues(t, 3, logs[1].Run)

	logs, total, err = GetRunLogs("done", 2, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, logs, 1)
	assert.EqualValues(t, 1, logs[0].Run)
}

func TestShotLogsByRunAndRetention(t *testing.T) {
	useTestDB(t)
	ctx := context.Background()
	now := helper.GetTimestamp()
	RecordShotLog(ctx, &ShotLog{Run: 7, Index: 0, Kind: ShotLogKindImage, Status: "success", CreatedAt: now - 100*86400})
	RecordShotLog(ctx, &ShotLog{Run: 7, Index: 1, Kind: ShotLogKindImage, Status: "failed"})
	RecordShotLog(ctx, &ShotLog{Run: 8, Index: 0, Kind: ShotLogKindVideo, Status: "success"})
	RecordRunLog(ctx, &RunLog{Run: 7, CreatedAt: now - 100*86400})

	logs, err := GetShotLogsByRun(7)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, 0, logs[0].Index)

	assert.EqualValues(t, 2, cleanupLogs(30))
	logs, err = GetShotLogsByRun(7)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, 1, logs[0].Index)
}

func TestStartLogRetention(t *testing.T) {
	c, err := StartLogRetention("0 3 * * *", 0)
	assert.NoError(t, err)
	assert.Nil(t, c)

	_, err = StartLogRetention("not a schedule", 30)
	assert.Error(t, err)

	c, err = StartLogRetention("@daily", 30)
	require.NoError(t, err)
	require.NotNil(t, c)
	c.Stop()
}
