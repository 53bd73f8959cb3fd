package model

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ezlinkai/campaign-studio/common"
	"github.com/ezlinkai/campaign-studio/common/config"
	"github.com/ezlinkai/campaign-studio/common/env"
	"github.com/ezlinkai/campaign-studio/common/logger"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var DB *gorm.DB

// Store is the process-wide campaign; the studio serves a single session.
var Store = NewCampaignStore()

func chooseDB(envName string) (*gorm.DB, error) {
	dsn := os.Getenv(envName)
	gormConfig := &gorm.Config{
		PrepareStmt: true,
	}
	if !config.DebugSQLEnabled {
		gormConfig.Logger = gormlogger.Default.LogMode(gormlogger.Silent)
	}

	switch {
	case strings.HasPrefix(dsn, "postgres://"):
		logger.SysLog("using PostgreSQL as database")
		return gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), gormConfig)
	case dsn != "":
		logger.SysLog("using MySQL as database")
		if !strings.Contains(dsn, "parseTime") {
			if strings.Contains(dsn, "?") {
				dsn += "&parseTime=true"
			} else {
				dsn += "?parseTime=true"
			}
		}
		return gorm.Open(mysql.Open(dsn), gormConfig)
	default:
		logger.SysLog("SQL_DSN not set, using SQLite as database")
		return gorm.Open(sqlite.Open(fmt.Sprintf("%s?_busy_timeout=%d", common.SQLitePath, common.SQLiteBusyTimeout)), gormConfig)
	}
}

func InitDB() {
	var err error
	DB, err = chooseDB("SQL_DSN")
	if err != nil {
		logger.FatalLog("failed to initialize database: " + err.Error())
		return
	}
	sqlDB, err := DB.DB()
	if err != nil {
		logger.FatalLog("failed to get database handle: " + err.Error())
		return
	}
	sqlDB.SetMaxIdleConns(env.Int("SQL_MAX_IDLE_CONNS", 20))
	sqlDB.SetMaxOpenConns(env.Int("SQL_MAX_OPEN_CONNS", 100))
	sqlDB.SetConnMaxLifetime(time.Second * time.Duration(env.Int("SQL_MAX_LIFETIME", 60)))

	if err = migrate(DB); err != nil {
		logger.FatalLog("failed to migrate database: " + err.Error())
		return
	}
	logger.SysLog("database migrated")
}

func migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&RunLog{}); err != nil {
		return err
	}
	return db.AutoMigrate(&ShotLog{})
}

func CloseDB() error {
	if DB == nil {
		return nil
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
