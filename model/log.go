package model

import (
	"context"
	"errors"

	"github.com/ezlinkai/campaign-studio/common/config"
	"github.com/ezlinkai/campaign-studio/common/helper"
	"github.com/ezlinkai/campaign-studio/common/logger"

	"gorm.io/gorm"
)

// RunLog is one generation pass. Only metadata is stored, never assets.
type RunLog struct {
	Id          int     `json:"id"`
	RequestId   string  `json:"request_id" gorm:"index"`
	Run         uint64  `json:"run" gorm:"index"`
	CreatedAt   int64   `json:"created_at" gorm:"bigint;index"`
	Style       string  `json:"style" gorm:"index;default:''"`
	Language    string  `json:"language" gorm:"default:''"`
	Status      string  `json:"status" gorm:"index;default:''"`
	ShotCount   int     `json:"shot_count" gorm:"default:0"`
	Succeeded   int     `json:"succeeded" gorm:"default:0"`
	Failed      int     `json:"failed" gorm:"default:0"`
	Title       string  `json:"title" gorm:"default:''"`
	Message     string  `json:"message"`
	Duration    float64 `json:"duration" gorm:"default:0"`
	Provider    string  `json:"provider" gorm:"default:''"`
	Model       string  `json:"model" gorm:"default:''"`
	HighQuality bool    `json:"high_quality"`
}

// ShotLog is one image, video or narration attempt.
type ShotLog struct {
	Id        int     `json:"id"`
	Run       uint64  `json:"run" gorm:"index"`
	CreatedAt int64   `json:"created_at" gorm:"bigint;index"`
	Kind      string  `json:"kind" gorm:"index;default:'image'"`
	Index     int     `json:"index"`
	Provider  string  `json:"provider" gorm:"default:''"`
	Status    string  `json:"status" gorm:"default:''"`
	Message   string  `json:"message"`
	Duration  float64 `json:"duration" gorm:"default:0"`
}

const (
	ShotLogKindImage     = "image"
	ShotLogKindVideo     = "video"
	ShotLogKindNarration = "narration"
)

func RecordRunLog(ctx context.Context, log *RunLog) {
	if DB == nil {
		return
	}
	if log.CreatedAt == 0 {
		log.CreatedAt = helper.GetTimestamp()
	}
	if err := DB.Create(log).Error; err != nil {
		logger.Error(ctx, "failed to record run log: "+err.Error())
	}
}

func RecordShotLog(ctx context.Context, log *ShotLog) {
	if DB == nil {
		return
	}
	if log.CreatedAt == 0 {
		log.CreatedAt = helper.GetTimestamp()
	}
	if err := DB.Create(log).Error; err != nil {
		logger.Error(ctx, "failed to record shot log: "+err.Error())
	}
}

func GetRunLogs(status string, startIdx int, num int) (logs []*RunLog, total int64, err error) {
	if DB == nil {
		return nil, 0, errors.New("database not initialized")
	}
	var tx *gorm.DB
	if status == "" {
		tx = DB.Model(&RunLog{})
	} else {
		tx = DB.Model(&RunLog{}).Where("status = ?", status)
	}
	if err = tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if num <= 0 {
		num = config.ItemsPerPage
	}
	err = tx.Order("id desc").Limit(num).Offset(startIdx).Find(&logs).Error
	return logs, total, err
}

func GetShotLogsByRun(run uint64) (logs []*ShotLog, err error) {
	if DB == nil {
		return nil, errors.New("database not initialized")
	}
	err = DB.Where("run = ?", run).Order("id asc").Find(&logs).Error
	return logs, err
}

// DeleteOldLogs removes run and shot logs created before targetTimestamp.
func DeleteOldLogs(targetTimestamp int64) (int64, error) {
	if DB == nil {
		return 0, nil
	}
	result := DB.Where("created_at < ?", targetTimestamp).Delete(&ShotLog{})
	if result.Error != nil {
		return 0, result.Error
	}
	deleted := result.RowsAffected
	result = DB.Where("created_at < ?", targetTimestamp).Delete(&RunLog{})
	if result.Error != nil {
		return deleted, result.Error
	}
	return deleted + result.RowsAffected, nil
}
