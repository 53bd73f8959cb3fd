package model

import (
	"fmt"
	"time"

	"github.com/ezlinkai/campaign-studio/common/helper"
	"github.com/ezlinkai/campaign-studio/common/logger"
	"github.com/robfig/cron/v3"
)

// StartLogRetention 按 schedule 定期清理 days 天之前的生成日志，days <= 0 时不启动
func StartLogRetention(schedule string, days int) (*cron.Cron, error) {
	if days <= 0 {
		return nil, nil
	}
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		cleanupLogs(days)
	})
	if err != nil {
		return nil, fmt.Errorf("invalid log retention schedule %q: %w", schedule, err)
	}
	c.Start()
	logger.SysLog(fmt.Sprintf("log retention enabled: keep %d days, schedule %q", days, schedule))
	return c, nil
}

func cleanupLogs(days int) int64 {
	target := helper.GetTimestamp() - int64((time.Duration(days)*24*time.Hour)/time.Second)
	deleted, err := DeleteOldLogs(target)
	if err != nil {
		logger.SysError("failed to delete old logs: " + err.Error())
		return deleted
	}
	if deleted > 0 {
		logger.SysLog(fmt.Sprintf("deleted %d old generation logs", deleted))
	}
	return deleted
}
