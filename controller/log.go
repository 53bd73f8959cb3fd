package controller

import (
	"net/http"
	"strconv"

	"github.com/ezlinkai/campaign-studio/common/config"
	"github.com/ezlinkai/campaign-studio/model"
	"github.com/gin-gonic/gin"
)

func GetRunLogs(c *gin.Context) {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 1 {
		page = 1
	}
	pagesize, err := strconv.Atoi(c.Query("pagesize"))
	if err != nil || pagesize <= 0 {
		pagesize = config.ItemsPerPage
	}
	if pagesize > config.MaxRecentItems {
		pagesize = config.MaxRecentItems
	}
	logs, total, err := model.GetRunLogs(c.Query("status"), (page-1)*pagesize, pagesize)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{
			"success": false,
			"message": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "",
		"data": gin.H{
			"list":        logs,
			"currentPage": page,
			"pageSize":    pagesize,
			"total":       total,
		},
	})
}

// GetShotLogs 返回某次生成的逐镜头记录
func GetShotLogs(c *gin.Context) {
	run, err := strconv.ParseUint(c.Param("run"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "invalid run",
		})
		return
	}
	logs, err := model.GetShotLogsByRun(run)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{
			"success": false,
			"message": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "",
		"data":    logs,
	})
}
