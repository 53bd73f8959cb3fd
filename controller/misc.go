package controller

import (
	"net/http"

	"github.com/ezlinkai/campaign-studio/common"
	"github.com/ezlinkai/campaign-studio/common/cloudflare"
	"github.com/ezlinkai/campaign-studio/common/config"
	"github.com/ezlinkai/campaign-studio/middleware"
	"github.com/ezlinkai/campaign-studio/monitor"
	"github.com/gin-gonic/gin"
)

func GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "",
		"data": gin.H{
			"version":         common.Version,
			"start_time":      common.StartTime,
			"system_name":     config.SystemName,
			"credential":      monitor.Health(),
			"auth_required":   studio.Credentials.AuthRequired(),
			"bridge_session":  middleware.BridgeToken(c) != "",
			"r2_export":       cloudflare.Enabled(),
			"access_token":    config.AccessToken != "",
			"planning_model":  config.PlanningModel,
			"image_model":     config.ImageModelFast,
			"image_model_hq":  config.ImageModelHQ,
			"narration_model": config.NarrationModel,
			"video_model":     config.VideoModel,
		},
	})
}

// GetCatalog 返回风格、语言、脚本语气与配音列表
func GetCatalog(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "",
		"data":    config.GetCatalog(),
	})
}
