package router

import (
	"net/http"
	"strings"

	"github.com/ezlinkai/campaign-studio/common/config"
	"github.com/ezlinkai/campaign-studio/common/logger"
	"github.com/gin-contrib/static"
	"github.com/gin-gonic/gin"
)

func SetRouter(router *gin.Engine) {
	SetApiRouter(router)
	if config.StaticDir == "" {
		return
	}
	// 单页前端：静态文件优先，其余非 /api 路径回落到 index.html
	router.Use(static.Serve("/", static.LocalFile(config.StaticDir, true)))
	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.RequestURI, "/api") {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"message": "not found",
			})
			return
		}
		c.File(strings.TrimSuffix(config.StaticDir, "/") + "/index.html")
	})
	logger.SysLog("serving frontend from " + config.StaticDir)
}
