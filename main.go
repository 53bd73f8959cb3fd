package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/ezlinkai/campaign-studio/common"
	"github.com/ezlinkai/campaign-studio/common/config"
	"github.com/ezlinkai/campaign-studio/common/logger"
	"github.com/ezlinkai/campaign-studio/controller"
	"github.com/ezlinkai/campaign-studio/middleware"
	"github.com/ezlinkai/campaign-studio/model"
	"github.com/ezlinkai/campaign-studio/monitor"
	"github.com/ezlinkai/campaign-studio/router"
	"github.com/ezlinkai/campaign-studio/service"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

func main() {
	common.Init()
	logger.SetupLogger()
	logger.SysLog(fmt.Sprintf("Campaign Studio %s started", common.Version))
	if os.Getenv("GIN_MODE") != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	if config.DebugEnabled {
		logger.SysLog("running in debug mode")
	}

	if config.StyleCatalogPath != "" {
		if err := config.LoadCatalogFile(config.StyleCatalogPath); err != nil {
			logger.FatalLog("failed to load style catalog: " + err.Error())
		}
		logger.SysLog("style catalog loaded from " + config.StyleCatalogPath)
	}

	// Initialize SQL Database
	model.InitDB()
	defer func() {
		if err := model.CloseDB(); err != nil {
			logger.SysError("failed to close database: " + err.Error())
		}
	}()

	// Initialize Redis
	if err := common.InitRedisClient(); err != nil {
		logger.FatalLog("failed to initialize Redis: " + err.Error())
	}

	retention, err := model.StartLogRetention(config.LogRetentionCron, config.LogRetentionDays)
	if err != nil {
		logger.FatalLog(err.Error())
	}
	if retention != nil {
		defer retention.Stop()
	}

	if err = monitor.StartMetricsReporter(context.Background()); err != nil {
		logger.SysError("failed to start metrics reporter: " + err.Error())
	}
	defer monitor.StopMetricsReporter()

	credentials := service.NewCredentials(config.GeminiAPIKey)
	if credentials.AuthRequired() {
		logger.SysLog("GEMINI_API_KEY not set, waiting for a key through /api/credential")
	}
	controller.InitStudio(service.NewStudio(model.Store, credentials))

	// Initialize HTTP server
	server := gin.New()
	server.Use(middleware.PanicRecover())
	server.Use(middleware.RequestId())
	middleware.SetUpLogger(server)
	// Initialize session store
	store := cookie.NewStore([]byte(config.SessionSecret))
	server.Use(sessions.Sessions("session", store))

	router.SetRouter(server)

	var port = os.Getenv("PORT")
	if port == "" {
		port = strconv.Itoa(*common.Port)
	}
	if err = server.Run(":" + port); err != nil {
		logger.FatalLog("failed to start HTTP server: " + err.Error())
	}
}
