package router

import (
	"github.com/ezlinkai/campaign-studio/controller"
	"github.com/ezlinkai/campaign-studio/middleware"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
)

func SetApiRouter(router *gin.Engine) {
	router.Use(middleware.CORS())
	// websocket upgrades must not pass through gzip
	router.GET("/api/events", middleware.GlobalAPIRateLimit(), middleware.StudioAuth(), controller.StreamEvents)

	apiRouter := router.Group("/api")
	apiRouter.Use(gzip.Gzip(gzip.DefaultCompression))
	apiRouter.Use(middleware.GlobalAPIRateLimit())
	{
		apiRouter.GET("/status", controller.GetStatus)
		apiRouter.GET("/catalog", controller.GetCatalog)
		apiRouter.GET("/voices", controller.GetVoices)

		studioRoute := apiRouter.Group("/")
		studioRoute.Use(middleware.StudioAuth())
		{
			studioRoute.POST("/credential", controller.UpdateCredential)
			studioRoute.POST("/bridge/token", controller.SetBridgeToken)
			studioRoute.DELETE("/bridge/token", controller.ClearBridgeToken)

			campaignRoute := studioRoute.Group("/campaign")
			{
				campaignRoute.GET("", controller.GetCampaign)
				campaignRoute.POST("/generate", middleware.GenerateRateLimit(), controller.GenerateCampaign)
				campaignRoute.DELETE("", controller.DiscardCampaign)
				campaignRoute.PUT("/script", controller.UpdateScript)
				campaignRoute.DELETE("/error", controller.DismissError)
				campaignRoute.GET("/shots/:index/prompts/:platform", controller.GetShotPrompt)
				campaignRoute.POST("/shots/:index/video", middleware.GenerateRateLimit(), controller.GenerateShotVideo)
				campaignRoute.POST("/narration", middleware.GenerateRateLimit(), controller.GenerateNarration)
				campaignRoute.GET("/narration", controller.GetNarrationAudio)
				campaignRoute.GET("/export/script", controller.ExportScript)
				campaignRoute.GET("/export/images", controller.ExportImages)
				campaignRoute.POST("/export/r2", controller.ExportImagesToR2)
			}
			animaticRoute := studioRoute.Group("/animatic")
			{
				animaticRoute.POST("", controller.OpenAnimatic)
				animaticRoute.GET("", controller.GetAnimatic)
				animaticRoute.DELETE("", controller.CloseAnimatic)
				animaticRoute.POST("/render", controller.RenderAnimatic)
				animaticRoute.POST("/:action", controller.ControlAnimatic)
			}
			logRoute := studioRoute.Group("/logs")
			{
				logRoute.GET("", controller.GetRunLogs)
				logRoute.GET("/:run/shots", controller.GetShotLogs)
			}
		}
	}
}
