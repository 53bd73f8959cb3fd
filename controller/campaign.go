package controller

import (
	"net/http"

	"github.com/ezlinkai/campaign-studio/common"
	"github.com/ezlinkai/campaign-studio/common/logger"
	"github.com/ezlinkai/campaign-studio/composer"
	"github.com/ezlinkai/campaign-studio/middleware"
	"github.com/ezlinkai/campaign-studio/model"
	"github.com/ezlinkai/campaign-studio/service"
	"github.com/gin-gonic/gin"
)

func GetCampaign(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "",
		"data":    studio.Store.Snapshot(),
	})
}

// GenerateCampaign starts a generation pass and returns its run generation
// right away; progress arrives over /api/events.
func GenerateCampaign(c *gin.Context) {
	brief := model.CampaignBrief{}
	if err := common.UnmarshalBodyReusable(c, &brief); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "invalid request body: " + err.Error(),
		})
		return
	}
	gen, err := studio.StartCampaign(c.Request.Context(), &brief, service.RunOptions{
		BridgeToken: middleware.BridgeToken(c),
		RequestId:   c.GetString(logger.RequestIdKey),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	logger.Infof(c.Request.Context(), "campaign run %d started, style %s", gen, brief.Style)
	c.JSON(http.StatusAccepted, gin.H{
		"success": true,
		"message": "",
		"data": gin.H{
			"run": gen,
		},
	})
}

// DiscardCampaign clears the draft; in-flight work of the old run is ignored.
func DiscardCampaign(c *gin.Context) {
	studio.ClosePlayer()
	gen := studio.Store.Discard()
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "",
		"data": gin.H{
			"run": gen,
		},
	})
}

type scriptRequest struct {
	Script string `json:"script"`
}

func UpdateScript(c *gin.Context) {
	req := scriptRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "invalid request body: " + err.Error(),
		})
		return
	}
	studio.Store.UpdateScript(req.Script)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "",
	})
}

func DismissError(c *gin.Context) {
	studio.Store.DismissError()
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "",
	})
}

// GetShotPrompt resolves one platform prompt of a shot with the run's
// current settings.
func GetShotPrompt(c *gin.Context) {
	index, ok := shotIndex(c)
	if !ok {
		return
	}
	shot, err := studio.Store.Shot(index)
	if err != nil {
		respondError(c, err)
		return
	}
	platform := composer.Platform(c.Param("platform"))
	known := false
	for _, p := range composer.Platforms {
		known = known || p == platform
	}
	if !known {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": "unknown platform: " + string(platform),
		})
		return
	}
	snapshot := studio.Store.Snapshot()
	in := composer.Input{
		Platform:     platform,
		VisualPrompt: shot.VisualPrompt,
		ScriptLine:   shot.VoiceoverScript,
		ShotIndex:    index,
		ShotCount:    len(snapshot.Shots),
	}
	if snapshot.Brief != nil {
		in.StyleId = snapshot.Brief.Style
		in.AudioType = snapshot.Brief.AudioType
		in.Tone = snapshot.Brief.Tone
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "",
		"data": gin.H{
			"platform": in.Platform,
			"prompt":   composer.ResolvePrompt(in, shot.PlatformPrompts[string(platform)]),
		},
	})
}

func GenerateShotVideo(c *gin.Context) {
	index, ok := shotIndex(c)
	if !ok {
		return
	}
	if err := studio.StartVideo(c.Request.Context(), index); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{
		"success": true,
		"message": service.VideoStatusInitial,
	})
}
