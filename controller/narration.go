package controller

import (
	"net/http"
	"strconv"

	"github.com/ezlinkai/campaign-studio/common/config"
	"github.com/gin-gonic/gin"
)

type narrationRequest struct {
	Voice string `json:"voice"`
}

// GenerateNarration synthesizes the whole campaign script with one voice.
func GenerateNarration(c *gin.Context) {
	req := narrationRequest{}
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"message": "invalid request body: " + err.Error(),
			})
			return
		}
	}
	asset, err := studio.GenerateNarration(c.Request.Context(), req.Voice)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "",
		"data": gin.H{
			"voice":       asset.Voice,
			"sample_rate": asset.SampleRate,
			"channels":    asset.Channels,
			"duration":    asset.Duration.Seconds(),
			"size":        len(asset.WAV),
		},
	})
}

func GetNarrationAudio(c *gin.Context) {
	asset := studio.Store.Narration()
	if asset == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": "narration has not been generated",
		})
		return
	}
	c.Header("Content-Disposition", `inline; filename="narration.wav"`)
	c.Header("X-Narration-Duration", strconv.FormatFloat(asset.Duration.Seconds(), 'f', 3, 64))
	c.Data(http.StatusOK, "audio/wav", asset.WAV)
}

func GetVoices(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "",
		"data": gin.H{
			"default": config.DefaultVoice,
			"voices":  config.GetCatalog().Voices,
		},
	})
}
